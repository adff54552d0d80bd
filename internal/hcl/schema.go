package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileSchema is the top-level structure of a definition file.
var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "application", LabelNames: []string{"id"}},
	},
}

// applicationBlock is the body of an `application "<id>"` block.
type applicationBlock struct {
	Name                  string              `hcl:"name,optional"`
	Copyright             string              `hcl:"copyright,optional"`
	ShortDescription      string              `hcl:"short_description,optional"`
	Description           string              `hcl:"description,optional"`
	Path                  string              `hcl:"path,optional"`
	AppPackage            string              `hcl:"app_package,optional"`
	DevelopmentRepository string              `hcl:"development_repository,optional"`
	DebPackage            string              `hcl:"deb_package,optional"`
	RpmPackage            string              `hcl:"rpm_package,optional"`
	OMLPrefix             string              `hcl:"oml_prefix,optional"`
	Env                   map[string]string   `hcl:"env,optional"`
	Version               *versionBlock       `hcl:"version,block"`
	Properties            []*propertyBlock    `hcl:"property,block"`
	Measurements          []*measurementBlock `hcl:"measurement,block"`
}

type versionBlock struct {
	Major    int `hcl:"major"`
	Minor    int `hcl:"minor,optional"`
	Revision int `hcl:"revision,optional"`
}

type propertyBlock struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	Parameter   string         `hcl:"parameter,optional"`
	Type        hcl.Expression `hcl:"type,optional"`
	Dynamic     bool           `hcl:"dynamic,optional"`
	Order       *int           `hcl:"order,optional"`
}

type measurementBlock struct {
	ID          string            `hcl:"id,label"`
	Description string            `hcl:"description,optional"`
	Options     map[string]string `hcl:"options,optional"`
}

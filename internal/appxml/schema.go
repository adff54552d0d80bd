package appxml

import "encoding/xml"

const rootElement = "application"

// xmlApplication mirrors the <application> element.
type xmlApplication struct {
	XMLName               xml.Name         `xml:"application"`
	ID                    string           `xml:"id,attr"`
	Name                  string           `xml:"name"`
	URI                   string           `xml:"uri,omitempty"`
	Version               *xmlVersion      `xml:"version"`
	Copyright             string           `xml:"copyright"`
	ShortDescription      string           `xml:"shortDescription"`
	Description           string           `xml:"description"`
	Properties            *xmlProperties   `xml:"properties"`
	Measurements          *xmlMeasurements `xml:"measurements"`
	Path                  string           `xml:"path"`
	AppPackage            string           `xml:"appPackage,omitempty"`
	DevelopmentRepository string           `xml:"developmentRepository,omitempty"`
	DebPackage            string           `xml:"debPackage,omitempty"`
	RpmPackage            string           `xml:"rpmPackage,omitempty"`
	OMLPrefix             string           `xml:"omlPrefix,omitempty"`
	Environments          *xmlEnvironments `xml:"environments"`
	Unknown               []xmlUnknown     `xml:",any"`
}

// xmlVersion accepts both <major>/<minor>/<revision> children and the
// dotted text form.
type xmlVersion struct {
	Major    *int   `xml:"major"`
	Minor    *int   `xml:"minor"`
	Revision *int   `xml:"revision"`
	Text     string `xml:",chardata"`
}

type xmlProperties struct {
	Property []xmlProperty `xml:"property"`
	Unknown  []xmlUnknown  `xml:",any"`
}

type xmlProperty struct {
	Name        string       `xml:"name,attr"`
	Parameter   string       `xml:"parameter,attr,omitempty"`
	Type        string       `xml:"type,attr,omitempty"`
	Dynamic     string       `xml:"dynamic,attr,omitempty"`
	Order       string       `xml:"order,attr,omitempty"`
	Description string       `xml:"description"`
	Unknown     []xmlUnknown `xml:",any"`
}

type xmlMeasurements struct {
	Measurement []xmlMeasurement `xml:"measurement"`
	Unknown     []xmlUnknown     `xml:",any"`
}

type xmlMeasurement struct {
	ID          string      `xml:"id,attr"`
	Description string      `xml:"description,attr,omitempty"`
	Option      []xmlOption `xml:"option"`
}

type xmlOption struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type xmlEnvironments struct {
	Env     []xmlEnv     `xml:"env"`
	Unknown []xmlUnknown `xml:",any"`
}

type xmlEnv struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// xmlUnknown captures any element the schema does not name.
type xmlUnknown struct {
	XMLName xml.Name
}

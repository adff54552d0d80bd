package appdef

// MeasurementPoint identifies a group of measurements an application reports.
// Beyond its id the point is opaque to this package; Options is carried
// through to serialization untouched.
type MeasurementPoint struct {
	ID          string
	Description string
	Options     map[string]string
}

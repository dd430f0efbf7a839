package workspace

// SpatialReference identifies a coordinate system by well-known id or
// well-known text. Exactly one of the two is normally set.
type SpatialReference struct {
	WKID int    `json:"wkid,omitempty" yaml:"wkid,omitempty"`
	WKT  string `json:"wkt,omitempty" yaml:"wkt,omitempty"`
}

// Extent is a bounding box in the units of its spatial reference.
type Extent struct {
	XMin             float64           `json:"xmin" yaml:"xmin"`
	YMin             float64           `json:"ymin" yaml:"ymin"`
	XMax             float64           `json:"xmax" yaml:"xmax"`
	YMax             float64           `json:"ymax" yaml:"ymax"`
	SpatialReference *SpatialReference `json:"spatialReference,omitempty" yaml:"spatialReference,omitempty"`
}

// Context carries the per-call spatial and runtime settings recognized by
// the geoanalytics tools: the processing extent, the processing and output
// coordinate systems, and the target data store.
type Context struct {
	Extent    *Extent           `yaml:"extent"`
	ProcessSR *SpatialReference `yaml:"processSR"`
	OutSR     *SpatialReference `yaml:"outSR"`
	DataStore string            `yaml:"dataStore"`
}

// Map returns the wire form of the context. Unset settings do not appear.
func (c *Context) Map() map[string]interface{} {
	m := map[string]interface{}{}
	if c == nil {
		return m
	}
	if c.Extent != nil {
		m["extent"] = c.Extent
	}
	if c.ProcessSR != nil {
		m["processSR"] = c.ProcessSR
	}
	if c.OutSR != nil {
		m["outSR"] = c.OutSR
	}
	if c.DataStore != "" {
		m["dataStore"] = c.DataStore
	}
	return m
}

// Empty reports whether the context carries no settings at all.
func (c *Context) Empty() bool {
	return len(c.Map()) == 0
}

package geoprocessing

import (
	"fmt"
)

// FeatureLayer refers to a server-side feature layer by URL and item id.
type FeatureLayer struct {
	URL    string
	ItemID string
}

// Table refers to a server-side table by URL and item id.
type Table struct {
	URL    string
	ItemID string
}

// DataFile is a downloadable artifact produced by a tool.
type DataFile struct {
	URL         string
	ContentType string
}

// decodeOutput turns the raw payload behind one result parameter into the
// value declared by the output spec. When a feature-set payload references
// the service this call provisioned, the provisioner's handle is returned
// instead of a fresh one so that a call observes exactly one handle per
// output.
func decodeOutput(spec OutputSpec, payload map[string]interface{}, handle *OutputServiceHandle) (interface{}, error) {
	value := payload["value"]

	switch spec.Kind {
	case OutFeatureSet:
		ref, err := layerRef(spec.Name, value)
		if err != nil {
			return nil, err
		}
		if handle != nil && (ref.URL == handle.URL || (ref.ItemID != "" && ref.ItemID == handle.ItemID)) {
			return handle, nil
		}
		return ref, nil
	case OutTable:
		ref, err := layerRef(spec.Name, value)
		if err != nil {
			return nil, err
		}
		return Table{URL: ref.URL, ItemID: ref.ItemID}, nil
	case OutDataFile:
		m, ok := value.(map[string]interface{})
		if !ok {
			return nil, &InternalError{Message: fmt.Sprintf("output %s: expected data file object, got %T", spec.Name, value)}
		}
		df := DataFile{}
		if u, ok := m["url"].(string); ok {
			df.URL = u
		}
		if ct, ok := m["contentType"].(string); ok {
			df.ContentType = ct
		}
		if df.URL == "" {
			return nil, &InternalError{Message: fmt.Sprintf("output %s: data file payload has no url", spec.Name)}
		}
		return df, nil
	case OutList:
		list, ok := value.([]interface{})
		if !ok {
			return nil, &InternalError{Message: fmt.Sprintf("output %s: expected list, got %T", spec.Name, value)}
		}
		return list, nil
	case OutDict:
		dict, ok := value.(map[string]interface{})
		if !ok {
			return nil, &InternalError{Message: fmt.Sprintf("output %s: expected object, got %T", spec.Name, value)}
		}
		return dict, nil
	case OutScalar:
		return value, nil
	default:
		return nil, &InternalError{Message: fmt.Sprintf("descriptor declares unknown output kind %d for %s", spec.Kind, spec.Name)}
	}
}

// layerRef extracts a layer reference from a result payload. The service
// reports either a flat {url, itemId} object or the serviceProperties shape
// used when the result landed in a pre-created destination.
func layerRef(name string, value interface{}) (FeatureLayer, error) {
	m, ok := value.(map[string]interface{})
	if !ok {
		return FeatureLayer{}, &InternalError{Message: fmt.Sprintf("output %s: expected layer object, got %T", name, value)}
	}

	ref := FeatureLayer{}
	if u, ok := m["url"].(string); ok {
		ref.URL = u
	}
	if id, ok := m["itemId"].(string); ok {
		ref.ItemID = id
	}
	if props, ok := m["serviceProperties"].(map[string]interface{}); ok {
		if u, ok := props["serviceUrl"].(string); ok && ref.URL == "" {
			ref.URL = u
		}
	}
	if props, ok := m["itemProperties"].(map[string]interface{}); ok {
		if id, ok := props["itemId"].(string); ok && ref.ItemID == "" {
			ref.ItemID = id
		}
	}
	if ref.URL == "" && ref.ItemID == "" {
		return FeatureLayer{}, &InternalError{Message: fmt.Sprintf("output %s: layer payload has neither url nor itemId", name)}
	}
	return ref, nil
}

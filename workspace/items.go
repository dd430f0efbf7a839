package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// FeatureServiceType is the service kind used for destination services.
const FeatureServiceType = "Feature Service"

// ServiceHandle is a lightweight reference to a workspace-resident service:
// its name, REST endpoint, and owning item id. It carries identity only,
// never contents.
type ServiceHandle struct {
	Name   string
	URL    string
	ItemID string
}

// ServiceDefinition is the minimal definition used when creating an empty
// destination feature service: a single layer, query-only.
type ServiceDefinition struct {
	Name           string
	MaxRecordCount int
	Capabilities   string
}

// ItemProperties is the item-level metadata attached to a created service.
type ItemProperties struct {
	Title        string
	Description  string
	Tags         []string
	TypeKeywords []string
}

// ItemRegistry manages workspace items: service creation, name availability,
// metadata updates, and deletion. The geoprocessing orchestrator consumes
// this interface; tests substitute fakes.
type ItemRegistry interface {
	CreateService(ctx context.Context, def ServiceDefinition, props ItemProperties) (ServiceHandle, error)
	IsServiceNameAvailable(ctx context.Context, name, serviceType string) (bool, error)
	UpdateItem(ctx context.Context, itemID string, data map[string]interface{}) error
	DeleteItem(ctx context.Context, itemID string) error
}

// restRegistry speaks the portal-style content REST API.
type restRegistry struct {
	conn *Connection
}

// NewRESTRegistry returns an ItemRegistry backed by the connection's
// sharing endpoints.
func NewRESTRegistry(conn *Connection) ItemRegistry {
	return &restRegistry{conn: conn}
}

func (r *restRegistry) IsServiceNameAvailable(ctx context.Context, name, serviceType string) (bool, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("type", serviceType)
	resp, err := r.conn.Get(ctx, "sharing/rest/portals/self/isServiceNameAvailable", params)
	if err != nil {
		return false, err
	}
	avail, _ := resp["available"].(bool)
	return avail, nil
}

func (r *restRegistry) CreateService(ctx context.Context, def ServiceDefinition, props ItemProperties) (ServiceHandle, error) {
	createParams := map[string]interface{}{
		"name":               def.Name,
		"serviceDescription": "",
		"hasStaticData":      false,
		"maxRecordCount":     def.MaxRecordCount,
		"capabilities":       def.Capabilities,
		"layers":             []interface{}{},
	}
	encoded, err := json.Marshal(createParams)
	if err != nil {
		return ServiceHandle{}, err
	}

	params := url.Values{}
	params.Set("createParameters", string(encoded))
	params.Set("outputType", "featureService")
	params.Set("title", props.Title)
	params.Set("description", props.Description)
	params.Set("tags", strings.Join(props.Tags, ","))
	params.Set("typeKeywords", strings.Join(props.TypeKeywords, ","))

	resp, err := r.conn.Post(ctx, "sharing/rest/content/users/createService", params)
	if err != nil {
		return ServiceHandle{}, err
	}
	if ok, _ := resp["success"].(bool); !ok {
		return ServiceHandle{}, fmt.Errorf("createService for %q did not report success", def.Name)
	}

	handle := ServiceHandle{Name: def.Name}
	if v, ok := resp["name"].(string); ok && v != "" {
		handle.Name = v
	}
	if v, ok := resp["itemId"].(string); ok {
		handle.ItemID = v
	}
	if v, ok := resp["encodedServiceURL"].(string); ok && v != "" {
		handle.URL = v
	} else if v, ok := resp["serviceurl"].(string); ok {
		handle.URL = v
	}
	return handle, nil
}

func (r *restRegistry) UpdateItem(ctx context.Context, itemID string, data map[string]interface{}) error {
	params := url.Values{}
	for k, v := range data {
		switch tv := v.(type) {
		case string:
			params.Set(k, tv)
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				return err
			}
			params.Set(k, string(encoded))
		}
	}
	resp, err := r.conn.Post(ctx, "sharing/rest/content/items/"+itemID+"/update", params)
	if err != nil {
		return err
	}
	if ok, _ := resp["success"].(bool); !ok {
		return fmt.Errorf("update of item %s did not report success", itemID)
	}
	return nil
}

func (r *restRegistry) DeleteItem(ctx context.Context, itemID string) error {
	resp, err := r.conn.Post(ctx, "sharing/rest/content/items/"+itemID+"/delete", url.Values{})
	if err != nil {
		return err
	}
	if ok, _ := resp["success"].(bool); !ok {
		return fmt.Errorf("delete of item %s did not report success", itemID)
	}
	return nil
}

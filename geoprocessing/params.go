package geoprocessing

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"geoflow/workspace"
)

// TimeWindow is a start/end pair for tools that filter by time. A nil side
// leaves that end of the window open; the wire form carries the literal
// "null" on that side, which the service requires.
type TimeWindow struct {
	Start *time.Time
	End   *time.Time
}

func (w TimeWindow) wire() string {
	side := func(t *time.Time) string {
		if t == nil {
			return "null"
		}
		return strconv.FormatInt(t.UnixMilli(), 10)
	}
	return side(w.Start) + "," + side(w.End)
}

// BuildParams transforms the call site's arguments into the wire-level map
// the remote tool expects. Arguments with nil values are elided. Arguments
// without a descriptor entry pass through under their original name. The
// per-call context wins over the ambient defaults; when both are empty the
// wire map carries no context key at all.
//
// BuildParams has no side effects: it performs no I/O and leaves raw
// untouched, so normalizing twice is equivalent to normalizing once.
func BuildParams(raw map[string]interface{}, desc *ToolDescriptor, callCtx *workspace.Context, ambient *workspace.Context) (map[string]string, error) {
	wire := make(map[string]string, len(raw)+1)

	for name, value := range raw {
		if value == nil {
			continue
		}
		spec, ok := desc.Params[name]
		if !ok {
			encoded, err := passthrough(value)
			if err != nil {
				return nil, &InvalidArgumentError{Param: name, Message: err.Error()}
			}
			wire[name] = encoded
			continue
		}
		if len(spec.Allowed) > 0 {
			canonical, err := validateEnum(name, value, spec.Allowed)
			if err != nil {
				return nil, err
			}
			wire[spec.ServerName] = canonical
			continue
		}
		encoded, err := coerce(value, spec)
		if err != nil {
			var internal *InternalError
			if errors.As(err, &internal) {
				return nil, err
			}
			return nil, &InvalidArgumentError{Param: name, Message: err.Error()}
		}
		wire[spec.ServerName] = encoded
	}

	ctxMap := contextFor(callCtx, ambient)
	if len(ctxMap) > 0 {
		encoded, err := json.Marshal(ctxMap)
		if err != nil {
			return nil, &InternalError{Message: fmt.Sprintf("encoding context: %v", err)}
		}
		wire["context"] = string(encoded)
	}
	return wire, nil
}

// contextFor picks the effective context map: an explicit per-call context
// verbatim, else the ambient defaults.
func contextFor(callCtx, ambient *workspace.Context) map[string]interface{} {
	if callCtx != nil {
		return callCtx.Map()
	}
	if ambient != nil {
		return ambient.Map()
	}
	return nil
}

// validateEnum matches value case-insensitively against the allowed set and
// returns the canonical casing.
func validateEnum(name string, value interface{}, allowed []string) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", &InvalidArgumentError{
			Param:   name,
			Message: fmt.Sprintf("expected one of %v, got %T", allowed, value),
		}
	}
	for _, a := range allowed {
		if strings.EqualFold(a, s) {
			return a, nil
		}
	}
	return "", &InvalidArgumentError{
		Param:   name,
		Message: fmt.Sprintf("%q is not one of %v", s, allowed),
	}
}

func coerce(value interface{}, spec ParamSpec) (string, error) {
	switch spec.Kind {
	case KindString:
		return coerceString(value)
	case KindInt:
		return coerceInt(value)
	case KindFloat:
		return coerceFloat(value)
	case KindBool:
		if b, ok := value.(bool); ok {
			return strconv.FormatBool(b), nil
		}
		return "", fmt.Errorf("expected bool, got %T", value)
	case KindList:
		return coerceList(value, spec.ListAsJSON)
	case KindObjectList, KindDict:
		encoded, err := json.Marshal(value)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	case KindDatetime:
		return coerceDatetime(value)
	case KindFeatureSet, KindTable:
		return coerceLayer(value)
	default:
		return "", &InternalError{Message: fmt.Sprintf("descriptor declares unknown parameter kind %d", spec.Kind)}
	}
}

func coerceString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("expected string, got %T", value)
	}
}

func coerceInt(value interface{}) (string, error) {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10), nil
		}
		return "", fmt.Errorf("expected integer, got fractional %v", v)
	default:
		return "", fmt.Errorf("expected integer, got %T", value)
	}
}

func coerceFloat(value interface{}) (string, error) {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		return "", fmt.Errorf("expected number, got %T", value)
	}
}

// coerceList turns a slice of scalars into either a comma-joined string or
// a JSON array, per the descriptor flag.
func coerceList(value interface{}, asJSON bool) (string, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", fmt.Errorf("expected list, got %T", value)
	}
	if asJSON {
		encoded, err := json.Marshal(value)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
	elems := make([]string, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		s, err := scalarString(rv.Index(i).Interface())
		if err != nil {
			return "", fmt.Errorf("list element %d: %w", i, err)
		}
		elems[i] = s
	}
	return strings.Join(elems, ","), nil
}

func scalarString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported scalar %T", value)
	}
}

// coerceDatetime produces epoch milliseconds. Open window sides become the
// literal "null".
func coerceDatetime(value interface{}) (string, error) {
	switch v := value.(type) {
	case time.Time:
		return strconv.FormatInt(v.UnixMilli(), 10), nil
	case *time.Time:
		if v == nil {
			return "null", nil
		}
		return strconv.FormatInt(v.UnixMilli(), 10), nil
	case TimeWindow:
		return v.wire(), nil
	case *TimeWindow:
		return v.wire(), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	default:
		return "", fmt.Errorf("expected datetime, got %T", value)
	}
}

// coerceLayer encodes a feature-set or table argument as the JSON object
// the server expects. Handles become {"url": ...}; maps and marshalers are
// encoded as-is; a bare string is treated as a layer URL.
func coerceLayer(value interface{}) (string, error) {
	switch v := value.(type) {
	case FeatureLayer:
		return encodeLayerRef(v.URL, v.ItemID)
	case *FeatureLayer:
		return encodeLayerRef(v.URL, v.ItemID)
	case Table:
		return encodeLayerRef(v.URL, v.ItemID)
	case *Table:
		return encodeLayerRef(v.URL, v.ItemID)
	case string:
		return encodeLayerRef(v, "")
	case map[string]interface{}:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	case json.Marshaler:
		encoded, err := v.MarshalJSON()
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	default:
		return "", fmt.Errorf("expected layer handle, dict, or URL, got %T", value)
	}
}

func encodeLayerRef(url, itemID string) (string, error) {
	ref := map[string]interface{}{"url": url}
	if itemID != "" {
		ref["itemId"] = itemID
	}
	encoded, err := json.Marshal(ref)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// passthrough encodes a value for a parameter the descriptor does not
// model. Scalars go as-is; composites as JSON.
func passthrough(value interface{}) (string, error) {
	if s, err := scalarString(value); err == nil {
		return s, nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

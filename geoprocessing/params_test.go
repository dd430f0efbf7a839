package geoprocessing

import (
	"testing"
	"time"

	"geoflow/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildParams_RenamesAndCoerces(t *testing.T) {
	raw := map[string]interface{}{
		"input_layer":          FeatureLayer{URL: "https://example.com/layer/0"},
		"cluster_method":       "DBSCAN",
		"min_features_cluster": 10,
		"search_distance":      5.0,
		"search_distance_unit": "Meters",
	}

	wire, err := BuildParams(raw, clusterDescriptor(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "DBSCAN", wire["clusterMethod"])
	assert.Equal(t, "10", wire["minFeaturesCluster"])
	assert.Equal(t, "5", wire["searchDistance"])
	assert.Equal(t, "Meters", wire["searchDistanceUnit"])
	assert.JSONEq(t, `{"url":"https://example.com/layer/0"}`, wire["inputLayer"])
}

func TestBuildParams_ElidesNilValues(t *testing.T) {
	raw := map[string]interface{}{
		"cluster_method":       "DBSCAN",
		"search_distance":      nil,
		"search_distance_unit": nil,
	}

	wire, err := BuildParams(raw, clusterDescriptor(), nil, nil)
	require.NoError(t, err)

	assert.Contains(t, wire, "clusterMethod")
	assert.NotContains(t, wire, "searchDistance")
	assert.NotContains(t, wire, "searchDistanceUnit")
}

func TestBuildParams_UnknownParamPassesThrough(t *testing.T) {
	raw := map[string]interface{}{
		"cluster_method": "OPTICS",
		"newServerKnob":  42,
	}

	wire, err := BuildParams(raw, clusterDescriptor(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "42", wire["newServerKnob"])
}

func TestBuildParams_EnumCaseInsensitive(t *testing.T) {
	raw := map[string]interface{}{"cluster_method": "dbscan"}

	wire, err := BuildParams(raw, clusterDescriptor(), nil, nil)
	require.NoError(t, err)

	// canonical casing from the allowed set wins
	assert.Equal(t, "DBSCAN", wire["clusterMethod"])
}

func TestBuildParams_EnumMismatch(t *testing.T) {
	raw := map[string]interface{}{"cluster_method": "KMEANS"}

	_, err := BuildParams(raw, clusterDescriptor(), nil, nil)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
}

func TestBuildParams_ListForms(t *testing.T) {
	desc := &ToolDescriptor{
		Name: "T",
		Params: map[string]ParamSpec{
			"fields":   {ServerName: "fields", Kind: KindList},
			"vars":     {ServerName: "vars", Kind: KindList, ListAsJSON: true},
			"stats":    {ServerName: "stats", Kind: KindObjectList},
			"settings": {ServerName: "settings", Kind: KindDict},
		},
	}
	raw := map[string]interface{}{
		"fields":   []string{"a", "b", "c"},
		"vars":     []string{"x", "y"},
		"stats":    []map[string]interface{}{{"statisticType": "Mean", "onStatisticField": "speed"}},
		"settings": map[string]interface{}{"k": 1},
	}

	wire, err := BuildParams(raw, desc, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "a,b,c", wire["fields"])
	assert.JSONEq(t, `["x","y"]`, wire["vars"])
	assert.JSONEq(t, `[{"statisticType":"Mean","onStatisticField":"speed"}]`, wire["stats"])
	assert.JSONEq(t, `{"k":1}`, wire["settings"])
}

func TestBuildParams_DatetimeEpochMillis(t *testing.T) {
	desc := &ToolDescriptor{
		Name:   "T",
		Params: map[string]ParamSpec{"when": {ServerName: "when", Kind: KindDatetime}},
	}
	ts := time.UnixMilli(1700000000000).UTC()

	wire, err := BuildParams(map[string]interface{}{"when": ts}, desc, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "1700000000000", wire["when"])
}

func TestBuildParams_OpenTimeWindowUsesNullSentinel(t *testing.T) {
	desc := &ToolDescriptor{
		Name:   "T",
		Params: map[string]ParamSpec{"time_window": {ServerName: "timeWindow", Kind: KindDatetime}},
	}
	start := time.UnixMilli(1590000000000).UTC()

	wire, err := BuildParams(map[string]interface{}{
		"time_window": TimeWindow{Start: &start},
	}, desc, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "1590000000000,null", wire["timeWindow"])
}

func TestBuildParams_ExplicitContextWins(t *testing.T) {
	callCtx := &workspace.Context{DataStore: "relational"}
	ambient := &workspace.Context{DataStore: "spatiotemporal"}

	wire, err := BuildParams(map[string]interface{}{}, clusterDescriptor(), callCtx, ambient)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dataStore":"relational"}`, wire["context"])
}

func TestBuildParams_AmbientContextInjected(t *testing.T) {
	ambient := &workspace.Context{
		OutSR:     &workspace.SpatialReference{WKID: 4326},
		DataStore: "spatiotemporal",
	}

	wire, err := BuildParams(map[string]interface{}{}, clusterDescriptor(), nil, ambient)
	require.NoError(t, err)
	assert.JSONEq(t, `{"outSR":{"wkid":4326},"dataStore":"spatiotemporal"}`, wire["context"])
}

func TestBuildParams_NoContextOmitsKey(t *testing.T) {
	wire, err := BuildParams(map[string]interface{}{}, clusterDescriptor(), nil, &workspace.Context{})
	require.NoError(t, err)
	assert.NotContains(t, wire, "context")
}

func TestBuildParams_BoolAndLayerFromURL(t *testing.T) {
	desc := &ToolDescriptor{
		Name: "T",
		Params: map[string]ParamSpec{
			"use_time": {ServerName: "useTime", Kind: KindBool},
			"layer":    {ServerName: "layer", Kind: KindFeatureSet},
		},
	}
	wire, err := BuildParams(map[string]interface{}{
		"use_time": true,
		"layer":    "https://example.com/l/0",
	}, desc, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "true", wire["useTime"])
	assert.JSONEq(t, `{"url":"https://example.com/l/0"}`, wire["layer"])
}

func TestBuildParams_UnknownKindIsInternal(t *testing.T) {
	desc := &ToolDescriptor{
		Name:   "T",
		Params: map[string]ParamSpec{"x": {ServerName: "x", Kind: ParamKind(99)}},
	}
	_, err := BuildParams(map[string]interface{}{"x": "v"}, desc, nil, nil)
	require.Error(t, err)
	assert.True(t, IsInternal(err))
}

package geoanalytics

import (
	"context"

	"geoflow/geoprocessing"
)

// SummaryField describes one statistic computed over an attribute, e.g.
// {"statisticType": "Mean", "onStatisticField": "speed"}.
type SummaryField map[string]interface{}

// AggregatePointsParams names the arguments of the AggregatePoints tool.
// Points aggregate either into the given polygon layer or into generated
// bins; exactly one of PolygonLayer and BinType should be set.
type AggregatePointsParams struct {
	PointLayer    interface{}
	PolygonLayer  interface{}
	BinType       string
	BinSize       float64
	BinSizeUnit   string
	SummaryFields []SummaryField
	OutputName    string
}

// AggregatePoints aggregates point features into polygons or bins,
// computing the requested statistics per aggregate.
func AggregatePoints(ctx context.Context, p AggregatePointsParams, opts ...Option) (*RunOutput, error) {
	raw := map[string]interface{}{
		"point_layer": p.PointLayer,
	}
	if p.PolygonLayer != nil {
		raw["polygon_layer"] = p.PolygonLayer
	}
	putString(raw, "bin_type", p.BinType)
	putFloat(raw, "bin_size", p.BinSize)
	putString(raw, "bin_size_unit", p.BinSizeUnit)
	if len(p.SummaryFields) > 0 {
		raw["summary_fields"] = p.SummaryFields
	}

	o := collectOptions(opts)
	if o.outputName == "" {
		o.outputName = p.OutputName
	}
	return runDescriptor(ctx, aggregatePointsTool, raw, o)
}

// SummarizeAttributesParams names the arguments of the SummarizeAttributes
// tool.
type SummarizeAttributesParams struct {
	InputLayer    interface{}
	Fields        []string
	SummaryFields []SummaryField
	OutputName    string
}

// SummarizeAttributes groups the input layer by the given fields and
// computes statistics per group into a table.
func SummarizeAttributes(ctx context.Context, p SummarizeAttributesParams, opts ...Option) (*RunOutput, error) {
	raw := map[string]interface{}{
		"input_layer": p.InputLayer,
	}
	if len(p.Fields) > 0 {
		raw["fields"] = p.Fields
	}
	if len(p.SummaryFields) > 0 {
		raw["summary_fields"] = p.SummaryFields
	}

	o := collectOptions(opts)
	if o.outputName == "" {
		o.outputName = p.OutputName
	}
	return runDescriptor(ctx, summarizeAttributesTool, raw, o)
}

// DetectIncidentsParams names the arguments of the DetectIncidents tool.
type DetectIncidentsParams struct {
	InputLayer               interface{}
	TrackFields              []string
	StartConditionExpression string
	EndConditionExpression   string
	OutputMode               string
	TimeBoundarySplit        int
	TimeBoundaryReference    interface{}
	TimeWindow               *geoprocessing.TimeWindow
	OutputName               string
}

// DetectIncidents walks each track in time order and flags the stretches
// where the start condition holds.
func DetectIncidents(ctx context.Context, p DetectIncidentsParams, opts ...Option) (*RunOutput, error) {
	raw := map[string]interface{}{
		"input_layer": p.InputLayer,
	}
	if len(p.TrackFields) > 0 {
		raw["track_fields"] = p.TrackFields
	}
	putString(raw, "start_condition_expression", p.StartConditionExpression)
	putString(raw, "end_condition_expression", p.EndConditionExpression)
	putString(raw, "output_mode", p.OutputMode)
	putInt(raw, "time_boundary_split", p.TimeBoundarySplit)
	if p.TimeBoundaryReference != nil {
		raw["time_boundary_reference"] = p.TimeBoundaryReference
	}
	if p.TimeWindow != nil {
		raw["time_window"] = *p.TimeWindow
	}

	o := collectOptions(opts)
	if o.outputName == "" {
		o.outputName = p.OutputName
	}
	return runDescriptor(ctx, detectIncidentsTool, raw, o)
}

package geoanalytics

import (
	"context"
)

// FindPointClustersParams names the arguments of the FindPointClusters
// tool. Zero-valued optionals are omitted from the request; tri-state
// options use pointers.
type FindPointClustersParams struct {
	InputLayer         interface{}
	ClusterMethod      string
	MinFeaturesCluster int
	SearchDistance     float64
	SearchDistanceUnit string
	UseTime            *bool
	SearchDuration     *float64
	SearchDurationUnit string
	OutputName         string
}

// FindPointClusters finds clusters of point features based on their
// spatial (and optionally temporal) distribution.
func FindPointClusters(ctx context.Context, p FindPointClustersParams, opts ...Option) (*RunOutput, error) {
	raw := map[string]interface{}{
		"input_layer": p.InputLayer,
	}
	putString(raw, "cluster_method", p.ClusterMethod)
	putInt(raw, "min_features_cluster", p.MinFeaturesCluster)
	putFloat(raw, "search_distance", p.SearchDistance)
	putString(raw, "search_distance_unit", p.SearchDistanceUnit)
	if p.UseTime != nil {
		raw["use_time"] = *p.UseTime
	}
	if p.SearchDuration != nil {
		raw["search_duration"] = *p.SearchDuration
	}
	putString(raw, "search_duration_unit", p.SearchDurationUnit)

	o := collectOptions(opts)
	if o.outputName == "" {
		o.outputName = p.OutputName
	}
	return runDescriptor(ctx, findPointClustersTool, raw, o)
}

// ForestParams names the arguments of the forest-based classification and
// regression tool.
type ForestParams struct {
	InputLayer              interface{}
	PredictionType          string
	FeaturesToPredict       interface{}
	VariablePredict         string
	ExplanatoryVariables    []string
	NumberOfTrees           int
	MinimumLeafSize         int
	MaximumTreeDepth        int
	SampleSize              int
	PercentageForValidation *float64
	OutputName              string
}

// Forest trains a forest model on the input layer and optionally predicts
// onto a second layer. When the caller asks for TrainAndPredict without
// naming features to predict, the input layer is predicted onto itself.
func Forest(ctx context.Context, p ForestParams, opts ...Option) (*RunOutput, error) {
	features := p.FeaturesToPredict
	if p.PredictionType == PredictionTrainAndPredict && features == nil {
		features = p.InputLayer
	}

	raw := map[string]interface{}{
		"input_layer": p.InputLayer,
	}
	putString(raw, "prediction_type", p.PredictionType)
	if features != nil {
		raw["features_to_predict"] = features
	}
	putString(raw, "variable_predict", p.VariablePredict)
	if len(p.ExplanatoryVariables) > 0 {
		raw["explanatory_variables"] = p.ExplanatoryVariables
	}
	putInt(raw, "number_of_trees", p.NumberOfTrees)
	putInt(raw, "minimum_leaf_size", p.MinimumLeafSize)
	putInt(raw, "maximum_tree_depth", p.MaximumTreeDepth)
	putInt(raw, "sample_size", p.SampleSize)
	if p.PercentageForValidation != nil {
		raw["percentage_for_validation"] = *p.PercentageForValidation
	}

	o := collectOptions(opts)
	if o.outputName == "" {
		o.outputName = p.OutputName
	}
	return runDescriptor(ctx, forestTool, raw, o)
}

// GWRParams names the arguments of the geographically weighted regression
// tool.
type GWRParams struct {
	InputLayer           interface{}
	DependentVariable    string
	ExplanatoryVariables []string
	RegressionFamily     string
	NeighborhoodType     string
	NumberOfNeighbors    int
	DistanceBand         *float64
	DistanceBandUnit     string
	LocalWeightingScheme string
	OutputName           string
}

// GWR fits a local regression model around every feature of the input
// layer.
func GWR(ctx context.Context, p GWRParams, opts ...Option) (*RunOutput, error) {
	raw := map[string]interface{}{
		"input_layer": p.InputLayer,
	}
	putString(raw, "dependent_variable", p.DependentVariable)
	if len(p.ExplanatoryVariables) > 0 {
		raw["explanatory_variables"] = p.ExplanatoryVariables
	}
	putString(raw, "regression_family", p.RegressionFamily)
	putString(raw, "neighborhood_type", p.NeighborhoodType)
	putInt(raw, "number_of_neighbors", p.NumberOfNeighbors)
	if p.DistanceBand != nil {
		raw["distance_band"] = *p.DistanceBand
	}
	putString(raw, "distance_band_unit", p.DistanceBandUnit)
	putString(raw, "local_weighting_scheme", p.LocalWeightingScheme)

	o := collectOptions(opts)
	if o.outputName == "" {
		o.outputName = p.OutputName
	}
	return runDescriptor(ctx, gwrTool, raw, o)
}

// CalculateDensityParams names the arguments of the CalculateDensity tool.
type CalculateDensityParams struct {
	InputLayer        interface{}
	Fields            []string
	Weight            string
	BinType           string
	BinSize           float64
	BinSizeUnit       string
	Radius            float64
	RadiusUnit        string
	AreaUnits         string
	TimeStepInterval  *float64
	TimeStepUnit      string
	TimeStepReference interface{}
	OutputName        string
}

// CalculateDensity spreads known point quantities over a mesh of bins to
// produce a density surface.
func CalculateDensity(ctx context.Context, p CalculateDensityParams, opts ...Option) (*RunOutput, error) {
	raw := map[string]interface{}{
		"input_layer": p.InputLayer,
	}
	if len(p.Fields) > 0 {
		raw["fields"] = p.Fields
	}
	putString(raw, "weight", p.Weight)
	putString(raw, "bin_type", p.BinType)
	putFloat(raw, "bin_size", p.BinSize)
	putString(raw, "bin_size_unit", p.BinSizeUnit)
	putFloat(raw, "radius", p.Radius)
	putString(raw, "radius_unit", p.RadiusUnit)
	putString(raw, "area_units", p.AreaUnits)
	if p.TimeStepInterval != nil {
		raw["time_step_interval"] = *p.TimeStepInterval
	}
	putString(raw, "time_step_unit", p.TimeStepUnit)
	if p.TimeStepReference != nil {
		raw["time_step_reference"] = p.TimeStepReference
	}

	o := collectOptions(opts)
	if o.outputName == "" {
		o.outputName = p.OutputName
	}
	return runDescriptor(ctx, calculateDensityTool, raw, o)
}

func putString(raw map[string]interface{}, key, value string) {
	if value != "" {
		raw[key] = value
	}
}

func putInt(raw map[string]interface{}, key string, value int) {
	if value != 0 {
		raw[key] = value
	}
}

func putFloat(raw map[string]interface{}, key string, value float64) {
	if value != 0 {
		raw[key] = value
	}
}

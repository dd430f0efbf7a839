package geoanalytics

import "geoflow/geoprocessing"

// Distance and area unit sets shared across tools.
var (
	distanceUnits = []string{"Meters", "Kilometers", "Feet", "Yards", "Miles", "NauticalMiles"}
	areaUnits     = []string{"SquareMeters", "SquareKilometers", "SquareMiles", "Hectares", "Acres"}
	timeUnits     = []string{"Seconds", "Minutes", "Hours", "Days", "Weeks", "Months", "Years"}
	binTypes      = []string{"Square", "Hexagon"}
)

// Prediction types recognized by Forest.
const (
	PredictionTrain           = "Train"
	PredictionTrainAndPredict = "TrainAndPredict"
)

// The catalog is the static record of every remote tool this client
// models. Descriptors are built once at init and never mutated. Client
// arguments not listed in a descriptor still reach the server under their
// original name, so newer server parameters work without a catalog update.
var catalog = []*geoprocessing.ToolDescriptor{
	findPointClustersTool,
	forestTool,
	gwrTool,
	calculateDensityTool,
	aggregatePointsTool,
	summarizeAttributesTool,
	detectIncidentsTool,
}

var findPointClustersTool = &geoprocessing.ToolDescriptor{
	Name:    "FindPointClusters",
	Display: "Find Point Clusters",
	Params: map[string]geoprocessing.ParamSpec{
		"input_layer":          {ServerName: "inputLayer", Kind: geoprocessing.KindFeatureSet},
		"cluster_method":       {ServerName: "clusterMethod", Kind: geoprocessing.KindString, Allowed: []string{"DBSCAN", "HDBSCAN", "OPTICS"}},
		"min_features_cluster": {ServerName: "minFeaturesCluster", Kind: geoprocessing.KindInt},
		"search_distance":      {ServerName: "searchDistance", Kind: geoprocessing.KindFloat},
		"search_distance_unit": {ServerName: "searchDistanceUnit", Kind: geoprocessing.KindString, Allowed: distanceUnits},
		"use_time":             {ServerName: "useTime", Kind: geoprocessing.KindBool},
		"search_duration":      {ServerName: "searchDuration", Kind: geoprocessing.KindFloat},
		"search_duration_unit": {ServerName: "searchDurationUnit", Kind: geoprocessing.KindString, Allowed: timeUnits},
	},
	Outputs: []geoprocessing.OutputSpec{
		{Name: "output", Display: "Output Features", Kind: geoprocessing.OutFeatureSet},
	},
}

var forestTool = &geoprocessing.ToolDescriptor{
	Name:    "Forest",
	Display: "Forest Based Classification And Regression",
	Params: map[string]geoprocessing.ParamSpec{
		"input_layer":               {ServerName: "inputLayer", Kind: geoprocessing.KindFeatureSet},
		"prediction_type":           {ServerName: "predictionType", Kind: geoprocessing.KindString, Allowed: []string{PredictionTrain, PredictionTrainAndPredict}},
		"features_to_predict":       {ServerName: "featuresToPredict", Kind: geoprocessing.KindFeatureSet},
		"variable_predict":          {ServerName: "variablePredict", Kind: geoprocessing.KindString},
		"explanatory_variables":     {ServerName: "explanatoryVariables", Kind: geoprocessing.KindList, ListAsJSON: true},
		"number_of_trees":           {ServerName: "numberOfTrees", Kind: geoprocessing.KindInt},
		"minimum_leaf_size":         {ServerName: "minimumLeafSize", Kind: geoprocessing.KindInt},
		"maximum_tree_depth":        {ServerName: "maximumTreeDepth", Kind: geoprocessing.KindInt},
		"sample_size":               {ServerName: "sampleSize", Kind: geoprocessing.KindInt},
		"percentage_for_validation": {ServerName: "percentageForValidation", Kind: geoprocessing.KindFloat},
	},
	Outputs: []geoprocessing.OutputSpec{
		{Name: "output_trained", Display: "Output Trained Features", Kind: geoprocessing.OutFeatureSet},
		{Name: "output_predicted", Display: "Output Predicted Features", Kind: geoprocessing.OutFeatureSet},
		{Name: "variable_of_importance", Display: "Variable of Importance", Kind: geoprocessing.OutList},
		{Name: "process_info", Display: "Process Information", Kind: geoprocessing.OutList},
	},
}

var gwrTool = &geoprocessing.ToolDescriptor{
	Name:    "GeographicallyWeightedRegression",
	Display: "Geographically Weighted Regression",
	Params: map[string]geoprocessing.ParamSpec{
		"input_layer":            {ServerName: "inputLayer", Kind: geoprocessing.KindFeatureSet},
		"dependent_variable":     {ServerName: "dependentVariable", Kind: geoprocessing.KindString},
		"explanatory_variables":  {ServerName: "explanatoryVariables", Kind: geoprocessing.KindList},
		"regression_family":      {ServerName: "regressionFamily", Kind: geoprocessing.KindString, Allowed: []string{"Continuous", "Binary", "Count"}},
		"neighborhood_type":      {ServerName: "neighborhoodType", Kind: geoprocessing.KindString, Allowed: []string{"NumberOfNeighbors", "DistanceBand"}},
		"number_of_neighbors":    {ServerName: "numberOfNeighbors", Kind: geoprocessing.KindInt},
		"distance_band":          {ServerName: "distanceBand", Kind: geoprocessing.KindFloat},
		"distance_band_unit":     {ServerName: "distanceBandUnit", Kind: geoprocessing.KindString, Allowed: distanceUnits},
		"local_weighting_scheme": {ServerName: "localWeightingScheme", Kind: geoprocessing.KindString, Allowed: []string{"BiSquare", "Gaussian"}},
	},
	Outputs: []geoprocessing.OutputSpec{
		{Name: "output", Display: "Output Features", Kind: geoprocessing.OutFeatureSet},
		{Name: "process_info", Display: "Process Information", Kind: geoprocessing.OutList},
	},
}

var calculateDensityTool = &geoprocessing.ToolDescriptor{
	Name:    "CalculateDensity",
	Display: "Calculate Density",
	Params: map[string]geoprocessing.ParamSpec{
		"input_layer":        {ServerName: "inputLayer", Kind: geoprocessing.KindFeatureSet},
		"fields":             {ServerName: "fields", Kind: geoprocessing.KindList},
		"weight":             {ServerName: "weight", Kind: geoprocessing.KindString, Allowed: []string{"Uniform", "Kernel"}},
		"bin_type":           {ServerName: "binType", Kind: geoprocessing.KindString, Allowed: binTypes},
		"bin_size":           {ServerName: "binSize", Kind: geoprocessing.KindFloat},
		"bin_size_unit":      {ServerName: "binSizeUnit", Kind: geoprocessing.KindString, Allowed: distanceUnits},
		"radius":             {ServerName: "radius", Kind: geoprocessing.KindFloat},
		"radius_unit":        {ServerName: "radiusUnit", Kind: geoprocessing.KindString, Allowed: distanceUnits},
		"area_units":         {ServerName: "areaUnits", Kind: geoprocessing.KindString, Allowed: areaUnits},
		"time_step_interval": {ServerName: "timeStepInterval", Kind: geoprocessing.KindFloat},
		"time_step_unit":     {ServerName: "timeStepUnit", Kind: geoprocessing.KindString, Allowed: timeUnits},
		"time_step_reference": {ServerName: "timeStepReference", Kind: geoprocessing.KindDatetime},
	},
	Outputs: []geoprocessing.OutputSpec{
		{Name: "output", Display: "Output Features", Kind: geoprocessing.OutFeatureSet},
	},
}

var aggregatePointsTool = &geoprocessing.ToolDescriptor{
	Name:    "AggregatePoints",
	Display: "Aggregate Points",
	Params: map[string]geoprocessing.ParamSpec{
		"point_layer":    {ServerName: "pointLayer", Kind: geoprocessing.KindFeatureSet},
		"polygon_layer":  {ServerName: "polygonLayer", Kind: geoprocessing.KindFeatureSet},
		"bin_type":       {ServerName: "binType", Kind: geoprocessing.KindString, Allowed: binTypes},
		"bin_size":       {ServerName: "binSize", Kind: geoprocessing.KindFloat},
		"bin_size_unit":  {ServerName: "binSizeUnit", Kind: geoprocessing.KindString, Allowed: distanceUnits},
		"summary_fields": {ServerName: "summaryFields", Kind: geoprocessing.KindObjectList},
	},
	Outputs: []geoprocessing.OutputSpec{
		{Name: "output", Display: "Aggregated Features", Kind: geoprocessing.OutFeatureSet},
	},
}

var summarizeAttributesTool = &geoprocessing.ToolDescriptor{
	Name:    "SummarizeAttributes",
	Display: "Summarize Attributes",
	Params: map[string]geoprocessing.ParamSpec{
		"input_layer":    {ServerName: "inputLayer", Kind: geoprocessing.KindFeatureSet},
		"fields":         {ServerName: "fields", Kind: geoprocessing.KindList},
		"summary_fields": {ServerName: "summaryFields", Kind: geoprocessing.KindObjectList},
	},
	Outputs: []geoprocessing.OutputSpec{
		{Name: "output", Display: "Summary Table", Kind: geoprocessing.OutTable},
	},
}

var detectIncidentsTool = &geoprocessing.ToolDescriptor{
	Name:    "DetectIncidents",
	Display: "Detect Incidents",
	Params: map[string]geoprocessing.ParamSpec{
		"input_layer":                {ServerName: "inputLayer", Kind: geoprocessing.KindFeatureSet},
		"track_fields":               {ServerName: "trackFields", Kind: geoprocessing.KindList},
		"start_condition_expression": {ServerName: "startConditionExpression", Kind: geoprocessing.KindString},
		"end_condition_expression":   {ServerName: "endConditionExpression", Kind: geoprocessing.KindString},
		"output_mode":                {ServerName: "outputMode", Kind: geoprocessing.KindString, Allowed: []string{"AllFeatures", "Incidents"}},
		"time_boundary_split":        {ServerName: "timeBoundarySplit", Kind: geoprocessing.KindInt},
		"time_boundary_reference":    {ServerName: "timeBoundaryReference", Kind: geoprocessing.KindDatetime},
		"time_window":                {ServerName: "timeWindow", Kind: geoprocessing.KindDatetime},
	},
	Outputs: []geoprocessing.OutputSpec{
		{Name: "output", Display: "Incident Features", Kind: geoprocessing.OutFeatureSet},
	},
}

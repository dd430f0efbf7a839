package geoprocessing

// ParamKind declares how a client argument is coerced to its wire form.
type ParamKind int

const (
	KindString ParamKind = iota
	KindInt
	KindFloat
	KindBool
	KindList
	KindObjectList
	KindDict
	KindDatetime
	KindFeatureSet
	KindTable
)

// OutputKind declares how a collected output payload is decoded.
type OutputKind int

const (
	OutFeatureSet OutputKind = iota
	OutTable
	OutDataFile
	OutList
	OutDict
	OutScalar
)

// ParamSpec maps one client parameter to its server-side name and declared
// type.
type ParamSpec struct {
	// ServerName is the parameter name the remote tool expects.
	ServerName string

	// Kind selects the coercion applied by the normalizer.
	Kind ParamKind

	// ListAsJSON marshals KindList values as a JSON array instead of the
	// default comma-joined string.
	ListAsJSON bool

	// Allowed restricts string values to this set, matched
	// case-insensitively. Empty means unrestricted.
	Allowed []string
}

// OutputSpec declares one expected output of a tool.
type OutputSpec struct {
	// Name is the server-side result parameter name.
	Name string

	// Display is the human-readable output name.
	Display string

	// Kind selects the decoder applied to the collected payload.
	Kind OutputKind
}

// ToolDescriptor is the static record describing one remote tool: its name
// on the server, the client-to-server parameter mapping, and the ordered
// outputs it produces. Descriptors are catalog data, built once and never
// mutated.
type ToolDescriptor struct {
	// Name is the tool name on the server, e.g. "FindPointClusters".
	Name string

	// Display is the tool's display name, used to tag provisioned items
	// and to synthesize output service names.
	Display string

	// Params maps client parameter names to their specs. Client arguments
	// not present here pass through under their original name, which keeps
	// the client forward-compatible with server parameters not yet
	// modeled.
	Params map[string]ParamSpec

	// Outputs lists the expected outputs in server order.
	Outputs []OutputSpec

	// OutputParam is the server parameter that receives the serialized
	// destination service. Empty means the default "outputName".
	OutputParam string
}

// OutputParamName returns the server parameter carrying the destination
// service.
func (d *ToolDescriptor) OutputParamName() string {
	if d.OutputParam != "" {
		return d.OutputParam
	}
	return "outputName"
}

// Output looks up an output spec by its server-side name.
func (d *ToolDescriptor) Output(name string) (OutputSpec, bool) {
	for _, out := range d.Outputs {
		if out.Name == name {
			return out, true
		}
	}
	return OutputSpec{}, false
}

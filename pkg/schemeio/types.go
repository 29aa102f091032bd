// Package schemeio loads and validates scheme documents: the YAML wire
// format a scheme.Scheme compiles from. It mirrors the teacher's
// pkg/scenario (types + parser + validator) pattern, applied to reliability
// schemes instead of chaos scenarios.
package schemeio

// Document is the top-level YAML shape of a scheme definition.
type Document struct {
	APIVersion string       `yaml:"apiVersion"`
	Kind       string       `yaml:"kind"`
	Metadata   Metadata     `yaml:"metadata"`
	Spec       DocumentSpec `yaml:"spec"`
}

// Metadata carries scheme identification, mirroring scenario.Metadata.
type Metadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// DocumentSpec is the scheme body: elements, processors, the scheme
// function expression, and the reconfiguration strategy to use.
type DocumentSpec struct {
	Elements       []ElementDoc   `yaml:"elements"`
	Processors     []ProcessorDoc `yaml:"processors"`
	SchemeFunction string         `yaml:"scheme_function"`
	Strategy       string         `yaml:"strategy,omitempty"`
}

// ElementDoc is one scheme element (processor or other). Name must be
// unique within a document; the scheme function expression (§F) refers to
// elements by this name.
type ElementDoc struct {
	Name string  `yaml:"name"`
	P    float64 `yaml:"p"`
	Q    float64 `yaml:"q"`
}

// ProcessorDoc extends the element at the same index with load parameters
// and recovery plans. len(Processors) must equal the processor prefix of
// Elements.
type ProcessorDoc struct {
	NormalLoad float64    `yaml:"normal_load"`
	MaxLoad    float64    `yaml:"max_load"`
	Plans      [][]UnitDoc `yaml:"plans"`
}

// UnitDoc is one transition unit: route Load work to the processor named
// Target.
type UnitDoc struct {
	Target string  `yaml:"target"`
	Load   float64 `yaml:"load"`
}

const (
	// SupportedAPIVersion is the only apiVersion this loader accepts
	// without a warning.
	SupportedAPIVersion = "schemereliability/v1"
	// SupportedKind is the only kind this loader accepts without a
	// warning.
	SupportedKind = "Scheme"

	// StrategyExhaustive selects scheme.StrategyExhaustive.
	StrategyExhaustive = "exhaustive"
	// StrategyGreedy selects scheme.StrategyGreedy.
	StrategyGreedy = "greedy"
	// StrategyExhaustiveSchemeAware selects scheme.StrategyExhaustiveSchemeAware.
	StrategyExhaustiveSchemeAware = "exhaustive_scheme_aware"
)

package schemeio

import (
	"fmt"
	"math"
	"strings"
)

const (
	probEpsilon = 1e-9
	loadEpsilon = 1e-9
)

// Validator accumulates warnings and errors while checking a Document,
// mirroring the teacher's scenario Validator: every problem is collected in
// one pass instead of stopping at the first, so a caller sees the whole
// picture before fixing anything. scheme.New performs the same structural
// checks independently at construction time (spec §6) — this validator is
// a superset, multi-error convenience for document authors, not a
// replacement for it.
type Validator struct {
	Warnings []string
	Errors   []string
}

// NewValidator returns an empty Validator.
func NewValidator() *Validator {
	return &Validator{Warnings: []string{}, Errors: []string{}}
}

// Validate checks doc and returns an error summarizing the failure count if
// any Errors were recorded. Call GetReport for the detail.
func (v *Validator) Validate(doc *Document) error {
	v.Warnings = v.Warnings[:0]
	v.Errors = v.Errors[:0]

	v.validateAPIVersion(doc)
	v.validateKind(doc)
	v.validateMetadata(doc)
	v.validateElements(doc)
	v.validateProcessors(doc)
	v.validateSchemeFunction(doc)
	v.validateStrategy(doc)

	if len(v.Errors) > 0 {
		return fmt.Errorf("schemeio: validation failed with %d error(s)", len(v.Errors))
	}
	return nil
}

// HasWarnings reports whether Validate recorded any warnings.
func (v *Validator) HasWarnings() bool { return len(v.Warnings) > 0 }

// HasErrors reports whether Validate recorded any errors.
func (v *Validator) HasErrors() bool { return len(v.Errors) > 0 }

// GetReport renders the accumulated warnings/errors as text.
func (v *Validator) GetReport() string {
	var sb strings.Builder
	if len(v.Errors) > 0 {
		sb.WriteString("ERRORS:\n")
		for _, e := range v.Errors {
			sb.WriteString("  - " + e + "\n")
		}
	}
	if len(v.Warnings) > 0 {
		sb.WriteString("\nWARNINGS:\n")
		for _, w := range v.Warnings {
			sb.WriteString("  - " + w + "\n")
		}
	}
	if len(v.Errors) == 0 && len(v.Warnings) == 0 {
		sb.WriteString("Validation passed with no issues.\n")
	}
	return sb.String()
}

func (v *Validator) validateAPIVersion(doc *Document) {
	if doc.APIVersion == "" {
		v.Errors = append(v.Errors, "apiVersion is required")
		return
	}
	if doc.APIVersion != SupportedAPIVersion {
		v.Warnings = append(v.Warnings, fmt.Sprintf("apiVersion %q may not be supported (expected %q)", doc.APIVersion, SupportedAPIVersion))
	}
}

func (v *Validator) validateKind(doc *Document) {
	if doc.Kind == "" {
		v.Errors = append(v.Errors, "kind is required")
		return
	}
	if doc.Kind != SupportedKind {
		v.Warnings = append(v.Warnings, fmt.Sprintf("kind %q may not be supported (expected %q)", doc.Kind, SupportedKind))
	}
}

func (v *Validator) validateMetadata(doc *Document) {
	if doc.Metadata.Name == "" {
		v.Errors = append(v.Errors, "metadata.name is required")
	}
}

func (v *Validator) validateElements(doc *Document) {
	if len(doc.Spec.Elements) == 0 {
		v.Errors = append(v.Errors, "spec.elements must have at least one entry")
		return
	}
	if len(doc.Spec.Processors) > len(doc.Spec.Elements) {
		v.Errors = append(v.Errors, fmt.Sprintf("spec.processors has %d entries, more than spec.elements' %d", len(doc.Spec.Processors), len(doc.Spec.Elements)))
	}

	seen := make(map[string]bool, len(doc.Spec.Elements))
	for i, e := range doc.Spec.Elements {
		if e.Name == "" {
			v.Errors = append(v.Errors, fmt.Sprintf("spec.elements[%d].name is required", i))
		} else if seen[e.Name] {
			v.Errors = append(v.Errors, fmt.Sprintf("spec.elements[%d].name %q is duplicated", i, e.Name))
		}
		seen[e.Name] = true

		if e.P < 0 || e.P > 1 {
			v.Errors = append(v.Errors, fmt.Sprintf("spec.elements[%d] (%s).p = %g is outside [0,1]", i, e.Name, e.P))
		}
		if math.Abs(e.Q-(1-e.P)) > probEpsilon {
			v.Errors = append(v.Errors, fmt.Sprintf("spec.elements[%d] (%s).q = %g, want %g (1-p)", i, e.Name, e.Q, 1-e.P))
		}
	}
}

func (v *Validator) validateProcessors(doc *Document) {
	names := make(map[string]int, len(doc.Spec.Elements))
	for i, e := range doc.Spec.Elements {
		names[e.Name] = i
	}

	for i, pr := range doc.Spec.Processors {
		if pr.NormalLoad < 0 {
			v.Errors = append(v.Errors, fmt.Sprintf("spec.processors[%d].normal_load = %g must be >= 0", i, pr.NormalLoad))
		}
		if pr.NormalLoad > pr.MaxLoad+loadEpsilon {
			v.Errors = append(v.Errors, fmt.Sprintf("spec.processors[%d].normal_load (%g) exceeds max_load (%g)", i, pr.NormalLoad, pr.MaxLoad))
		}

		for pi, plan := range pr.Plans {
			sum := 0.0
			targetsSeen := make(map[string]bool, len(plan))
			for ui, unit := range plan {
				if unit.Target == "" {
					v.Errors = append(v.Errors, fmt.Sprintf("spec.processors[%d].plans[%d][%d].target is required", i, pi, ui))
					continue
				}
				targetIdx, ok := names[unit.Target]
				if !ok {
					v.Errors = append(v.Errors, fmt.Sprintf("spec.processors[%d].plans[%d][%d].target %q is not a declared element", i, pi, ui, unit.Target))
					continue
				}
				if targetIdx >= len(doc.Spec.Processors) {
					v.Errors = append(v.Errors, fmt.Sprintf("spec.processors[%d].plans[%d][%d].target %q is not a processor", i, pi, ui, unit.Target))
				}
				if targetIdx == i {
					v.Errors = append(v.Errors, fmt.Sprintf("spec.processors[%d].plans[%d] targets its own owner", i, pi))
				}
				if targetsSeen[unit.Target] {
					v.Errors = append(v.Errors, fmt.Sprintf("spec.processors[%d].plans[%d] targets %q more than once", i, pi, unit.Target))
				}
				targetsSeen[unit.Target] = true
				if unit.Load <= 0 {
					v.Errors = append(v.Errors, fmt.Sprintf("spec.processors[%d].plans[%d][%d].load = %g must be > 0", i, pi, ui, unit.Load))
				}
				sum += unit.Load
			}
			if math.Abs(sum-pr.NormalLoad) > loadEpsilon {
				v.Errors = append(v.Errors, fmt.Sprintf("spec.processors[%d].plans[%d] loads sum to %g, want normal_load %g", i, pi, sum, pr.NormalLoad))
			}
		}
	}
}

func (v *Validator) validateSchemeFunction(doc *Document) {
	if strings.TrimSpace(doc.Spec.SchemeFunction) == "" {
		v.Errors = append(v.Errors, "spec.scheme_function is required")
		return
	}
	names := make([]string, len(doc.Spec.Elements))
	for i, e := range doc.Spec.Elements {
		names[i] = e.Name
	}
	if _, err := CompileExpression(doc.Spec.SchemeFunction, names); err != nil {
		v.Errors = append(v.Errors, err.Error())
	}
}

func (v *Validator) validateStrategy(doc *Document) {
	if doc.Spec.Strategy == "" {
		return
	}
	switch doc.Spec.Strategy {
	case StrategyExhaustive, StrategyGreedy, StrategyExhaustiveSchemeAware:
	default:
		v.Errors = append(v.Errors, fmt.Sprintf("spec.strategy %q is invalid (want %q, %q, or %q)", doc.Spec.Strategy, StrategyExhaustive, StrategyGreedy, StrategyExhaustiveSchemeAware))
	}
}

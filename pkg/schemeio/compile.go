package schemeio

import (
	"fmt"

	"github.com/srlab/scheme-reliability/pkg/scheme"
)

// Compile turns a validated Document into a *scheme.Scheme. It resolves
// UnitDoc.Target name strings to processor indices via the declared element
// order, maps the spec.strategy string to a scheme.Strategy, and compiles
// the scheme_function expression into a closure via CompileExpression.
//
// scheme.New re-runs its own construction checks on the result (spec §6);
// Compile does not skip them by calling a lower-level constructor. A
// caller that wants the document's structural problems reported in bulk
// first should run a Validator over doc before calling Compile.
func Compile(doc *Document) (*scheme.Scheme, error) {
	names := make([]string, len(doc.Spec.Elements))
	index := make(map[string]int, len(doc.Spec.Elements))
	for i, e := range doc.Spec.Elements {
		names[i] = e.Name
		index[e.Name] = i
	}

	elements := make([]scheme.ElementSpec, len(doc.Spec.Elements))
	for i, e := range doc.Spec.Elements {
		elements[i] = scheme.ElementSpec{Name: e.Name, P: e.P, Q: e.Q}
	}

	processors := make([]scheme.ProcessorSpec, len(doc.Spec.Processors))
	for i, pr := range doc.Spec.Processors {
		plans := make([]scheme.Plan, len(pr.Plans))
		for pi, plan := range pr.Plans {
			units := make(scheme.Plan, len(plan))
			for ui, u := range plan {
				targetIdx, ok := index[u.Target]
				if !ok {
					return nil, fmt.Errorf("schemeio: processors[%d].plans[%d][%d] targets unknown element %q", i, pi, ui, u.Target)
				}
				units[ui] = scheme.TransitionUnit{Target: targetIdx, Load: u.Load}
			}
			plans[pi] = units
		}
		processors[i] = scheme.ProcessorSpec{
			NormalLoad: pr.NormalLoad,
			MaxLoad:    pr.MaxLoad,
			Plans:      plans,
		}
	}

	fn, err := CompileExpression(doc.Spec.SchemeFunction, names)
	if err != nil {
		return nil, err
	}

	strategy, err := compileStrategy(doc.Spec.Strategy)
	if err != nil {
		return nil, err
	}

	return scheme.New(elements, processors, fn, strategy)
}

func compileStrategy(s string) (scheme.Strategy, error) {
	switch s {
	case "", StrategyExhaustive:
		return scheme.StrategyExhaustive, nil
	case StrategyGreedy:
		return scheme.StrategyGreedy, nil
	case StrategyExhaustiveSchemeAware:
		return scheme.StrategyExhaustiveSchemeAware, nil
	default:
		return 0, fmt.Errorf("schemeio: unknown strategy %q (want %q, %q, or %q)", s, StrategyExhaustive, StrategyGreedy, StrategyExhaustiveSchemeAware)
	}
}

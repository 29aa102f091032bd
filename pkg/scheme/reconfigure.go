package scheme

// Strategy selects how the reconfiguration engine searches for a feasible
// set of recovery plans. It is a tagged variant rather than an interface so
// the hot loop (the 2^N sweep in reliability.go) dispatches once per run,
// not once per state.
type Strategy int

const (
	// StrategyExhaustive enumerates every combination of plan choices (one
	// per failed processor, or skip) and keeps the one maximising recovered
	// processor count. Exact optimum, O(prod Ki).
	StrategyExhaustive Strategy = iota
	// StrategyGreedy scans failed processors in ascending index order and
	// commits to the first feasible plan it finds, never backtracking.
	// Deterministic, possibly suboptimal, O(|F| * max plans * P).
	StrategyGreedy
	// StrategyExhaustiveSchemeAware is the historical variant that rejects
	// an otherwise-optimal assignment if the resulting state fails the
	// scheme function, preferring a lower recovered count that passes it
	// instead. Not the default; see DESIGN.md Open Questions.
	StrategyExhaustiveSchemeAware
)

// assignment is the outcome of one candidate choice tuple: the resulting
// processors slice and the number of failed processors it recovers.
type assignment struct {
	final     []bool
	recovered int
}

// Reconfigure applies the reconfiguration engine to sv using rt and the
// given strategy, returning a new state vector. sv is never mutated. The
// others slice of the result always equals sv's others slice unchanged
// (spec invariant 1). fn is only consulted by StrategyExhaustiveSchemeAware;
// it may be nil for the other two strategies.
func Reconfigure(rt *ReconfigurationTable, sv StateVector, strategy Strategy, fn SchemeFunction) StateVector {
	failed := failedProcessors(rt, sv)
	if len(failed) == 0 {
		return sv.Clone()
	}

	var final []bool
	switch strategy {
	case StrategyGreedy:
		final = reconfigureGreedy(rt, sv, failed)
	case StrategyExhaustiveSchemeAware:
		final = reconfigureExhaustive(rt, sv, failed, fn)
	default:
		final = reconfigureExhaustive(rt, sv, failed, nil)
	}

	return assemble(sv, final)
}

func failedProcessors(rt *ReconfigurationTable, sv StateVector) []int {
	procs := sv.Processors()
	failed := make([]int, 0, len(procs))
	for i, alive := range procs {
		if !alive {
			failed = append(failed, i)
		}
	}
	_ = rt
	return failed
}

func assemble(sv StateVector, finalProcessors []bool) StateVector {
	out := sv.Clone()
	copy(out.Processors(), finalProcessors)
	return out
}

// reconfigureGreedy implements §4.C's greedy strategy: for each failed
// processor in ascending index order, try its plans in declared order and
// accept the first that is feasible against the current tentative
// assignment; otherwise leave it failed. No backtracking.
func reconfigureGreedy(rt *ReconfigurationTable, sv StateVector, failed []int) []bool {
	final := append([]bool(nil), sv.Processors()...)
	load := baseLoad(rt, final)

	for _, i := range failed {
		for _, plan := range rt.Plans(i) {
			if planFeasible(rt, final, load, i, plan) {
				final[i] = true
				load[i] += rt.NormalLoad(i)
				for _, tu := range plan {
					load[tu.Target] += tu.Load
				}
				break
			}
		}
	}
	return final
}

// planFeasible checks a single plan against the processor's current
// tentative state and load account, per the combined feasibility rule: no
// target may be a failed-and-not-recovered processor, and no target's
// projected load may exceed its max_load. The owner's own load account is
// not at issue here — it is added by the caller once the plan is accepted.
func planFeasible(rt *ReconfigurationTable, final []bool, load []float64, owner int, plan Plan) bool {
	projected := make(map[int]float64, len(plan))
	for _, tu := range plan {
		if !final[tu.Target] {
			return false
		}
		projected[tu.Target] += tu.Load
	}
	for t, add := range projected {
		if load[t]+add > rt.MaxLoad(t)+loadEpsilon {
			return false
		}
	}
	_ = owner
	return true
}

// baseLoad returns each surviving processor's starting load account: its
// own normal_load if it is alive in final, zero otherwise.
func baseLoad(rt *ReconfigurationTable, final []bool) []float64 {
	load := make([]float64, rt.ProcessorCount())
	for t, alive := range final {
		if alive {
			load[t] = rt.NormalLoad(t)
		}
	}
	return load
}

// reconfigureExhaustive implements §4.C's exhaustive strategy: enumerate
// the Cartesian product of {skip, plan 0, plan 1, ...} choices across the
// failed processors, in lexicographic order with the lowest-indexed failed
// processor as the most significant digit, and keep the first assignment
// achieving the highest recovered count. When fn is non-nil (the
// scheme-aware variant) an assignment is only a candidate if the resulting
// state also satisfies fn.
func reconfigureExhaustive(rt *ReconfigurationTable, sv StateVector, failed []int, fn SchemeFunction) []bool {
	radices := make([]int, len(failed))
	for idx, i := range failed {
		radices[idx] = len(rt.Plans(i)) + 1 // +1 for skip
	}

	base := sv.Processors()
	best := append([]bool(nil), base...) // all-skip: always feasible, recovered = 0
	bestRecovered := -1

	choice := make([]int, len(failed))
	for {
		if ok, final, recovered := evaluateAssignment(rt, base, failed, choice); ok {
			if fn == nil || fn(withOthers(sv, final)) {
				if recovered > bestRecovered {
					bestRecovered = recovered
					best = final
				}
			}
		}
		if !incrementMixedRadix(choice, radices) {
			break
		}
	}

	if bestRecovered < 0 {
		return best
	}
	return best
}

// withOthers builds a temporary state vector combining candidate processor
// values with sv's others slice, for scheme-function evaluation during the
// scheme-aware exhaustive search.
func withOthers(sv StateVector, processors []bool) StateVector {
	buf := make([]bool, sv.Len())
	copy(buf, processors)
	copy(buf[len(processors):], sv.Others())
	return newStateVectorFromBuffer(buf, sv.ProcessorCount())
}

// incrementMixedRadix advances choice as a mixed-radix counter (choice[i]
// in [0, radices[i])) with choice[len-1] the fastest-varying digit,
// matching "lexicographic order by increasing processor index" when
// choice's entries are ordered by ascending failed-processor index.
// Returns false once the counter has wrapped past its last value.
func incrementMixedRadix(choice, radices []int) bool {
	for i := len(choice) - 1; i >= 0; i-- {
		choice[i]++
		if choice[i] < radices[i] {
			return true
		}
		choice[i] = 0
	}
	return false
}

// evaluateAssignment computes feasibility, recovered count, and the
// resulting processors slice for one candidate choice tuple.
func evaluateAssignment(rt *ReconfigurationTable, base []bool, failed []int, choice []int) (ok bool, final []bool, recovered int) {
	final = append([]bool(nil), base...)
	type chosen struct {
		owner int
		plan  Plan
	}
	var plans []chosen
	for idx, i := range failed {
		c := choice[idx]
		if c == 0 {
			continue
		}
		final[i] = true
		plans = append(plans, chosen{owner: i, plan: rt.Plans(i)[c-1]})
	}

	load := baseLoad(rt, final)
	for _, ch := range plans {
		for _, tu := range ch.plan {
			if !final[tu.Target] {
				return false, nil, 0
			}
			load[tu.Target] += tu.Load
		}
	}
	for t := 0; t < rt.ProcessorCount(); t++ {
		if final[t] && load[t] > rt.MaxLoad(t)+loadEpsilon {
			return false, nil, 0
		}
	}

	for _, i := range failed {
		if final[i] && !base[i] {
			recovered++
		}
	}
	return true, final, recovered
}

package scheme

import "sync"

// Summary is the result of a reliability run: total success/failure
// probability and, for the failing mass, which elements were down in the
// post-reconfiguration state that produced it.
type Summary struct {
	SP                  float64
	SQ                  float64
	FailProbPerElement  []float64
	StateCount          uint64
	NumericWarning      bool
}

// numericWarningEpsilon is the |sp+sq-1| threshold past which Summary.NumericWarning
// is set (spec §7: NumericWarning, surfaced but non-aborting).
const numericWarningEpsilon = 1e-9

// Reliability sweeps the full 2^N state space of s, reconfigures each
// failed-processor state, evaluates the scheme function on the result, and
// accumulates sp, sq, and the per-element failure contribution. It is
// equivalent to ReliabilityShards(s, 1).
func Reliability(s *Scheme) (Summary, error) {
	return ReliabilityShards(s, 1)
}

// ReliabilityShards runs the same sweep as Reliability but partitions the
// [0, 2^N) state index range into up to shards contiguous chunks, each
// computed by its own goroutine against its own local accumulator; the
// chunk results are then reduced with plain addition. Because chunk
// boundaries and the generator's index-to-state mapping are both
// deterministic, the sharded and sequential paths agree bit-for-bit.
func ReliabilityShards(s *Scheme, shards int) (Summary, error) {
	gen, err := NewGenerator(s.ElementCount(), s.ProcessorCount())
	if err != nil {
		return Summary{}, err
	}
	total := gen.Len()

	if shards < 1 {
		shards = 1
	}
	if uint64(shards) > total {
		shards = int(total)
		if shards < 1 {
			shards = 1
		}
	}

	partials := make([]Summary, shards)
	partialErrs := make([]error, shards)
	chunk := (total + uint64(shards) - 1) / uint64(shards)

	var wg sync.WaitGroup
	for i := 0; i < shards; i++ {
		start := uint64(i) * chunk
		end := start + chunk
		if end > total {
			end = total
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(i int, start, end uint64) {
			defer wg.Done()
			partials[i], partialErrs[i] = sweepRange(s, gen, start, end)
		}(i, start, end)
	}
	wg.Wait()

	for _, err := range partialErrs {
		if err != nil {
			return Summary{}, err
		}
	}

	return mergeSummaries(partials, s.ElementCount(), total), nil
}

// sweepRange computes the partial summary for state indices [start, end).
func sweepRange(s *Scheme, gen *Generator, start, end uint64) (Summary, error) {
	sum := Summary{FailProbPerElement: make([]float64, s.ElementCount())}

	for k := start; k < end; k++ {
		sv1 := gen.StateAt(k)
		w := s.stateWeight(sv1)

		sv2 := Reconfigure(s.table, sv1, s.strategy, s.fn)

		snapshot := sv2.Clone()
		op := s.Evaluate(sv2)
		if !sv2.equal(snapshot) {
			return Summary{}, &LogicError{Detail: "scheme function mutated its input state vector"}
		}

		if op {
			sum.SP += w
		} else {
			sum.SQ += w
			all := sv2.All()
			for j, alive := range all {
				if !alive {
					sum.FailProbPerElement[j] += w
				}
			}
		}
	}

	return sum, nil
}

func mergeSummaries(partials []Summary, elementCount int, total uint64) Summary {
	out := Summary{FailProbPerElement: make([]float64, elementCount), StateCount: total}
	for _, p := range partials {
		out.SP += p.SP
		out.SQ += p.SQ
		for j := 0; j < elementCount; j++ {
			out.FailProbPerElement[j] += p.FailProbPerElement[j]
		}
	}
	diff := out.SP + out.SQ - 1.0
	if diff < 0 {
		diff = -diff
	}
	out.NumericWarning = diff > numericWarningEpsilon
	return out
}

package scheme

import "testing"

func stateFromBools(t *testing.T, values []bool, processorCount int) StateVector {
	t.Helper()
	sv, err := NewStateVector(len(values), processorCount)
	if err != nil {
		t.Fatal(err)
	}
	copy(sv.All(), values)
	return sv
}

func TestReconfigureNoFailedProcessorsIsIdentity(t *testing.T) {
	rt := fourProcessorTable(t)
	sv := stateFromBools(t, []bool{true, true, true, true, true, false, true, true}, 4)

	out := Reconfigure(rt, sv, StrategyExhaustive, nil)
	for i := range sv.All() {
		if out.All()[i] != sv.All()[i] {
			t.Fatalf("position %d: got %v want %v", i, out.All()[i], sv.All()[i])
		}
	}
}

func TestReconfigurePreservesOthersSlice(t *testing.T) {
	rt := fourProcessorTable(t)
	sv := stateFromBools(t, []bool{false, true, true, true, true, false, true, false}, 4)

	for _, strat := range []Strategy{StrategyExhaustive, StrategyGreedy} {
		out := Reconfigure(rt, sv, strat, nil)
		for j := 4; j < 8; j++ {
			if out.All()[j] != sv.All()[j] {
				t.Fatalf("strategy %v: others slice changed at %d", strat, j)
			}
		}
	}
}

func TestReconfigureNeverDecreasesLiveProcessorCount(t *testing.T) {
	rt := fourProcessorTable(t)
	gen, err := NewGenerator(8, 4)
	if err != nil {
		t.Fatal(err)
	}
	for k := uint64(0); k < gen.Len(); k++ {
		sv := gen.StateAt(k)
		for _, strat := range []Strategy{StrategyExhaustive, StrategyGreedy} {
			out := Reconfigure(rt, sv, strat, nil)
			before, after := 0, 0
			for _, v := range sv.Processors() {
				if v {
					before++
				}
			}
			for _, v := range out.Processors() {
				if v {
					after++
				}
			}
			if after < before {
				t.Fatalf("state %d strategy %v: recovered count decreased (%d -> %d)", k, strat, before, after)
			}
		}
	}
}

func TestExhaustiveNeverWorseThanGreedy(t *testing.T) {
	rt := fourProcessorTable(t)
	gen, err := NewGenerator(8, 4)
	if err != nil {
		t.Fatal(err)
	}
	for k := uint64(0); k < gen.Len(); k++ {
		sv := gen.StateAt(k)
		ex := Reconfigure(rt, sv, StrategyExhaustive, nil)
		gr := Reconfigure(rt, sv, StrategyGreedy, nil)

		exCount, grCount := 0, 0
		for _, v := range ex.Processors() {
			if v {
				exCount++
			}
		}
		for _, v := range gr.Processors() {
			if v {
				grCount++
			}
		}
		if exCount < grCount {
			t.Fatalf("state %d: exhaustive (%d) recovered fewer processors than greedy (%d)", k, exCount, grCount)
		}
	}
}

func TestReconfigureSingleFailedProcessorAgreesAcrossStrategies(t *testing.T) {
	rt := fourProcessorTable(t)
	// Only processor 1 failed; its first plan (all 20 load onto processor 0)
	// is feasible, so both strategies recover it.
	sv := stateFromBools(t, []bool{true, false, true, true, true, true, true, true}, 4)

	ex := Reconfigure(rt, sv, StrategyExhaustive, nil)
	gr := Reconfigure(rt, sv, StrategyGreedy, nil)

	if !ex.Processors()[1] {
		t.Fatal("exhaustive should recover processor 1")
	}
	if !gr.Processors()[1] {
		t.Fatal("greedy should recover processor 1")
	}
}

func TestReconfigureInfeasiblePlansLeaveProcessorFailed(t *testing.T) {
	// Processor 0's only plan moves its 50 load onto processor 1, which has
	// max_load 10 -- there is no way to satisfy it.
	normalLoad := []float64{50, 0}
	maxLoad := []float64{1000, 10}
	plans := [][]Plan{
		{{{Target: 1, Load: 50}}},
		{},
	}
	rt, err := NewReconfigurationTable(2, normalLoad, maxLoad, plans)
	if err != nil {
		t.Fatal(err)
	}
	sv := stateFromBools(t, []bool{false, true}, 2)

	for _, strat := range []Strategy{StrategyExhaustive, StrategyGreedy} {
		out := Reconfigure(rt, sv, strat, nil)
		if out.Processors()[0] {
			t.Fatalf("strategy %v: processor 0 should remain failed, plan overloads processor 1", strat)
		}
	}
}

func TestReconfigureEmptyPlanListAlwaysSkipped(t *testing.T) {
	normalLoad := []float64{50}
	maxLoad := []float64{50}
	plans := [][]Plan{{}}
	rt, err := NewReconfigurationTable(1, normalLoad, maxLoad, plans)
	if err != nil {
		t.Fatal(err)
	}
	sv := stateFromBools(t, []bool{false}, 1)

	for _, strat := range []Strategy{StrategyExhaustive, StrategyGreedy} {
		out := Reconfigure(rt, sv, strat, nil)
		if out.Processors()[0] {
			t.Fatalf("strategy %v: a processor with no plans can never be recovered", strat)
		}
	}
}

func TestReconfigureAllFalseIsIdentityOnOthers(t *testing.T) {
	rt := fourProcessorTable(t)
	sv := stateFromBools(t, make([]bool, 8), 4)

	out := Reconfigure(rt, sv, StrategyExhaustive, nil)
	for j := 4; j < 8; j++ {
		if out.All()[j] {
			t.Fatal("others slice should remain false")
		}
	}
}

func TestIncomingLoadsFromMultiplePlansAccumulate(t *testing.T) {
	// Processors 0 and 1 both fail and both want to route 20 onto
	// processor 2, whose own load of 10 plus both contributions exactly
	// reaches its max_load of 50.
	normalLoad := []float64{20, 20, 10}
	maxLoad := []float64{100, 100, 50}
	plans := [][]Plan{
		{{{Target: 2, Load: 20}}},
		{{{Target: 2, Load: 20}}},
		{},
	}
	rt, err := NewReconfigurationTable(3, normalLoad, maxLoad, plans)
	if err != nil {
		t.Fatal(err)
	}
	sv := stateFromBools(t, []bool{false, false, true}, 3)

	out := Reconfigure(rt, sv, StrategyExhaustive, nil)
	if !out.Processors()[0] || !out.Processors()[1] {
		t.Fatal("both processors should be recoverable: 10 + 20 + 20 = 50 <= max_load 50")
	}
}

func TestReconfigureDoesNotMutateInput(t *testing.T) {
	rt := fourProcessorTable(t)
	sv := stateFromBools(t, []bool{false, true, true, true, true, false, true, true}, 4)
	original := sv.Clone()

	Reconfigure(rt, sv, StrategyExhaustive, nil)

	for i := range sv.All() {
		if sv.All()[i] != original.All()[i] {
			t.Fatalf("Reconfigure mutated its input at position %d", i)
		}
	}
}

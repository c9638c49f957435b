package core

import "testing"

func TestBatchIndexRange(t *testing.T) {
	batch := Batch{
		Index: 1,
		Start: 20,
		Records: []Record{
			{Index: 20, Text: "a"},
			{Index: 21, Text: "b"},
			{Index: 22, Text: "c"},
		},
	}

	if got := batch.FirstIndex(); got != 20 {
		t.Errorf("FirstIndex() = %d, want 20", got)
	}
	if got := batch.LastIndex(); got != 22 {
		t.Errorf("LastIndex() = %d, want 22", got)
	}

	texts := batch.Texts()
	if len(texts) != 3 || texts[0] != "a" || texts[2] != "c" {
		t.Errorf("Texts() = %v, want [a b c]", texts)
	}
}

func TestPipelineResultSucceededIndices(t *testing.T) {
	result := &PipelineResult{
		Vectors: [][]float32{{1}, {2}, {3}, {4}, {5}},
		Failures: []FailureRecord{
			{BatchIndex: 1, FirstIndex: 5, LastIndex: 9, Kind: "rate_limited", Message: "429"},
		},
		Total: 10,
	}

	indices := result.SucceededIndices()
	want := []int{0, 1, 2, 3, 4}
	if len(indices) != len(want) {
		t.Fatalf("SucceededIndices() len = %d, want %d", len(indices), len(want))
	}
	for i := range want {
		if indices[i] != want[i] {
			t.Errorf("SucceededIndices()[%d] = %d, want %d", i, indices[i], want[i])
		}
	}
}

func TestRunStateString(t *testing.T) {
	states := map[RunState]string{
		RunStateNotStarted: "not started",
		RunStateRunning:    "running",
		RunStateCompleted:  "completed",
		RunStateAborted:    "aborted",
		RunState(99):       "unknown",
	}
	for state, want := range states {
		if got := state.String(); got != want {
			t.Errorf("RunState(%d).String() = %q, want %q", state, got, want)
		}
	}
}

func TestRunIDDeterministic(t *testing.T) {
	records := []Record{
		{Index: 0, Text: "wonderful stay"},
		{Index: 1, Text: "never again"},
	}

	a := RunID(records, 20)
	b := RunID(records, 20)
	if a != b {
		t.Errorf("RunID not deterministic: %s != %s", a, b)
	}

	if c := RunID(records, 10); c == a {
		t.Error("RunID should change with batch size")
	}

	other := []Record{
		{Index: 0, Text: "wonderful stay"},
		{Index: 1, Text: "never AGAIN"},
	}
	if d := RunID(other, 20); d == a {
		t.Error("RunID should change with corpus content")
	}
}

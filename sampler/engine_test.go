package sampler

import (
	"context"
	"testing"
)

func threeStatSource() *fakeSource {
	return &fakeSource{
		names: []NameID{
			{Name: "s0", ID: 0},
			{Name: "s1", ID: 1},
			{Name: "s2", ID: 2},
		},
		values: map[ID]int64{0: 10, 1: 20, 2: 30},
	}
}

// Scenario 1: basic single sink.
func TestSampleBasicSingleSink(t *testing.T) {
	reg := NewRegistry()
	sess := NewSession(&SessionConfig{Name: "s"}, WithRegistry(reg))

	src := threeStatSource()
	if _, err := sess.RegisterSource("src0", 1, src, nil); err != nil {
		t.Fatalf("RegisterSource: %v", err)
	}
	sink := &fakeSink{}
	if _, err := sess.RegisterSink("sink0", sink, 0, nil); err != nil {
		t.Fatalf("RegisterSink: %v", err)
	}

	if err := sess.Sample(context.Background()); err != nil {
		t.Fatalf("Sample: %v", err)
	}

	if len(sink.calls) != 1 {
		t.Fatalf("expected 1 sink call, got %d", len(sink.calls))
	}
	call := sink.calls[0]
	if len(call.ids) != 3 {
		t.Fatalf("expected n=3, got %d", len(call.ids))
	}
	wantNames := []Name{"s0", "s1", "s2"}
	for i, n := range wantNames {
		if call.names[i] != n {
			t.Errorf("names[%d] = %q, want %q", i, call.names[i], n)
		}
	}
	wantIDs := []ID{0, 1, 2}
	wantValues := []int64{10, 20, 30}
	for i := range wantIDs {
		if call.ids[i] != wantIDs[i] {
			t.Errorf("ids[%d] = %d, want %d", i, call.ids[i], wantIDs[i])
		}
		if call.values[i] != wantValues[i] {
			t.Errorf("values[%d] = %d, want %d", i, call.values[i], wantValues[i])
		}
	}
}

// Scenario 2: no-names optimization.
func TestSampleNoNamesOptimization(t *testing.T) {
	reg := NewRegistry()
	sess := NewSession(&SessionConfig{Name: "s"}, WithRegistry(reg))

	src := threeStatSource()
	sess.RegisterSource("src0", 1, src, nil)
	sink := &fakeSink{}
	sess.RegisterSink("sink0", sink, NoNames, nil)

	if err := sess.Sample(context.Background()); err != nil {
		t.Fatalf("Sample: %v", err)
	}

	if len(sink.calls) != 1 {
		t.Fatalf("expected 1 sink call, got %d", len(sink.calls))
	}
	if sink.calls[0].names != nil {
		t.Fatalf("expected nil names, got %v", sink.calls[0].names)
	}
	if len(sink.calls[0].ids) != 3 || len(sink.calls[0].values) != 3 {
		t.Fatalf("expected ids/values unchanged, got %+v", sink.calls[0])
	}
}

// Scenario 3: filter semantics.
func TestSampleFilterSemantics(t *testing.T) {
	reg := NewRegistry()
	sess := NewSession(&SessionConfig{Name: "s"}, WithRegistry(reg))

	src := &fakeSource{
		names: []NameID{
			{Name: "rx_pkts", ID: 0},
			{Name: "rx_bytes", ID: 1},
			{Name: "tx_pkts", ID: 2},
			{Name: "tx_bytes", ID: 3},
			{Name: "errors", ID: 4},
		},
		values: map[ID]int64{0: 1, 1: 2, 2: 3, 3: 4, 4: 5},
	}
	source, _ := sess.RegisterSource("nic0", 1, src, nil)
	sink := &fakeSink{}
	sess.RegisterSink("sink0", sink, 0, nil)

	// First sample to populate the cache before filtering.
	if err := sess.Sample(context.Background()); err != nil {
		t.Fatalf("Sample: %v", err)
	}

	if err := source.SetFilter([]string{"rx_*", "errors"}); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}

	sink.calls = nil
	if err := sess.Sample(context.Background()); err != nil {
		t.Fatalf("Sample: %v", err)
	}

	if len(sink.calls) != 1 {
		t.Fatalf("expected 1 sink call, got %d", len(sink.calls))
	}
	wantNames := []Name{"rx_pkts", "rx_bytes", "errors"}
	if len(sink.calls[0].names) != len(wantNames) {
		t.Fatalf("got names %v, want %v", sink.calls[0].names, wantNames)
	}
	for i, n := range wantNames {
		if sink.calls[0].names[i] != n {
			t.Errorf("names[%d] = %q, want %q", i, sink.calls[0].names[i], n)
		}
	}
}

// Scenario 5: per-sink fault isolation.
func TestSamplePerSinkFaultIsolation(t *testing.T) {
	reg := NewRegistry()
	sess := NewSession(&SessionConfig{Name: "s"}, WithRegistry(reg))

	src := threeStatSource()
	sess.RegisterSource("src0", 1, src, nil)

	sinkX := &fakeSink{err: context.DeadlineExceeded}
	sinkY := &fakeSink{}
	sess.RegisterSink("sinkX", sinkX, 0, nil)
	sess.RegisterSink("sinkY", sinkY, 0, nil)

	if err := sess.Sample(context.Background()); err != nil {
		t.Fatalf("Sample returned error, want nil: %v", err)
	}

	if len(sinkY.calls) != 1 {
		t.Fatalf("expected sinkY to be called despite sinkX's failure, got %d calls", len(sinkY.calls))
	}
}

// Scenario 6: cache freeze.
func TestSampleCacheFreeze(t *testing.T) {
	reg := NewRegistry()
	sess := NewSession(&SessionConfig{Name: "s"}, WithRegistry(reg))

	src := &fakeSource{
		names: []NameID{
			{Name: "a", ID: 0}, {Name: "b", ID: 1}, {Name: "c", ID: 2}, {Name: "d", ID: 3},
		},
		values: map[ID]int64{0: 1, 1: 2, 2: 3, 3: 4},
	}
	source, _ := sess.RegisterSource("src0", 1, src, nil)
	sink := &fakeSink{}
	sess.RegisterSink("sink0", sink, 0, nil)

	if err := sess.Sample(context.Background()); err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if got := source.CachedCount(); got != 4 {
		t.Fatalf("CachedCount() = %d, want 4", got)
	}

	// Adapter now advertises a 5th stat.
	src.names = append(src.names, NameID{Name: "e", ID: 4})
	src.values[4] = 5

	sink.calls = nil
	if err := sess.Sample(context.Background()); err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if got := source.CachedCount(); got != 4 {
		t.Fatalf("CachedCount() after adapter growth = %d, want 4 (frozen)", got)
	}
	if len(sink.calls[0].ids) != 4 {
		t.Fatalf("expected 4 ids delivered, got %d", len(sink.calls[0].ids))
	}

	source.Unregister()
	source2, _ := sess.RegisterSource("src0", 1, src, nil)
	sink.calls = nil
	if err := sess.Sample(context.Background()); err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if got := source2.CachedCount(); got != 5 {
		t.Fatalf("CachedCount() after re-register = %d, want 5", got)
	}
}

// Uncached source (probe <= 0) is skipped and retried on the next pass.
func TestSampleUncachedSourceRetries(t *testing.T) {
	reg := NewRegistry()
	sess := NewSession(&SessionConfig{Name: "s"}, WithRegistry(reg))

	zero := 0
	src := &fakeSource{probeOverride: &zero}
	source, _ := sess.RegisterSource("src0", 1, src, nil)
	sink := &fakeSink{}
	sess.RegisterSink("sink0", sink, 0, nil)

	if err := sess.Sample(context.Background()); err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if source.cached {
		t.Fatalf("expected source to remain uncached when probe returns 0")
	}
	if len(sink.calls) != 0 {
		t.Fatalf("expected no sink calls for an uncached source, got %d", len(sink.calls))
	}

	// Adapter becomes ready.
	src.names = threeStatSource().names
	src.values = threeStatSource().values
	src.probeOverride = nil

	if err := sess.Sample(context.Background()); err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if !source.cached {
		t.Fatalf("expected source to cache once the adapter is ready")
	}
}

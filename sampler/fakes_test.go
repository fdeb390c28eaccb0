package sampler

import "context"

// fakeSource is a deterministic SourceOps (+ optional ResetOps) test double.
type fakeSource struct {
	names         []NameID
	values        map[ID]int64
	namesErr      error
	valuesErr     error
	probeOverride *int
	resetCalls    [][]ID
	noReset       bool
}

func (f *fakeSource) NamesGet(_ context.Context, _ uint16, out []NameID, _ any) (int, error) {
	if f.namesErr != nil {
		return 0, f.namesErr
	}
	if out == nil {
		if f.probeOverride != nil {
			return *f.probeOverride, nil
		}
		return len(f.names), nil
	}
	return copy(out, f.names), nil
}

func (f *fakeSource) ValuesGet(_ context.Context, _ uint16, ids []ID, out []int64, _ any) (int, error) {
	if f.valuesErr != nil {
		return -1, f.valuesErr
	}
	for i, id := range ids {
		out[i] = f.values[id]
	}
	return len(ids), nil
}

func (f *fakeSource) Reset(_ context.Context, _ uint16, ids []ID, _ any) error {
	f.resetCalls = append(f.resetCalls, ids)
	if ids == nil {
		for k := range f.values {
			f.values[k] = 0
		}
		return nil
	}
	for _, id := range ids {
		f.values[id] = 0
	}
	return nil
}

// noResetSource implements only SourceOps (no Reset method), to exercise
// the optional-Reset capability split.
type noResetSource struct {
	names  []NameID
	values map[ID]int64
}

func (f *noResetSource) NamesGet(_ context.Context, _ uint16, out []NameID, _ any) (int, error) {
	if out == nil {
		return len(f.names), nil
	}
	return copy(out, f.names), nil
}

func (f *noResetSource) ValuesGet(_ context.Context, _ uint16, ids []ID, out []int64, _ any) (int, error) {
	for i, id := range ids {
		out[i] = f.values[id]
	}
	return len(ids), nil
}

type fakeSinkCall struct {
	sourceName Name
	sourceID   uint16
	names      []Name
	ids        []ID
	values     []int64
}

type fakeSink struct {
	calls []fakeSinkCall
	err   error
}

func (f *fakeSink) Output(_ context.Context, sourceName Name, sourceID uint16, names []Name, ids []ID, values []int64, _ any) error {
	f.calls = append(f.calls, fakeSinkCall{
		sourceName: sourceName,
		sourceID:   sourceID,
		names:      append([]Name(nil), names...),
		ids:        append([]ID(nil), ids...),
		values:     append([]int64(nil), values...),
	})
	return f.err
}

type fakeClock struct {
	now int64
	tps int64
}

func newFakeClock() *fakeClock { return &fakeClock{tps: 1000} } // 1 tick == 1ms

func (c *fakeClock) NowCycles() int64      { return c.now }
func (c *fakeClock) TicksPerSecond() int64 { return c.tps }
func (c *fakeClock) AdvanceMS(ms int64)    { c.now += ms }

package llmclient

import (
	"context"
	"sync"
)

// FakeClient replays scripted completions for offline runs and tests.
// Each call consumes the next scripted step; when the script runs out,
// the last step repeats.
type FakeClient struct {
	mu    sync.Mutex
	steps []FakeStep
	calls []Request
}

// FakeStep is one scripted response or error.
type FakeStep struct {
	Out Completion
	Err error
}

func NewFakeClient(steps ...FakeStep) *FakeClient {
	return &FakeClient{steps: steps}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) Complete(_ context.Context, req Request) (Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)

	if len(f.steps) == 0 {
		return Completion{Text: `{"score":5,"summary":"fake","issues":[],"recommendations":[]}`}, nil
	}
	i := len(f.calls) - 1
	if i >= len(f.steps) {
		i = len(f.steps) - 1
	}
	step := f.steps[i]
	return step.Out, step.Err
}

// Calls returns a copy of every request seen so far.
func (f *FakeClient) Calls() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns the number of Complete invocations.
func (f *FakeClient) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

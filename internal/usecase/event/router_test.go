package event

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/songsearch/internal/domain"
	"github.com/kailas-cloud/songsearch/internal/domain/details"
	"github.com/kailas-cloud/songsearch/internal/domain/function"
	"github.com/kailas-cloud/songsearch/internal/metrics"
)

type mockExecutor struct {
	got   *function.Execution
	calls int
}

func (m *mockExecutor) Execute(_ context.Context, exec *function.Execution, ack func()) error {
	m.calls++
	m.got = exec
	ack()
	return nil
}

type mockDetails struct {
	mu  sync.Mutex
	got []*details.Event
}

func (m *mockDetails) Handle(_ context.Context, ev *details.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.got = append(m.got, ev)
}

func TestDispatch_FunctionExecuted(t *testing.T) {
	exec := &mockExecutor{}
	r := NewRouter(exec, &mockDetails{}, nil)
	acks := 0

	raw := json.RawMessage(`{
		"type": "function_executed",
		"function": {"id": "Fn1", "callback_id": "search", "title": "Search"},
		"inputs": {"filters": {"bands": ["Queen"]}},
		"function_execution_id": "Fx1",
		"event_ts": "1700000000.000100"
	}`)

	if err := r.Dispatch(context.Background(), "socket", raw, func() { acks++ }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exec.calls != 1 {
		t.Fatalf("expected 1 execution, got %d", exec.calls)
	}
	if exec.got.CallbackID() != "search" || exec.got.FunctionExecutionID != "Fx1" {
		t.Errorf("unexpected execution: %+v", exec.got)
	}
	if _, ok := exec.got.Inputs["filters"].(map[string]any); !ok {
		t.Errorf("expected filters input, got %v", exec.got.Inputs)
	}
	if acks != 1 {
		t.Errorf("expected 1 ack, got %d", acks)
	}
}

func TestDispatch_DetailsRequested(t *testing.T) {
	d := &mockDetails{}
	r := NewRouter(&mockExecutor{}, d, nil)
	acks := 0

	raw := json.RawMessage(`{
		"type": "entity_details_requested",
		"user": "U1",
		"trigger_id": "T-1",
		"external_ref": {"id": "acdc-001"},
		"link": {"url": "https://example.com/songs/acdc-001", "domain": "example.com"}
	}`)

	ctx, cancel := context.WithCancel(context.Background())
	if err := r.Dispatch(ctx, "http", raw, func() { acks++ }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cancel()
	r.Wait()

	if acks != 1 {
		t.Errorf("expected 1 ack, got %d", acks)
	}
	if len(d.got) != 1 {
		t.Fatalf("expected 1 details request, got %d", len(d.got))
	}
	if d.got[0].TriggerID != "T-1" || d.got[0].ExternalRef.ID != "acdc-001" {
		t.Errorf("unexpected event: %+v", d.got[0])
	}
}

func TestDispatch_UnknownEventIsAcked(t *testing.T) {
	exec := &mockExecutor{}
	r := NewRouter(exec, &mockDetails{}, nil)
	acks := 0

	if err := r.Dispatch(context.Background(), "socket", json.RawMessage(`{"type":"app_mention"}`), func() { acks++ }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acks != 1 {
		t.Errorf("expected 1 ack, got %d", acks)
	}
	if exec.calls != 0 {
		t.Errorf("expected no executions, got %d", exec.calls)
	}
}

func TestDispatch_MalformedEventIsAcked(t *testing.T) {
	r := NewRouter(&mockExecutor{}, &mockDetails{}, nil)
	acks := 0

	err := r.Dispatch(context.Background(), "socket", json.RawMessage(`{"type":`), func() { acks++ })
	if !errors.Is(err, domain.ErrMalformedEvent) {
		t.Fatalf("expected ErrMalformedEvent, got %v", err)
	}
	if acks != 1 {
		t.Errorf("expected 1 ack, got %d", acks)
	}
}

func TestDispatch_UnknownTypesShareOneMetricLabel(t *testing.T) {
	r := NewRouter(&mockExecutor{}, &mockDetails{}, nil)
	other := metrics.EventsTotal.WithLabelValues("other", "label-test")
	before := testutil.ToFloat64(other)
	series := testutil.CollectAndCount(metrics.EventsTotal)

	for _, typ := range []string{"team_join", "x-7f3a", "x-9c21"} {
		raw := json.RawMessage(`{"type":"` + typ + `"}`)
		if err := r.Dispatch(context.Background(), "label-test", raw, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := testutil.ToFloat64(other) - before; got != 3 {
		t.Errorf("other events = %v, want 3", got)
	}
	if got := testutil.CollectAndCount(metrics.EventsTotal); got != series {
		t.Errorf("event series grew from %d to %d", series, got)
	}
}

package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/songsearch/internal/domain"
	"github.com/kailas-cloud/songsearch/internal/domain/details"
	"github.com/kailas-cloud/songsearch/internal/domain/function"
	"github.com/kailas-cloud/songsearch/internal/metrics"
)

// Router dispatches inbound platform events by type.
// It is shared by the socket mode and HTTP transports.
type Router struct {
	functions FunctionExecutor
	details   DetailsHandler
	logger    *zap.Logger
	inflight  sync.WaitGroup
}

// NewRouter creates an event router.
func NewRouter(functions FunctionExecutor, details DetailsHandler, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{functions: functions, details: details, logger: logger}
}

type header struct {
	Type string `json:"type"`
}

// Dispatch handles one inner event. ack is called exactly once on every path.
// Function executions complete before the ack; details requests are acked first
// and presented in the background.
func (r *Router) Dispatch(ctx context.Context, transport string, raw json.RawMessage, ack func()) error {
	ackOnce := sync.OnceFunc(func() {
		if ack != nil {
			ack()
		}
	})
	defer ackOnce()

	var h header
	if err := json.Unmarshal(raw, &h); err != nil {
		metrics.EventsTotal.WithLabelValues("malformed", transport).Inc()
		return fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
	}
	metrics.EventsTotal.WithLabelValues(typeLabel(h.Type), transport).Inc()

	switch h.Type {
	case function.EventType:
		var exec function.Execution
		if err := json.Unmarshal(raw, &exec); err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrMalformedEvent, h.Type, err)
		}
		return r.functions.Execute(ctx, &exec, ackOnce)

	case details.EventType:
		var ev details.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrMalformedEvent, h.Type, err)
		}
		ackOnce()
		r.inflight.Add(1)
		go func() {
			defer r.inflight.Done()
			r.details.Handle(context.WithoutCancel(ctx), &ev)
		}()
		return nil

	default:
		r.logger.Debug("ignoring event", zap.String("type", h.Type), zap.String("transport", transport))
		return nil
	}
}

// typeLabel bounds the event type metric label to the types this router serves.
func typeLabel(eventType string) string {
	switch eventType {
	case function.EventType, details.EventType:
		return eventType
	default:
		return "other"
	}
}

// Wait blocks until background details presentations finish.
func (r *Router) Wait() {
	r.inflight.Wait()
}

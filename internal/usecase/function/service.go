package function

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/songsearch/internal/domain"
	"github.com/kailas-cloud/songsearch/internal/domain/function"
	"github.com/kailas-cloud/songsearch/internal/domain/search/request"
	"github.com/kailas-cloud/songsearch/internal/logger"
	"github.com/kailas-cloud/songsearch/internal/metrics"
)

// Handler computes the outputs of one function from its inputs.
type Handler func(ctx context.Context, inputs map[string]any) (function.Outputs, error)

// Service dispatches function executions to handlers by callback id.
// Every execution is acknowledged exactly once and completed exactly once,
// with completeError on handler errors, panics and unknown callback ids.
// A redelivered execution id is acknowledged without running again.
type Service struct {
	completer Completer
	handlers  map[string]Handler
	seen      *executionSet
	logger    *zap.Logger
}

// New creates a function service serving the filters and search callbacks.
func New(completer Completer, filters FilterLister, searcher Searcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		completer: completer,
		handlers:  make(map[string]Handler, 2),
		seen:      newExecutionSet(defaultRecentExecutions),
		logger:    logger,
	}
	s.Register(function.CallbackFilters, filtersHandler(filters))
	s.Register(function.CallbackSearch, searchHandler(searcher))
	return s
}

// Register binds a handler to a callback id, replacing any previous one.
func (s *Service) Register(callbackID string, h Handler) {
	s.handlers[callbackID] = h
}

func filtersHandler(filters FilterLister) Handler {
	return func(ctx context.Context, _ map[string]any) (function.Outputs, error) {
		return function.Outputs{function.OutputFilters: filters.List(ctx)}, nil
	}
}

func searchHandler(searcher Searcher) Handler {
	return func(ctx context.Context, inputs map[string]any) (function.Outputs, error) {
		sel := request.ParseInputs(inputs, searcher.Dimensions())
		return function.Outputs{function.OutputSearchResult: searcher.Search(ctx, sel)}, nil
	}
}

// Execute runs the handler for exec, reports completion, then acknowledges.
// ack runs on every exit path, including a failed completion call.
// The returned error is the completion call failure, if any.
func (s *Service) Execute(ctx context.Context, exec *function.Execution, ack func()) error {
	ackOnce := sync.OnceFunc(func() {
		if ack != nil {
			ack()
		}
	})
	defer ackOnce()

	callbackID := exec.CallbackID()
	log := s.logger.With(
		zap.String("callback_id", callbackID),
		zap.String("function_execution_id", exec.FunctionExecutionID),
	)
	ctx = logger.ContextWithLogger(ctx, log)

	label := callbackID
	if _, ok := s.handlers[callbackID]; !ok {
		label = "other"
	}

	if exec.FunctionExecutionID != "" && !s.seen.add(exec.FunctionExecutionID) {
		log.Info("duplicate function execution ignored")
		metrics.FunctionExecutionsTotal.WithLabelValues(label, "duplicate").Inc()
		return nil
	}

	start := time.Now()
	outputs, status, err := s.run(ctx, exec)
	metrics.FunctionExecutionDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	metrics.FunctionExecutionsTotal.WithLabelValues(label, status).Inc()

	var completeErr error
	if err != nil {
		log.Warn("function execution failed", zap.String("status", status), zap.Error(err))
		completeErr = s.completer.CompleteError(ctx, exec, publicMessage(err))
	} else {
		log.Debug("function executed")
		completeErr = s.completer.CompleteSuccess(ctx, exec, outputs)
	}
	if completeErr != nil {
		log.Error("function completion failed", zap.Error(completeErr))
		return fmt.Errorf("complete %s: %w", callbackID, completeErr)
	}
	return nil
}

// publicMessage is the error text reported to the platform; internals stay in the logs.
func publicMessage(err error) string {
	if errors.Is(err, domain.ErrUnknownFunction) {
		return err.Error()
	}
	return "internal error"
}

// run invokes the handler, converting a panic into an error.
func (s *Service) run(ctx context.Context, exec *function.Execution) (outputs function.Outputs, status string, err error) {
	h, ok := s.handlers[exec.CallbackID()]
	if !ok {
		return nil, "unknown", fmt.Errorf("%w: %q", domain.ErrUnknownFunction, exec.CallbackID())
	}

	defer func() {
		if r := recover(); r != nil {
			outputs, status, err = nil, "panic", fmt.Errorf("function panicked: %v", r)
		}
	}()

	outputs, err = h(ctx, exec.Inputs)
	if err != nil {
		return nil, "error", err
	}
	return outputs, "success", nil
}

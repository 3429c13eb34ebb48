package details

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/songsearch/internal/domain/details"
	"github.com/kailas-cloud/songsearch/internal/metrics"
)

// Service answers entity details requests with placeholder content.
type Service struct {
	presenter   Presenter
	placeholder details.Placeholder
	timeout     time.Duration
	logger      *zap.Logger
}

// New creates a details service. A zero timeout leaves the caller's deadline in place.
func New(presenter Presenter, placeholder details.Placeholder, timeout time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		presenter:   presenter,
		placeholder: placeholder,
		timeout:     timeout,
		logger:      logger,
	}
}

// Handle builds the presentation payload and forwards it.
// Failures are logged and counted, never returned: there is no retry path.
func (s *Service) Handle(ctx context.Context, ev *details.Event) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	payload := details.Build(ev, s.placeholder)
	if err := s.presenter.PresentDetails(ctx, &payload); err != nil {
		metrics.DetailsPresentationsTotal.WithLabelValues("error").Inc()
		s.logger.Error("present details failed",
			zap.String("trigger_id", ev.TriggerID),
			zap.String("external_ref", ev.ExternalRef.ID),
			zap.Error(err),
		)
		return
	}

	metrics.DetailsPresentationsTotal.WithLabelValues("success").Inc()
	s.logger.Debug("details presented",
		zap.String("trigger_id", ev.TriggerID),
		zap.String("external_ref", ev.ExternalRef.ID),
	)
}

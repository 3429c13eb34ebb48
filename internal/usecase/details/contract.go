package details

import (
	"context"

	"github.com/kailas-cloud/songsearch/internal/domain/details"
)

// Presenter publishes entity details to the platform.
type Presenter interface {
	PresentDetails(ctx context.Context, payload *details.Payload) error
}

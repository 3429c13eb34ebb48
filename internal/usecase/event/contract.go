package event

import (
	"context"

	"github.com/kailas-cloud/songsearch/internal/domain/details"
	"github.com/kailas-cloud/songsearch/internal/domain/function"
)

// FunctionExecutor runs a function execution, acknowledging it exactly once.
type FunctionExecutor interface {
	Execute(ctx context.Context, exec *function.Execution, ack func()) error
}

// DetailsHandler answers an entity details request.
type DetailsHandler interface {
	Handle(ctx context.Context, ev *details.Event)
}

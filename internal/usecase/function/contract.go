package function

import (
	"context"

	"github.com/kailas-cloud/songsearch/internal/domain/function"
	"github.com/kailas-cloud/songsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/songsearch/internal/domain/search/request"
	"github.com/kailas-cloud/songsearch/internal/domain/search/result"
)

// Completer reports the outcome of a function execution to the platform.
type Completer interface {
	CompleteSuccess(ctx context.Context, exec *function.Execution, outputs function.Outputs) error
	CompleteError(ctx context.Context, exec *function.Execution, message string) error
}

// FilterLister lists the available filters.
type FilterLister interface {
	List(ctx context.Context) []filter.Definition
}

// Searcher runs a filtered search.
type Searcher interface {
	Dimensions() []filter.Dimension
	Search(ctx context.Context, sel request.Selection) []result.Result
}

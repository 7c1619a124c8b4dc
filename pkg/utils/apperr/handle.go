package apperr

import (
	"context"

	"github.com/m-mizutani/ctxlog"
)

// Handle logs an error at the top of the stack with the context's logger
func Handle(ctx context.Context, err error) {
	logger := ctxlog.From(ctx)
	logger.Error("application error", "error", err)
}

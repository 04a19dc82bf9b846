package handlers

import (
	"context"
	"log/slog"

	portssvc "github.com/SscSPs/utang_ledger/internal/core/ports/services"
	"github.com/SscSPs/utang_ledger/internal/middleware"
)

// requestConfirmer answers a confirmation prompt with the value the client
// already sent. HTTP has no way to ask mid-request, so the client must show
// the prompt itself and send "confirm": true.
type requestConfirmer struct {
	confirmed bool
	prompt    string
}

var _ portssvc.Confirmer = (*requestConfirmer)(nil)

func (r *requestConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	r.prompt = prompt
	if !r.confirmed {
		middleware.GetLoggerFromCtx(ctx).Debug("Confirmation not given by client", slog.String("prompt", prompt))
	}
	return r.confirmed, nil
}

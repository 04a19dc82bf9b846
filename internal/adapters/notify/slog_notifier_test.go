package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	portssvc "github.com/SscSPs/utang_ledger/internal/core/ports/services"
	"github.com/SscSPs/utang_ledger/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogNotifier_LogsAndRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx, rec := WithRecorder(middleware.WithLogger(context.Background(), logger))

	n := NewSlogNotifier()
	n.Notify(ctx, "Paid", "done", portssvc.NoticeSuccess)
	n.Notify(ctx, "Oops", "failed", portssvc.NoticeError)

	notices := rec.Notices()
	require.Len(t, notices, 2)
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, Notice{Title: "Oops", Message: "failed", Kind: portssvc.NoticeError}, last)

	assert.Contains(t, buf.String(), `"title":"Paid"`)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestSlogNotifier_WithoutRecorder(t *testing.T) {
	assert.NotPanics(t, func() {
		NewSlogNotifier().Notify(context.Background(), "t", "m", portssvc.NoticeInfo)
	})

	_, ok := (&Recorder{}).Last()
	assert.False(t, ok)
}

// Package notify delivers user-facing notices. There is no push channel: a
// notice is written to the structured log and, when the request context
// carries a Recorder, handed back to the HTTP handler.
package notify

import (
	"context"
	"log/slog"
	"sync"

	portssvc "github.com/SscSPs/utang_ledger/internal/core/ports/services"
	"github.com/SscSPs/utang_ledger/internal/middleware"
)

// Notice is one delivered notification.
type Notice struct {
	Title   string              `json:"title"`
	Message string              `json:"message"`
	Kind    portssvc.NoticeKind `json:"kind"`
}

// Recorder collects the notices raised while serving one request.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// Notices returns a copy of everything recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Last returns the most recent notice.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

func (r *Recorder) add(n Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

type recorderKey struct{}

// WithRecorder returns a context that captures notices into the returned Recorder.
func WithRecorder(ctx context.Context) (context.Context, *Recorder) {
	rec := &Recorder{}
	return context.WithValue(ctx, recorderKey{}, rec), rec
}

func recorderFrom(ctx context.Context) *Recorder {
	rec, _ := ctx.Value(recorderKey{}).(*Recorder)
	return rec
}

// SlogNotifier implements portssvc.Notifier.
type SlogNotifier struct{}

// NewSlogNotifier creates the notifier.
func NewSlogNotifier() *SlogNotifier {
	return &SlogNotifier{}
}

var _ portssvc.Notifier = (*SlogNotifier)(nil)

func (n *SlogNotifier) Notify(ctx context.Context, title, message string, kind portssvc.NoticeKind) {
	level := slog.LevelInfo
	if kind == portssvc.NoticeError {
		level = slog.LevelWarn
	}
	middleware.GetLoggerFromCtx(ctx).Log(ctx, level, "User notice",
		slog.String("title", title),
		slog.String("message", message),
		slog.String("kind", string(kind)))

	if rec := recorderFrom(ctx); rec != nil {
		rec.add(Notice{Title: title, Message: message, Kind: kind})
	}
}

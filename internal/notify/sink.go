// internal/notify/sink.go
package notify

import (
	"sync"

	"github.com/jonboulle/clockwork"

	"puppy-admin/internal/common/logger"
	"puppy-admin/internal/models"
	"puppy-admin/internal/waitlist"
)

// Recorder buffers notifications until the HTTP layer drains them into a response.
type Recorder struct {
	clock clockwork.Clock

	mu    sync.Mutex
	items []models.Notification
}

var _ waitlist.Notifier = (*Recorder)(nil)

func NewRecorder(clock clockwork.Clock) *Recorder {
	return &Recorder{clock: clock}
}

func (r *Recorder) Notify(kind models.NotificationKind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, models.Notification{
		Kind:      kind,
		Message:   message,
		CreatedAt: r.clock.Now().UTC(),
	})
}

// Drain returns and forgets everything recorded so far.
func (r *Recorder) Drain() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.items
	r.items = nil
	if out == nil {
		out = []models.Notification{}
	}
	return out
}

// LogSink writes notifications to the structured log.
type LogSink struct {
	log logger.Logger
}

func NewLogSink(log logger.Logger, fields map[string]interface{}) *LogSink {
	return &LogSink{log: logger.Component(log, "notify").With(fields)}
}

func (l *LogSink) Notify(kind models.NotificationKind, message string) {
	fields := map[string]interface{}{"kind": string(kind)}
	if kind == models.NotificationError {
		l.log.Warn(message, fields)
		return
	}
	l.log.Info(message, fields)
}

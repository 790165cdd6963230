// Package notify queues operator notifications in a spool file that an
// external mailer drains. Failures while queueing are best-effort.
package notify

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"recut/internal/config"
	"recut/internal/services"
)

// Message is one queued notification.
type Message struct {
	QueuedAt  time.Time `json:"queued_at"`
	ChanID    string    `json:"chan_id,omitempty"`
	StartTime string    `json:"start_time,omitempty"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body,omitempty"`
}

// Queuer appends notifications to the outbox.
type Queuer interface {
	Enqueue(msg Message) error
}

// NewQueuer builds an outbox queuer from configuration, or a noop when
// notifications are disabled.
func NewQueuer(cfg *config.Config) Queuer {
	if !cfg.Notify.Enabled || cfg.Notify.Outbox == "" {
		return noopQueuer{}
	}
	return &outbox{path: cfg.Notify.Outbox}
}

// outbox appends JSON lines to the spool file under an advisory file lock,
// since the external mailer may be draining the spool concurrently.
type outbox struct {
	path string
}

func (o *outbox) Enqueue(msg Message) error {
	if msg.QueuedAt.IsZero() {
		msg.QueuedAt = time.Now().UTC()
	}
	line, err := json.Marshal(msg)
	if err != nil {
		return services.Wrap(services.ErrBestEffort, "notify", "enqueue", "encode message", err)
	}
	if err := os.MkdirAll(filepath.Dir(o.path), 0o755); err != nil {
		return services.Wrap(services.ErrBestEffort, "notify", "enqueue", "create spool directory", err)
	}

	lock := flock.New(o.path + ".lock")
	if err := lock.Lock(); err != nil {
		return services.Wrap(services.ErrBestEffort, "notify", "enqueue", "lock spool", err)
	}
	defer lock.Unlock()

	f, err := os.OpenFile(o.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return services.Wrap(services.ErrBestEffort, "notify", "enqueue", "open spool", err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return services.Wrap(services.ErrBestEffort, "notify", "enqueue", "append message", err)
	}
	return nil
}

type noopQueuer struct{}

func (noopQueuer) Enqueue(Message) error { return nil }

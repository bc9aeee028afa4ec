// Package transcript writes practice conversations to per-session NDJSON files.
package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ashureev/practice-coach/internal/domain"
)

// Event types written to transcripts.
const (
	EventMessage = "message"
	EventSummary = "summary"
)

// Config controls transcript logging.
type Config struct {
	Enabled   bool
	Dir       string
	QueueSize int
}

// Event is one NDJSON line.
type Event struct {
	Timestamp string                 `json:"ts"`
	UserID    string                 `json:"user_id"`
	SessionID string                 `json:"session_id"`
	EventType string                 `json:"event_type"`
	Message   *domain.Message        `json:"message,omitempty"`
	Summary   *domain.SessionSummary `json:"summary,omitempty"`
}

var pathComponent = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// Logger queues events and writes them from a single goroutine so callers
// never block on disk. Events are dropped when the queue is full.
type Logger struct {
	dir     string
	logger  *slog.Logger
	queue   chan Event
	done    chan struct{}
	mu      sync.RWMutex // guards closed against sends on a closed queue
	closed  bool
	dropped atomic.Int64
}

// NewLogger creates a transcript logger. A disabled config returns nil, nil;
// a nil *Logger accepts and discards events.
func NewLogger(cfg Config, logger *slog.Logger) (*Logger, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.Dir == "" {
		return nil, errors.New("transcript dir is required")
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}

	l := &Logger{
		dir:    cfg.Dir,
		logger: logger,
		queue:  make(chan Event, cfg.QueueSize),
		done:   make(chan struct{}),
	}
	go l.run()
	return l, nil
}

// Log enqueues an event without blocking.
func (l *Logger) Log(ev Event) {
	if l == nil {
		return
	}
	if ev.Timestamp == "" {
		ev.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return
	}
	select {
	case l.queue <- ev:
	default:
		if n := l.dropped.Add(1); n == 1 || n%100 == 0 {
			l.logger.Warn("Transcript queue full, dropping events", "dropped", n)
		}
	}
}

// Dropped returns how many events were discarded.
func (l *Logger) Dropped() int64 {
	if l == nil {
		return 0
	}
	return l.dropped.Load()
}

// Close flushes queued events and stops the writer.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.queue)
	}
	l.mu.Unlock()
	<-l.done
	return nil
}

// PartnerTyping is ignored; typing indicators are not part of a transcript.
func (l *Logger) PartnerTyping(string, string, bool) {}

// MessageAppended records a chat line.
func (l *Logger) MessageAppended(userID, sessionID string, msg domain.Message) {
	m := msg.Clone()
	l.Log(Event{UserID: userID, SessionID: sessionID, EventType: EventMessage, Message: &m})
}

// SessionEnded records the end-of-session report.
func (l *Logger) SessionEnded(userID string, summary domain.SessionSummary) {
	l.Log(Event{UserID: userID, SessionID: summary.SessionID, EventType: EventSummary, Summary: &summary})
}

func (l *Logger) run() {
	defer close(l.done)
	for ev := range l.queue {
		if err := l.write(ev); err != nil {
			l.logger.Warn("Failed to write transcript event",
				"user_id", ev.UserID,
				"session_id", ev.SessionID,
				"error", err)
		}
	}
}

func (l *Logger) write(ev Event) error {
	if !pathComponent.MatchString(ev.UserID) || !pathComponent.MatchString(ev.SessionID) {
		return fmt.Errorf("invalid transcript path component %q/%q", ev.UserID, ev.SessionID)
	}
	dir := filepath.Join(l.dir, ev.UserID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create user dir: %w", err)
	}

	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	line = append(line, '\n')

	f, err := os.OpenFile(filepath.Join(dir, ev.SessionID+".ndjson"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open transcript: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("append transcript: %w", err)
	}
	return f.Close()
}

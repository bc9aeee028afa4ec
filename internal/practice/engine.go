// Package practice runs simulated practice conversations between a user and a persona.
package practice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ashureev/practice-coach/internal/catalog"
	"github.com/ashureev/practice-coach/internal/domain"
	"github.com/ashureev/practice-coach/internal/feedback"
	"github.com/ashureev/practice-coach/internal/history"
	"github.com/ashureev/practice-coach/internal/metrics"
	"github.com/ashureev/practice-coach/internal/persona"
	"github.com/ashureev/practice-coach/internal/summary"
)

// State is the engine's lifecycle state.
type State string

const (
	StateIdle   State = "idle"
	StateActive State = "active"
)

// End reasons recorded in metrics and logs.
const (
	EndReasonUser     = "user"
	EndReasonIdle     = "idle"
	EndReasonShutdown = "shutdown"
)

// Options configures an Engine. Zero values select defaults.
type Options struct {
	Catalog     *catalog.Catalog
	Generator   *persona.Generator
	History     *history.Store
	Listener    Listener
	Logger      *slog.Logger
	ReplyDelay  time.Duration
	ReplyJitter time.Duration
	Now         func() time.Time
}

// Engine owns at most one active session for a single user.
// All operations are serialized by one mutex.
type Engine struct {
	userID      string
	catalog     *catalog.Catalog
	generator   *persona.Generator
	history     *history.Store
	listener    Listener
	logger      *slog.Logger
	replyDelay  time.Duration
	replyJitter time.Duration
	now         func() time.Time

	mu         sync.Mutex
	session    *domain.Session
	nextID     int64
	dispatcher *dispatcher
	lastUsed   time.Time
}

// NewEngine creates an idle engine for userID.
func NewEngine(userID string, opts Options) *Engine {
	e := &Engine{
		userID:      userID,
		catalog:     opts.Catalog,
		generator:   opts.Generator,
		history:     opts.History,
		listener:    opts.Listener,
		logger:      opts.Logger,
		replyDelay:  opts.ReplyDelay,
		replyJitter: opts.ReplyJitter,
		now:         opts.Now,
	}
	if e.catalog == nil {
		e.catalog = catalog.Default()
	}
	if e.generator == nil {
		e.generator = persona.NewGenerator(nil)
	}
	if e.history == nil {
		e.history = history.NewStore(userID, nil)
	}
	if e.listener == nil {
		e.listener = NopListener{}
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.now == nil {
		e.now = time.Now
	}
	e.logger = e.logger.With("user_id", userID)
	e.lastUsed = e.now()
	return e
}

// UserID returns the owner of the engine.
func (e *Engine) UserID() string { return e.userID }

// State reports whether a session is active.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		return StateActive
	}
	return StateIdle
}

// Active returns a copy of the active session.
func (e *Engine) Active() (domain.Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return domain.Session{}, false
	}
	return e.session.Clone(), true
}

// touch records that the engine was handed to a caller.
func (e *Engine) touch() {
	e.mu.Lock()
	e.lastUsed = e.now()
	e.mu.Unlock()
}

// evictable reports whether the engine is idle and unused since before cutoff.
func (e *Engine) evictable(cutoff time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session == nil && e.lastUsed.Before(cutoff)
}

// History returns archived sessions, most recent first.
func (e *Engine) History() []domain.Session {
	return e.history.List()
}

// Start begins a session. The persona's opening message is appended
// asynchronously after the reply delay.
func (e *Engine) Start(ctx context.Context, scenarioID, personaID string) (domain.Session, error) {
	e.mu.Lock()
	if e.session != nil {
		e.mu.Unlock()
		metrics.Errors.WithLabelValues("start", "invalid_state").Inc()
		return domain.Session{}, fmt.Errorf("start session: already active: %w", domain.ErrInvalidState)
	}

	scenario, err := e.catalog.Scenario(scenarioID)
	if err != nil {
		e.mu.Unlock()
		metrics.Errors.WithLabelValues("start", "not_found").Inc()
		return domain.Session{}, fmt.Errorf("start session: %w", err)
	}
	p, err := e.catalog.Persona(personaID)
	if err != nil {
		e.mu.Unlock()
		metrics.Errors.WithLabelValues("start", "not_found").Inc()
		return domain.Session{}, fmt.Errorf("start session: %w", err)
	}

	s := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    e.userID,
		Scenario:  scenario,
		Persona:   p,
		Messages:  []domain.Message{},
		Status:    domain.SessionActive,
		StartTime: e.now(),
	}
	e.session = s
	e.nextID = 0
	e.lastUsed = s.StartTime
	e.dispatcher = newDispatcher(ctx)
	e.dispatcher.enqueue(pendingReply{
		due:     time.Now().Add(e.delay()),
		opening: true,
	})
	go e.dispatch(e.dispatcher, s.ID)
	out := s.Clone()
	e.mu.Unlock()

	metrics.SessionsStarted.WithLabelValues(scenario.ID, p.ID).Inc()
	metrics.SessionsActive.Inc()
	e.logger.Info("Practice session started", "session_id", out.ID, "scenario", scenario.ID, "persona", p.ID)
	e.listener.PartnerTyping(e.userID, out.ID, true)
	return out, nil
}

// SendUserMessage analyzes and appends a user message, then schedules a
// partner reply. Rapid sends are accepted; replies are delivered in order.
func (e *Engine) SendUserMessage(ctx context.Context, content string) (domain.Message, error) {
	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		metrics.Errors.WithLabelValues("send", "invalid_state").Inc()
		return domain.Message{}, fmt.Errorf("send message: no active session: %w", domain.ErrInvalidState)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		e.mu.Unlock()
		metrics.Errors.WithLabelValues("send", "validation").Inc()
		return domain.Message{}, fmt.Errorf("send message: empty content: %w", domain.ErrValidation)
	}

	s := e.session
	e.lastUsed = e.now()
	result := feedback.Analyze(content, s.Scenario, s.Persona)
	msg := e.appendLocked(domain.SenderUser, content, &result)
	s.Metrics = smooth(s.Metrics, result.Metrics)

	e.dispatcher.enqueue(pendingReply{
		due: time.Now().Add(e.delay()),
		input: persona.ReplyInput{
			LastUserMessage: content,
			Persona:         s.Persona,
			Scenario:        s.Scenario,
			Turn:            s.Metrics.MessagesCount,
		},
	})
	sessionID := s.ID
	out := msg.Clone()
	e.mu.Unlock()

	observeFeedback(result)
	e.logger.Debug("User message appended", "session_id", sessionID, "message_id", out.ID)
	e.listener.MessageAppended(e.userID, sessionID, out)
	e.listener.PartnerTyping(e.userID, sessionID, true)
	return out, nil
}

// End closes the active session, cancels pending replies, archives the
// session and returns its summary.
func (e *Engine) End(ctx context.Context) (domain.SessionSummary, error) {
	sum, err := e.end(ctx, EndReasonUser, nil)
	if err != nil {
		metrics.Errors.WithLabelValues("end", "invalid_state").Inc()
	}
	return sum, err
}

// EndIfIdle ends the active session when its last activity is before cutoff.
// It reports whether a session was ended.
func (e *Engine) EndIfIdle(ctx context.Context, cutoff time.Time) (bool, error) {
	_, err := e.end(ctx, EndReasonIdle, func(s *domain.Session) bool {
		return s.LastActivity().Before(cutoff)
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (e *Engine) end(ctx context.Context, reason string, cond func(*domain.Session) bool) (domain.SessionSummary, error) {
	e.mu.Lock()
	s := e.session
	if s == nil || (cond != nil && !cond(s)) {
		e.mu.Unlock()
		return domain.SessionSummary{}, fmt.Errorf("end session: no active session: %w", domain.ErrInvalidState)
	}

	e.dispatcher.stop()
	e.dispatcher = nil
	e.session = nil

	end := e.now()
	s.EndTime = &end
	s.Duration = end.Sub(s.StartTime)
	s.Status = domain.SessionEnded

	sum := summary.Summarize(e.catalog, *s)
	if err := e.history.Archive(ctx, *s); err != nil {
		metrics.HistoryWriteFailures.Inc()
		e.logger.Error("Failed to persist practice history", "session_id", s.ID, "error", err)
	}
	e.mu.Unlock()

	metrics.SessionsActive.Dec()
	metrics.SessionsEnded.WithLabelValues(reason).Inc()
	metrics.SessionDuration.Observe(s.Duration.Seconds())
	e.logger.Info("Practice session ended",
		"session_id", s.ID,
		"reason", reason,
		"messages", s.Metrics.MessagesCount,
		"duration", s.Duration)
	e.listener.PartnerTyping(e.userID, s.ID, false)
	e.listener.SessionEnded(e.userID, sum)
	return sum, nil
}

// appendLocked appends a message to the active session. Caller holds e.mu.
func (e *Engine) appendLocked(sender domain.Sender, content string, fb *domain.FeedbackResult) domain.Message {
	e.nextID++
	msg := domain.Message{
		ID:        e.nextID,
		Sender:    sender,
		Content:   content,
		Timestamp: e.now(),
		Feedback:  fb,
	}
	e.session.Messages = append(e.session.Messages, msg)
	metrics.Messages.WithLabelValues(string(sender)).Inc()
	return msg
}

func (e *Engine) delay() time.Duration {
	d := e.replyDelay
	if e.replyJitter > 0 {
		d += time.Duration(e.generator.IntN(int(e.replyJitter)))
	}
	return d
}

// smooth folds one message's scores into the session metrics.
func smooth(m domain.SessionMetrics, sample domain.Metrics) domain.SessionMetrics {
	m.MessagesCount++
	m.ToneScore = halfway(m.ToneScore, sample.Tone)
	m.ClarityScore = halfway(m.ClarityScore, sample.Clarity)
	m.EngagementScore = halfway(m.EngagementScore, sample.Engagement)
	return m
}

func halfway(old, sample int) int {
	return int(math.Round(float64(old+sample) / 2))
}

func observeFeedback(r domain.FeedbackResult) {
	metrics.FeedbackScore.WithLabelValues(string(domain.CategoryTone)).Observe(float64(r.Metrics.Tone))
	metrics.FeedbackScore.WithLabelValues(string(domain.CategoryClarity)).Observe(float64(r.Metrics.Clarity))
	metrics.FeedbackScore.WithLabelValues(string(domain.CategoryEngagement)).Observe(float64(r.Metrics.Engagement))
	metrics.FeedbackScore.WithLabelValues(string(domain.CategoryAppropriateness)).Observe(float64(r.Metrics.Appropriateness))
	for _, it := range r.Items {
		metrics.FeedbackItems.WithLabelValues(it.Rule, string(it.Type)).Inc()
	}
}

// Close ends any active session during shutdown. It is a no-op when idle.
func (e *Engine) Close(ctx context.Context) error {
	_, err := e.end(ctx, EndReasonShutdown, nil)
	if err != nil && !errors.Is(err, domain.ErrInvalidState) {
		return err
	}
	return nil
}

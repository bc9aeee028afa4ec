package practice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ashureev/practice-coach/internal/catalog"
	"github.com/ashureev/practice-coach/internal/domain"
	"github.com/ashureev/practice-coach/internal/history"
	"github.com/ashureev/practice-coach/internal/persona"
	"github.com/ashureev/practice-coach/internal/summary"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const never = time.Hour

type recordingListener struct {
	mu       sync.Mutex
	typing   []bool
	messages []domain.Message
	ended    []domain.SessionSummary
}

func (r *recordingListener) PartnerTyping(_, _ string, typing bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.typing = append(r.typing, typing)
}

func (r *recordingListener) MessageAppended(_, _ string, msg domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *recordingListener) SessionEnded(_ string, s domain.SessionSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ended = append(r.ended, s)
}

func (r *recordingListener) senders() []domain.Sender {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Sender, 0, len(r.messages))
	for _, m := range r.messages {
		out = append(out, m.Sender)
	}
	return out
}

type failingPersistence struct{}

func (failingPersistence) LoadHistory(context.Context, string) ([]domain.Session, error) {
	return nil, nil
}

func (failingPersistence) SaveHistory(context.Context, string, []domain.Session) error {
	return errors.New("disk full")
}

func newTestEngine(t *testing.T, delay time.Duration, mutate ...func(*Options)) *Engine {
	t.Helper()
	opts := Options{
		Generator:  persona.NewGenerator(persona.NewSeededSource(1)),
		ReplyDelay: delay,
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	e := NewEngine("user-1", opts)
	t.Cleanup(func() { _ = e.Close(context.Background()) })
	return e
}

func activeMessages(t *testing.T, e *Engine) []domain.Message {
	t.Helper()
	s, ok := e.Active()
	require.True(t, ok)
	return s.Messages
}

func senders(msgs []domain.Message) []domain.Sender {
	out := make([]domain.Sender, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Sender)
	}
	return out
}

func TestStartAppendsOpeningMessageAsynchronously(t *testing.T) {
	e := newTestEngine(t, 50*time.Millisecond)
	ctx := context.Background()

	s, err := e.Start(ctx, catalog.ScenarioOpeningLine, "humorous")
	require.NoError(t, err)
	assert.Equal(t, StateActive, e.State())
	assert.Equal(t, domain.SessionActive, s.Status)
	assert.Equal(t, domain.SessionMetrics{}, s.Metrics)
	assert.Empty(t, s.Messages)
	assert.NotEmpty(t, s.ID)

	require.Eventually(t, func() bool {
		return len(activeMessages(t, e)) == 1
	}, time.Second, 5*time.Millisecond)

	opener := activeMessages(t, e)[0]
	assert.Equal(t, int64(1), opener.ID)
	assert.Equal(t, domain.SenderPartner, opener.Sender)
	assert.Nil(t, opener.Feedback)
	assert.NotEmpty(t, opener.Content)
}

func TestStartErrors(t *testing.T) {
	e := newTestEngine(t, never)
	ctx := context.Background()

	_, err := e.Start(ctx, "nope", "humorous")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = e.Start(ctx, catalog.ScenarioOpeningLine, "nobody")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, StateIdle, e.State())

	first, err := e.Start(ctx, catalog.ScenarioOpeningLine, "humorous")
	require.NoError(t, err)
	_, err = e.Start(ctx, catalog.ScenarioDeeperConversation, "reserved")
	require.ErrorIs(t, err, domain.ErrInvalidState)

	current, ok := e.Active()
	require.True(t, ok)
	assert.Equal(t, first.ID, current.ID)
}

func TestSendUserMessageErrors(t *testing.T) {
	e := newTestEngine(t, never)
	ctx := context.Background()

	_, err := e.SendUserMessage(ctx, "hello there")
	require.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = e.SendUserMessage(ctx, "   ")
	require.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = e.Start(ctx, catalog.ScenarioOpeningLine, "humorous")
	require.NoError(t, err)
	_, err = e.SendUserMessage(ctx, "")
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = e.SendUserMessage(ctx, " \t\n ")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, activeMessages(t, e))
}

func TestSendUserMessageScoresAndSmoothsMetrics(t *testing.T) {
	e := newTestEngine(t, never)
	ctx := context.Background()
	_, err := e.Start(ctx, catalog.ScenarioOpeningLine, "adventurous")
	require.NoError(t, err)

	msg, err := e.SendUserMessage(ctx, "  hey whats up ")
	require.NoError(t, err)
	assert.Equal(t, "hey whats up", msg.Content)
	assert.Equal(t, domain.SenderUser, msg.Sender)
	require.NotNil(t, msg.Feedback)
	assert.Equal(t, domain.Metrics{Tone: 50, Clarity: 70, Engagement: 70, Appropriateness: 50}, msg.Feedback.Metrics)

	s, _ := e.Active()
	assert.Equal(t, domain.SessionMetrics{MessagesCount: 1, ToneScore: 25, ClarityScore: 35, EngagementScore: 35}, s.Metrics)

	_, err = e.SendUserMessage(ctx, "What inspired you to start hiking? I've always wanted to try it and I love being outdoors")
	require.NoError(t, err)

	s, _ = e.Active()
	assert.Equal(t, domain.SessionMetrics{MessagesCount: 2, ToneScore: 50, ClarityScore: 53, EngagementScore: 68}, s.Metrics)
	assert.Equal(t, []int64{1, 2}, []int64{s.Messages[0].ID, s.Messages[1].ID})
}

func TestRapidSendsInterleaveRepliesInOrder(t *testing.T) {
	e := newTestEngine(t, 30*time.Millisecond)
	ctx := context.Background()
	_, err := e.Start(ctx, catalog.ScenarioKeepingItGoing, "intellectual")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(activeMessages(t, e)) == 1
	}, time.Second, 5*time.Millisecond)

	_, err = e.SendUserMessage(ctx, "first message here")
	require.NoError(t, err)
	_, err = e.SendUserMessage(ctx, "second message here")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(activeMessages(t, e)) == 5
	}, time.Second, 5*time.Millisecond)

	msgs := activeMessages(t, e)
	assert.Equal(t, []domain.Sender{
		domain.SenderPartner,
		domain.SenderUser,
		domain.SenderUser,
		domain.SenderPartner,
		domain.SenderPartner,
	}, senders(msgs))
	for i, m := range msgs {
		assert.Equal(t, int64(i+1), m.ID)
		if m.Sender == domain.SenderPartner {
			assert.Nil(t, m.Feedback)
		} else {
			assert.NotNil(t, m.Feedback)
		}
	}
}

func TestEndCancelsPendingRepliesAndArchives(t *testing.T) {
	rec := &recordingListener{}
	e := newTestEngine(t, never, func(o *Options) { o.Listener = rec })
	ctx := context.Background()

	started, err := e.Start(ctx, catalog.ScenarioOpeningLine, "humorous")
	require.NoError(t, err)
	_, err = e.SendUserMessage(ctx, "hey whats up")
	require.NoError(t, err)

	sum, err := e.End(ctx)
	require.NoError(t, err)
	assert.Equal(t, started.ID, sum.SessionID)
	assert.Equal(t, StateIdle, e.State())
	_, ok := e.Active()
	assert.False(t, ok)

	hist := e.History()
	require.Len(t, hist, 1)
	archived := hist[0]
	assert.Equal(t, domain.SessionEnded, archived.Status)
	require.NotNil(t, archived.EndTime)
	assert.Equal(t, archived.EndTime.Sub(archived.StartTime), archived.Duration)
	assert.Equal(t, []domain.Sender{domain.SenderUser}, senders(archived.Messages))
	assert.Equal(t, summary.Summarize(catalog.Default(), archived), sum)

	rec.mu.Lock()
	require.Len(t, rec.ended, 1)
	assert.Equal(t, sum, rec.ended[0])
	rec.mu.Unlock()
	assert.Equal(t, []domain.Sender{domain.SenderUser}, rec.senders())

	_, err = e.End(ctx)
	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRepliesNeverLandOnEndedSession(t *testing.T) {
	e := newTestEngine(t, 0)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		_, err := e.Start(ctx, catalog.ScenarioKeepingItGoing, "adventurous")
		require.NoError(t, err)
		_, err = e.SendUserMessage(ctx, "tell me about your last trip")
		require.NoError(t, err)
		_, err = e.End(ctx)
		require.NoError(t, err)
	}

	before := e.History()
	time.Sleep(20 * time.Millisecond)
	after := e.History()
	require.Len(t, after, history.Limit)
	for i := range after {
		assert.Len(t, after[i].Messages, len(before[i].Messages))
		assert.Equal(t, domain.SessionEnded, after[i].Status)
	}
	assert.Equal(t, StateIdle, e.State())
}

func TestHistoryCapsAtLimitMostRecentFirst(t *testing.T) {
	e := newTestEngine(t, never)
	ctx := context.Background()

	var ids []string
	for i := 0; i < history.Limit+1; i++ {
		s, err := e.Start(ctx, catalog.ScenarioOpeningLine, "reserved")
		require.NoError(t, err)
		ids = append(ids, s.ID)
		_, err = e.End(ctx)
		require.NoError(t, err)
	}

	hist := e.History()
	require.Len(t, hist, history.Limit)
	assert.Equal(t, ids[len(ids)-1], hist[0].ID)
	assert.Equal(t, ids[1], hist[len(hist)-1].ID)
}

func TestEndSucceedsWhenPersistenceFails(t *testing.T) {
	e := newTestEngine(t, never, func(o *Options) {
		o.History = history.NewStore("user-1", failingPersistence{})
	})
	ctx := context.Background()

	_, err := e.Start(ctx, catalog.ScenarioOpeningLine, "humorous")
	require.NoError(t, err)
	_, err = e.End(ctx)
	require.NoError(t, err)
	assert.Len(t, e.History(), 1)
}

func TestActiveReturnsDeepCopy(t *testing.T) {
	e := newTestEngine(t, never)
	ctx := context.Background()
	_, err := e.Start(ctx, catalog.ScenarioOpeningLine, "humorous")
	require.NoError(t, err)
	_, err = e.SendUserMessage(ctx, "hey whats up")
	require.NoError(t, err)

	s, _ := e.Active()
	s.Messages[0].Content = "mutated"
	s.Messages[0].Feedback.Items = nil

	fresh, _ := e.Active()
	assert.Equal(t, "hey whats up", fresh.Messages[0].Content)
	assert.NotEmpty(t, fresh.Messages[0].Feedback.Items)
}

func TestStartOutlivesRequestContext(t *testing.T) {
	e := newTestEngine(t, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	_, err := e.Start(ctx, catalog.ScenarioOpeningLine, "adventurous")
	require.NoError(t, err)
	cancel()

	require.Eventually(t, func() bool {
		return len(activeMessages(t, e)) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestListenerSeesTypingAndMessages(t *testing.T) {
	rec := &recordingListener{}
	e := newTestEngine(t, 20*time.Millisecond, func(o *Options) { o.Listener = rec })
	ctx := context.Background()

	_, err := e.Start(ctx, catalog.ScenarioOpeningLine, "humorous")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return len(rec.senders()) == 1
	}, time.Second, 5*time.Millisecond)

	_, err = e.SendUserMessage(ctx, "what do you do for fun?")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.messages) == 3 && !rec.typing[len(rec.typing)-1]
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []domain.Sender{domain.SenderPartner, domain.SenderUser, domain.SenderPartner}, rec.senders())
	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.True(t, rec.typing[0])
	assert.Contains(t, rec.typing, false)
}

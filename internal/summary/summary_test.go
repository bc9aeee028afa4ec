package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/practice-coach/internal/catalog"
	"github.com/ashureev/practice-coach/internal/domain"
)

func userMsg(id int64, m domain.Metrics, items ...domain.FeedbackItem) domain.Message {
	return domain.Message{
		ID:        id,
		Sender:    domain.SenderUser,
		Content:   "msg",
		Timestamp: time.Unix(id, 0),
		Feedback:  &domain.FeedbackResult{Metrics: m, Items: items},
	}
}

func partnerMsg(id int64) domain.Message {
	return domain.Message{ID: id, Sender: domain.SenderPartner, Content: "reply", Timestamp: time.Unix(id, 0)}
}

func session(scenarioID string, msgs ...domain.Message) domain.Session {
	return domain.Session{ID: "s1", Scenario: domain.Scenario{ID: scenarioID}, Messages: msgs}
}

func ids(scs []domain.Scenario) []string {
	out := make([]string, 0, len(scs))
	for _, s := range scs {
		out = append(out, s.ID)
	}
	return out
}

func TestSummarizeEmptySession(t *testing.T) {
	t.Parallel()

	got := Summarize(catalog.Default(), session(catalog.ScenarioOpeningLine, partnerMsg(1)))

	assert.Equal(t, "s1", got.SessionID)
	assert.Zero(t, got.AverageScores)
	assert.Zero(t, got.FeedbackCounts)
	assert.Empty(t, got.Strengths)
	assert.Empty(t, got.Improvements)
	assert.Empty(t, got.RecommendedScenarios)
}

func TestSummarizeAveragesAndCounts(t *testing.T) {
	t.Parallel()

	s := session(catalog.ScenarioKeepingItGoing,
		partnerMsg(1),
		userMsg(2, domain.Metrics{Tone: 70, Clarity: 50, Engagement: 71},
			domain.FeedbackItem{Type: domain.ItemSuccess},
			domain.FeedbackItem{Type: domain.ItemTip},
		),
		partnerMsg(3),
		userMsg(4, domain.Metrics{Tone: 71, Clarity: 60, Engagement: 70},
			domain.FeedbackItem{Type: domain.ItemWarning},
			domain.FeedbackItem{Type: domain.ItemSuccess},
		),
	)

	got := Summarize(catalog.Default(), s)

	// 70.5 → 71, 55, 70.5 → 71; overall mean of unrounded = 196/3 = 65.33.
	assert.Equal(t, domain.AverageScores{Tone: 71, Clarity: 55, Engagement: 71, Overall: 65}, got.AverageScores)
	assert.Equal(t, domain.FeedbackCounts{Successes: 2, Warnings: 1, Tips: 1}, got.FeedbackCounts)
	assert.Equal(t, []string{strengthText[domain.CategoryTone], strengthText[domain.CategoryEngagement]}, got.Strengths)
	assert.Equal(t, []string{improvementText[domain.CategoryClarity]}, got.Improvements)
	assert.Empty(t, got.RecommendedScenarios)
}

func TestSummarizeRecommendations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		scenario string
		metrics  domain.Metrics
		want     []string
	}{
		{
			name:     "low engagement",
			scenario: catalog.ScenarioKeepingItGoing,
			metrics:  domain.Metrics{Tone: 50, Clarity: 50, Engagement: 30},
			want:     []string{catalog.ScenarioDeeperConversation},
		},
		{
			name:     "opening line with low engagement",
			scenario: catalog.ScenarioOpeningLine,
			metrics:  domain.Metrics{Tone: 50, Clarity: 70, Engagement: 30},
			want:     []string{catalog.ScenarioDeeperConversation, catalog.ScenarioAskingForDate},
		},
		{
			name:     "warm tone",
			scenario: catalog.ScenarioOpeningLine,
			metrics:  domain.Metrics{Tone: 90, Clarity: 70, Engagement: 90},
			want:     []string{catalog.ScenarioFlirtingPractice, catalog.ScenarioAskingForDate},
		},
		{
			name:     "already flirting",
			scenario: catalog.ScenarioFlirtingPractice,
			metrics:  domain.Metrics{Tone: 90, Clarity: 70, Engagement: 90},
			want:     []string{},
		},
		{
			name:     "tone exactly 80",
			scenario: catalog.ScenarioKeepingItGoing,
			metrics:  domain.Metrics{Tone: 80, Clarity: 70, Engagement: 60},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Summarize(catalog.Default(), session(tt.scenario, userMsg(1, tt.metrics)))
			assert.Equal(t, tt.want, ids(got.RecommendedScenarios))
		})
	}
}

func TestSummarizeOmitsScenariosMissingFromCatalog(t *testing.T) {
	t.Parallel()

	cat := catalog.New([]domain.Scenario{{ID: catalog.ScenarioAskingForDate, Name: "Ask"}}, nil)
	s := session(catalog.ScenarioOpeningLine, userMsg(1, domain.Metrics{Tone: 50, Clarity: 50, Engagement: 20}))

	got := Summarize(cat, s)

	require.Len(t, got.RecommendedScenarios, 1)
	assert.Equal(t, "Ask", got.RecommendedScenarios[0].Name)
}

func TestSummarizeDoesNotMutateSession(t *testing.T) {
	t.Parallel()

	s := session(catalog.ScenarioOpeningLine, userMsg(1, domain.Metrics{Tone: 40, Clarity: 40, Engagement: 40}))
	before := s.Clone()

	_ = Summarize(catalog.Default(), s)

	assert.Equal(t, before, s)
}

func TestStrengthThresholdBoundary(t *testing.T) {
	t.Parallel()

	got := Summarize(catalog.Default(), session(catalog.ScenarioKeepingItGoing,
		userMsg(1, domain.Metrics{Tone: 60, Clarity: 59, Engagement: 60})))

	assert.Len(t, got.Strengths, 2)
	assert.Equal(t, []string{improvementText[domain.CategoryClarity]}, got.Improvements)
}

func TestThresholdsUseUnroundedMeans(t *testing.T) {
	t.Parallel()

	// Means: tone 80.33 (rounds to 80), clarity 59.67 (rounds to 60), engagement 59.67.
	got := Summarize(catalog.Default(), session(catalog.ScenarioKeepingItGoing,
		userMsg(1, domain.Metrics{Tone: 80, Clarity: 59, Engagement: 59}),
		userMsg(2, domain.Metrics{Tone: 80, Clarity: 60, Engagement: 60}),
		userMsg(3, domain.Metrics{Tone: 81, Clarity: 60, Engagement: 60}),
	))

	assert.Equal(t, 80, got.AverageScores.Tone)
	assert.Equal(t, 60, got.AverageScores.Clarity)
	assert.Equal(t, 60, got.AverageScores.Engagement)
	assert.Equal(t, []string{strengthText[domain.CategoryTone]}, got.Strengths)
	assert.Equal(t, []string{
		improvementText[domain.CategoryClarity],
		improvementText[domain.CategoryEngagement],
	}, got.Improvements)
	assert.Equal(t, []string{catalog.ScenarioDeeperConversation, catalog.ScenarioFlirtingPractice}, ids(got.RecommendedScenarios))
}

func TestSummarizeConsistentHighTone(t *testing.T) {
	t.Parallel()

	s := session(catalog.ScenarioKeepingItGoing,
		userMsg(1, domain.Metrics{Tone: 90, Clarity: 70, Engagement: 70}),
		partnerMsg(2),
		userMsg(3, domain.Metrics{Tone: 90, Clarity: 70, Engagement: 70}),
		partnerMsg(4),
		userMsg(5, domain.Metrics{Tone: 90, Clarity: 70, Engagement: 70}),
	)

	got := Summarize(catalog.Default(), s)

	assert.Equal(t, 90, got.AverageScores.Tone)
	assert.Contains(t, got.Strengths, strengthText[domain.CategoryTone])
	assert.NotContains(t, got.Improvements, improvementText[domain.CategoryTone])
}

func TestSummarizeIsIdempotent(t *testing.T) {
	t.Parallel()

	s := session(catalog.ScenarioOpeningLine,
		userMsg(1, domain.Metrics{Tone: 75, Clarity: 40, Engagement: 55},
			domain.FeedbackItem{Type: domain.ItemTip}),
		partnerMsg(2),
		userMsg(3, domain.Metrics{Tone: 85, Clarity: 65, Engagement: 45},
			domain.FeedbackItem{Type: domain.ItemSuccess}),
	)

	first := Summarize(catalog.Default(), s)
	second := Summarize(catalog.Default(), s)

	assert.Equal(t, first, second)
}

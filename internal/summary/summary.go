// Package summary builds the end-of-session report.
package summary

import (
	"math"

	"github.com/ashureev/practice-coach/internal/catalog"
	"github.com/ashureev/practice-coach/internal/domain"
)

// StrengthThreshold is the mean score at or above which a category counts as a strength.
// Thresholds compare the unrounded means, not the reported rounded averages.
const StrengthThreshold = 60

var (
	strengthText = map[domain.Category]string{
		domain.CategoryTone:       "Your tone was warm and positive",
		domain.CategoryClarity:    "Your messages were clear and easy to follow",
		domain.CategoryEngagement: "You kept the conversation engaging",
	}
	improvementText = map[domain.Category]string{
		domain.CategoryTone:       "Work on a friendlier, more positive tone",
		domain.CategoryClarity:    "Aim for messages that are concise but complete",
		domain.CategoryEngagement: "Ask more open-ended questions and share more about yourself",
	}
	scoredCategories = []domain.Category{
		domain.CategoryTone,
		domain.CategoryClarity,
		domain.CategoryEngagement,
	}
)

// Summarize computes the report for a session. It reads the catalog only to
// resolve recommended scenario ids and never mutates the session.
func Summarize(cat *catalog.Catalog, s domain.Session) domain.SessionSummary {
	out := domain.SessionSummary{
		SessionID:            s.ID,
		Strengths:            []string{},
		Improvements:         []string{},
		RecommendedScenarios: []domain.Scenario{},
	}

	n := 0
	var toneSum, claritySum, engSum float64
	for _, m := range s.Messages {
		if m.Sender != domain.SenderUser || m.Feedback == nil {
			continue
		}
		n++
		toneSum += float64(m.Feedback.Metrics.Tone)
		claritySum += float64(m.Feedback.Metrics.Clarity)
		engSum += float64(m.Feedback.Metrics.Engagement)
		out.FeedbackCounts.Successes += m.Feedback.Count(domain.ItemSuccess)
		out.FeedbackCounts.Warnings += m.Feedback.Count(domain.ItemWarning)
		out.FeedbackCounts.Tips += m.Feedback.Count(domain.ItemTip)
	}
	if n == 0 {
		return out
	}

	m := means{
		tone:       toneSum / float64(n),
		clarity:    claritySum / float64(n),
		engagement: engSum / float64(n),
	}
	out.AverageScores = domain.AverageScores{
		Tone:       round(m.tone),
		Clarity:    round(m.clarity),
		Engagement: round(m.engagement),
		Overall:    round((m.tone + m.clarity + m.engagement) / 3),
	}

	for _, c := range scoredCategories {
		if m.of(c) >= StrengthThreshold {
			out.Strengths = append(out.Strengths, strengthText[c])
		} else {
			out.Improvements = append(out.Improvements, improvementText[c])
		}
	}

	out.RecommendedScenarios = recommend(cat, s.Scenario.ID, m)
	return out
}

// means holds the per-category arithmetic means before rounding.
type means struct {
	tone, clarity, engagement float64
}

func (m means) of(c domain.Category) float64 {
	switch c {
	case domain.CategoryTone:
		return m.tone
	case domain.CategoryClarity:
		return m.clarity
	case domain.CategoryEngagement:
		return m.engagement
	}
	return 0
}

func recommend(cat *catalog.Catalog, scenarioID string, m means) []domain.Scenario {
	var ids []string
	if m.engagement < StrengthThreshold {
		ids = append(ids, catalog.ScenarioDeeperConversation)
	}
	if m.tone > 80 && scenarioID != catalog.ScenarioFlirtingPractice {
		ids = append(ids, catalog.ScenarioFlirtingPractice)
	}
	if scenarioID == catalog.ScenarioOpeningLine {
		ids = append(ids, catalog.ScenarioAskingForDate)
	}

	out := []domain.Scenario{}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if cat == nil {
			continue
		}
		sc, err := cat.Scenario(id)
		if err != nil {
			continue
		}
		out = append(out, sc)
	}
	return out
}

func round(v float64) int {
	return int(math.Round(v))
}

// Package feedback scores a single practice message against a fixed heuristic rubric.
package feedback

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ashureev/practice-coach/internal/domain"
)

// Rule names attached to emitted feedback items.
const (
	RuleLength         = "length"
	RuleQuestion       = "question"
	RuleSentiment      = "sentiment"
	RuleSelfDisclosure = "self_disclosure"
	RuleEmoji          = "emoji"
)

const (
	baseline       = 50
	minLength      = 10
	maxLength      = 200
	enthusiasmHits = 3
)

var (
	openQuestionPattern = regexp.MustCompile(`(?i)\b(what|how|why|where|when|which|tell me about|describe|explain)\b`)
	yesNoPattern        = regexp.MustCompile(`(?i)^\s*(do|does|did|are|is|was|were|can|could|would|will|have|has|should|may|want)\b`)
)

var (
	positiveWords = wordSet("love", "great", "awesome", "amazing", "fun", "happy", "enjoy", "excited",
		"wonderful", "beautiful", "interesting", "cool", "nice", "glad", "fantastic", "favorite")
	negativeWords = wordSet("hate", "boring", "bad", "terrible", "awful", "annoying", "stupid",
		"worst", "sad", "ugh", "whatever")
	firstPersonWords = wordSet("i", "i'm", "i've", "i'd", "i'll", "me", "my", "mine", "myself")
)

func wordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// Analyze scores content for the given scenario and persona.
// It is pure: identical inputs always produce identical output, items in rule order.
func Analyze(content string, scenario domain.Scenario, persona domain.Persona) domain.FeedbackResult {
	s := &scorer{metrics: domain.Metrics{
		Tone:            baseline,
		Clarity:         baseline,
		Engagement:      baseline,
		Appropriateness: baseline,
	}}
	tokens := tokenize(content)

	s.checkLength(content, scenario)
	s.checkQuestions(content, persona)
	s.checkSentiment(tokens)
	s.checkSelfDisclosure(tokens)
	s.checkEmoji(content, persona)

	s.metrics.Tone = clamp(s.metrics.Tone)
	s.metrics.Clarity = clamp(s.metrics.Clarity)
	s.metrics.Engagement = clamp(s.metrics.Engagement)
	s.metrics.Appropriateness = clamp(s.metrics.Appropriateness)

	return domain.FeedbackResult{Metrics: s.metrics, Items: s.items}
}

type scorer struct {
	metrics domain.Metrics
	items   []domain.FeedbackItem
}

func (s *scorer) emit(t domain.ItemType, c domain.Category, rule, msg, suggestion string) {
	s.items = append(s.items, domain.FeedbackItem{
		Type:       t,
		Category:   c,
		Rule:       rule,
		Message:    msg,
		Suggestion: suggestion,
	})
}

func (s *scorer) checkLength(content string, scenario domain.Scenario) {
	n := utf8.RuneCountInString(content)
	switch {
	case n < minLength:
		s.metrics.Engagement -= 20
		suggestion := "Add a bit more so they have something to respond to."
		if scenario.ID == "opening_line" {
			suggestion = "Mention something specific from their profile to give them an easy way in."
		}
		s.emit(domain.ItemWarning, domain.CategoryEngagement, RuleLength,
			"Your message is too short to spark much of a reply.", suggestion)
	case n > maxLength:
		s.metrics.Clarity -= 10
		s.emit(domain.ItemTip, domain.CategoryClarity, RuleLength,
			"Your message is a bit long.",
			"Split it up or trim it so the main point stands out.")
	default:
		s.metrics.Engagement += 20
		s.metrics.Clarity += 20
		s.emit(domain.ItemSuccess, domain.CategoryEngagement, RuleLength,
			"Good message length: enough to show interest without overwhelming.", "")
	}
}

func (s *scorer) checkQuestions(content string, persona domain.Persona) {
	if openQuestionPattern.MatchString(content) {
		s.metrics.Engagement += 30
		s.emit(domain.ItemSuccess, domain.CategoryEngagement, RuleQuestion,
			"Great open-ended question! It invites a real answer.", "")
		return
	}
	if strings.Contains(content, "?") || yesNoPattern.MatchString(content) {
		s.metrics.Engagement -= 10
		s.emit(domain.ItemTip, domain.CategoryEngagement, RuleQuestion,
			"Yes/no questions tend to stall a conversation.",
			openQuestionSuggestion(persona))
	}
}

func openQuestionSuggestion(persona domain.Persona) string {
	if len(persona.Interests) > 0 {
		return fmt.Sprintf("Try an open-ended version, like \"What do you enjoy most about %s?\"", persona.Interests[0])
	}
	return "Try starting with what, how or why so they can tell you more."
}

func (s *scorer) checkSentiment(tokens []string) {
	pos, neg := 0, 0
	for _, t := range tokens {
		if _, ok := positiveWords[t]; ok {
			pos++
		}
		if _, ok := negativeWords[t]; ok {
			neg++
		}
	}
	if pos > neg {
		s.metrics.Tone += 25
		if pos >= enthusiasmHits {
			s.emit(domain.ItemSuccess, domain.CategoryTone, RuleSentiment,
				"Your enthusiasm comes through. Positive energy is attractive!", "")
		}
	}
	if neg > 0 {
		s.metrics.Tone -= 20
		s.emit(domain.ItemWarning, domain.CategoryTone, RuleSentiment,
			"Some of your wording reads as negative.",
			"Reframe it around what you enjoy rather than what you dislike.")
	}
}

func (s *scorer) checkSelfDisclosure(tokens []string) {
	hits := 0
	for _, t := range tokens {
		if _, ok := firstPersonWords[t]; ok {
			hits++
		}
	}
	if hits > 0 {
		s.metrics.Engagement += 15
		s.emit(domain.ItemSuccess, domain.CategoryEngagement, RuleSelfDisclosure,
			"Nice job sharing something about yourself. It builds connection.", "")
	}
}

func (s *scorer) checkEmoji(content string, persona domain.Persona) {
	if countEmoji(content) == 0 {
		return
	}
	if persona.ResponseStyle.IsReserved() {
		s.metrics.Appropriateness -= 5
		s.emit(domain.ItemTip, domain.CategoryAppropriateness, RuleEmoji,
			fmt.Sprintf("%s keeps things low-key, so emoji can feel like a lot.", nameOr(persona, "They")),
			"Dial the emoji back until they start using them too.")
		return
	}
	s.metrics.Tone += 10
	s.metrics.Appropriateness += 10
}

func nameOr(p domain.Persona, fallback string) string {
	if p.Name != "" {
		return p.Name
	}
	return fallback
}

// tokenize lowercases content and splits it into words, keeping apostrophes.
func tokenize(content string) []string {
	lower := strings.ToLower(strings.ReplaceAll(content, "’", "'"))
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func countEmoji(content string) int {
	n := 0
	for _, r := range content {
		if isEmoji(r) {
			n++
		}
	}
	return n
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // pictographs, emoticons, transport, supplemental
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators
		return true
	}
	return false
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

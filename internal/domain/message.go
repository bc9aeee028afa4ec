package domain

import "time"

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser    Sender = "user"
	SenderPartner Sender = "partner"
)

// ItemType is the severity of a feedback item.
type ItemType string

const (
	ItemSuccess ItemType = "success"
	ItemWarning ItemType = "warning"
	ItemTip     ItemType = "tip"
)

// Category is a scored dimension of a message.
type Category string

const (
	CategoryTone            Category = "tone"
	CategoryClarity         Category = "clarity"
	CategoryEngagement      Category = "engagement"
	CategoryAppropriateness Category = "appropriateness"
)

// Metrics holds per-category scores in [0, 100].
type Metrics struct {
	Tone            int `json:"tone"`
	Clarity         int `json:"clarity"`
	Engagement      int `json:"engagement"`
	Appropriateness int `json:"appropriateness"`
}

// Get returns the score for a category.
func (m Metrics) Get(c Category) int {
	switch c {
	case CategoryTone:
		return m.Tone
	case CategoryClarity:
		return m.Clarity
	case CategoryEngagement:
		return m.Engagement
	case CategoryAppropriateness:
		return m.Appropriateness
	}
	return 0
}

// FeedbackItem is one piece of advice attached to a user message.
type FeedbackItem struct {
	Type       ItemType `json:"type"`
	Category   Category `json:"category"`
	Rule       string   `json:"rule"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// FeedbackResult is the analyzer output for a single user message.
type FeedbackResult struct {
	Metrics Metrics        `json:"metrics"`
	Items   []FeedbackItem `json:"items"`
}

// Count returns how many items of the given type the result carries.
func (f FeedbackResult) Count(t ItemType) int {
	n := 0
	for _, it := range f.Items {
		if it.Type == t {
			n++
		}
	}
	return n
}

func (f *FeedbackResult) clone() *FeedbackResult {
	if f == nil {
		return nil
	}
	out := *f
	out.Items = append([]FeedbackItem(nil), f.Items...)
	return &out
}

// Message is a single chat line in a practice session.
// Feedback is set for user messages and nil for partner messages.
type Message struct {
	ID        int64           `json:"id"`
	Sender    Sender          `json:"sender"`
	Content   string          `json:"content"`
	Timestamp time.Time       `json:"timestamp"`
	Feedback  *FeedbackResult `json:"feedback,omitempty"`
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	m.Feedback = m.Feedback.clone()
	return m
}

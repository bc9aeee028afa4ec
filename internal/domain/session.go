package domain

import "time"

// SessionStatus is the lifecycle state of a practice session.
type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionEnded  SessionStatus = "ended"
)

// SessionMetrics holds the rolling scores of a session.
// MessagesCount counts user messages only.
type SessionMetrics struct {
	MessagesCount   int `json:"messages_count"`
	ToneScore       int `json:"tone_score"`
	ClarityScore    int `json:"clarity_score"`
	EngagementScore int `json:"engagement_score"`
}

// Session is one continuous practice conversation.
type Session struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Scenario  Scenario       `json:"scenario"`
	Persona   Persona        `json:"persona"`
	Messages  []Message      `json:"messages"`
	Metrics   SessionMetrics `json:"metrics"`
	Status    SessionStatus  `json:"status"`
	StartTime time.Time      `json:"start_time"`
	EndTime   *time.Time     `json:"end_time,omitempty"`
	Duration  time.Duration  `json:"duration"`
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	out := s
	out.Messages = make([]Message, len(s.Messages))
	for i, m := range s.Messages {
		out.Messages[i] = m.Clone()
	}
	if s.EndTime != nil {
		t := *s.EndTime
		out.EndTime = &t
	}
	return out
}

// UserMessages returns the messages sent by the user, in order.
func (s Session) UserMessages() []Message {
	var out []Message
	for _, m := range s.Messages {
		if m.Sender == SenderUser {
			out = append(out, m)
		}
	}
	return out
}

// LastActivity returns the timestamp of the newest message, or StartTime if there is none.
func (s Session) LastActivity() time.Time {
	if n := len(s.Messages); n > 0 {
		return s.Messages[n-1].Timestamp
	}
	return s.StartTime
}

// AverageScores are whole-session means, rounded to integers.
type AverageScores struct {
	Tone       int `json:"tone"`
	Clarity    int `json:"clarity"`
	Engagement int `json:"engagement"`
	Overall    int `json:"overall"`
}

// FeedbackCounts tallies feedback item types across a session.
type FeedbackCounts struct {
	Successes int `json:"successes"`
	Warnings  int `json:"warnings"`
	Tips      int `json:"tips"`
}

// SessionSummary is the end-of-session report.
type SessionSummary struct {
	SessionID            string         `json:"session_id"`
	AverageScores        AverageScores  `json:"average_scores"`
	FeedbackCounts       FeedbackCounts `json:"feedback_counts"`
	Strengths            []string       `json:"strengths"`
	Improvements         []string       `json:"improvements"`
	RecommendedScenarios []Scenario     `json:"recommended_scenarios"`
}

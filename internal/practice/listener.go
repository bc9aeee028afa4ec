package practice

import "github.com/ashureev/practice-coach/internal/domain"

// Listener receives presentation events. Calls are made without engine locks
// held, from the calling goroutine or from the session's reply dispatcher.
type Listener interface {
	PartnerTyping(userID, sessionID string, typing bool)
	MessageAppended(userID, sessionID string, msg domain.Message)
	SessionEnded(userID string, summary domain.SessionSummary)
}

// NopListener discards every event.
type NopListener struct{}

func (NopListener) PartnerTyping(string, string, bool)             {}
func (NopListener) MessageAppended(string, string, domain.Message) {}
func (NopListener) SessionEnded(string, domain.SessionSummary)     {}

// Listeners fans events out to each listener in order.
type Listeners []Listener

func (ls Listeners) PartnerTyping(userID, sessionID string, typing bool) {
	for _, l := range ls {
		l.PartnerTyping(userID, sessionID, typing)
	}
}

func (ls Listeners) MessageAppended(userID, sessionID string, msg domain.Message) {
	for _, l := range ls {
		l.MessageAppended(userID, sessionID, msg.Clone())
	}
}

func (ls Listeners) SessionEnded(userID string, summary domain.SessionSummary) {
	for _, l := range ls {
		l.SessionEnded(userID, summary)
	}
}

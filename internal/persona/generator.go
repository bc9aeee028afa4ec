// Package persona produces the synthetic partner's side of a practice conversation.
package persona

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/ashureev/practice-coach/internal/domain"
)

// Source is the subset of *rand.Rand the generator needs.
type Source interface {
	IntN(n int) int
}

// NewSeededSource returns a deterministic source for the given seed.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ReplyInput is the conversation state a reply is generated from.
type ReplyInput struct {
	LastUserMessage string
	Persona         domain.Persona
	Scenario        domain.Scenario
	Turn            int
}

// Generator selects openers and replies from template tables.
// It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	src Source
}

// NewGenerator creates a generator. A nil source falls back to a fixed seed.
func NewGenerator(src Source) *Generator {
	if src == nil {
		src = NewSeededSource(1)
	}
	return &Generator{src: src}
}

// Opening returns the partner's first message for a scenario and persona.
func (g *Generator) Opening(scenario domain.Scenario, p domain.Persona) string {
	if text, ok := openers[openerKey(scenario.ID, p.ID)]; ok {
		return text
	}
	if text, ok := openers[openerKey(scenario.ID, "")]; ok {
		return text
	}
	return genericOpener
}

// Reply returns the partner's answer to the latest user message.
func (g *Generator) Reply(in ReplyInput) string {
	if interest, ok := mentionedInterest(in.LastUserMessage, in.Persona); ok {
		return fmt.Sprintf(g.pick(interestReplies), interest)
	}

	pool, ok := replies[in.Persona.ID]
	if !ok {
		pool = stylePool(in.Persona.ResponseStyle)
	}
	if strings.Contains(in.LastUserMessage, "?") {
		if answers, ok := questionReplies[in.Persona.ID]; ok {
			pool = answers
		}
	}
	return g.pick(pool)
}

// IntN exposes the underlying source under the generator's lock.
func (g *Generator) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.src.IntN(n)
}

func (g *Generator) pick(pool []string) string {
	if len(pool) == 0 {
		pool = genericReplies
	}
	return pool[g.IntN(len(pool))]
}

func mentionedInterest(msg string, p domain.Persona) (string, bool) {
	lower := strings.ToLower(msg)
	for _, interest := range p.Interests {
		if interest != "" && strings.Contains(lower, strings.ToLower(interest)) {
			return interest, true
		}
	}
	return "", false
}

func stylePool(style domain.ResponseStyle) []string {
	switch style {
	case domain.StyleEnthusiastic:
		return replies["adventurous"]
	case domain.StylePlayful:
		return replies["humorous"]
	case domain.StyleThoughtful:
		return replies["intellectual"]
	case domain.StyleMeasured, domain.StyleReserved:
		return replies["reserved"]
	}
	return genericReplies
}

func openerKey(scenarioID, personaID string) string {
	return scenarioID + "/" + personaID
}

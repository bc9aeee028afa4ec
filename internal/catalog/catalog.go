// Package catalog holds the immutable scenario and persona lookup tables.
package catalog

import (
	"fmt"

	"github.com/ashureev/practice-coach/internal/domain"
)

// Well-known scenario ids referenced by the summary recommendations.
const (
	ScenarioOpeningLine        = "opening_line"
	ScenarioKeepingItGoing     = "keeping_it_going"
	ScenarioDeeperConversation = "deeper_conversation"
	ScenarioFlirtingPractice   = "flirting_practice"
	ScenarioAskingForDate      = "asking_for_date"
	ScenarioHandlingRejection  = "handling_rejection"
)

// Catalog is a read-only set of scenarios and personas.
// It is built once and never mutated, so it is safe for concurrent readers.
type Catalog struct {
	scenarios     []domain.Scenario
	personas      []domain.Persona
	scenarioIndex map[string]int
	personaIndex  map[string]int
}

// New builds a catalog from the given tables. Later duplicates of an id are ignored.
func New(scenarios []domain.Scenario, personas []domain.Persona) *Catalog {
	c := &Catalog{
		scenarioIndex: make(map[string]int, len(scenarios)),
		personaIndex:  make(map[string]int, len(personas)),
	}
	for _, s := range scenarios {
		if _, dup := c.scenarioIndex[s.ID]; dup {
			continue
		}
		c.scenarioIndex[s.ID] = len(c.scenarios)
		c.scenarios = append(c.scenarios, cloneScenario(s))
	}
	for _, p := range personas {
		if _, dup := c.personaIndex[p.ID]; dup {
			continue
		}
		c.personaIndex[p.ID] = len(c.personas)
		c.personas = append(c.personas, clonePersona(p))
	}
	return c
}

// Default returns a catalog loaded with the built-in scenarios and personas.
func Default() *Catalog {
	return New(defaultScenarios, defaultPersonas)
}

// Scenarios lists every scenario in catalog order.
func (c *Catalog) Scenarios() []domain.Scenario {
	out := make([]domain.Scenario, len(c.scenarios))
	for i, s := range c.scenarios {
		out[i] = cloneScenario(s)
	}
	return out
}

// Personas lists every persona in catalog order.
func (c *Catalog) Personas() []domain.Persona {
	out := make([]domain.Persona, len(c.personas))
	for i, p := range c.personas {
		out[i] = clonePersona(p)
	}
	return out
}

// Scenario looks up a scenario by id.
func (c *Catalog) Scenario(id string) (domain.Scenario, error) {
	i, ok := c.scenarioIndex[id]
	if !ok {
		return domain.Scenario{}, fmt.Errorf("scenario %q: %w", id, domain.ErrNotFound)
	}
	return cloneScenario(c.scenarios[i]), nil
}

// Persona looks up a persona by id.
func (c *Catalog) Persona(id string) (domain.Persona, error) {
	i, ok := c.personaIndex[id]
	if !ok {
		return domain.Persona{}, fmt.Errorf("persona %q: %w", id, domain.ErrNotFound)
	}
	return clonePersona(c.personas[i]), nil
}

func cloneScenario(s domain.Scenario) domain.Scenario {
	s.Goals = append([]string(nil), s.Goals...)
	return s
}

func clonePersona(p domain.Persona) domain.Persona {
	p.Traits = append([]string(nil), p.Traits...)
	p.Interests = append([]string(nil), p.Interests...)
	return p
}

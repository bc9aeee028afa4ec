package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/practice-coach/internal/domain"
)

func TestDefaultCatalogLookups(t *testing.T) {
	t.Parallel()

	c := Default()

	s, err := c.Scenario(ScenarioOpeningLine)
	require.NoError(t, err)
	assert.Equal(t, domain.DifficultyBeginner, s.Difficulty)

	p, err := c.Persona("humorous")
	require.NoError(t, err)
	assert.Equal(t, domain.StylePlayful, p.ResponseStyle)

	for _, id := range []string{ScenarioDeeperConversation, ScenarioFlirtingPractice, ScenarioAskingForDate} {
		_, err := c.Scenario(id)
		assert.NoError(t, err, id)
	}
}

func TestUnknownIDsReturnNotFound(t *testing.T) {
	t.Parallel()

	c := Default()

	_, err := c.Scenario("nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = c.Persona("nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListingReturnsCopies(t *testing.T) {
	t.Parallel()

	c := Default()
	list := c.Scenarios()
	require.NotEmpty(t, list)
	list[0].Goals[0] = "mutated"
	list[0].Name = "mutated"

	again, err := c.Scenario(list[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.Name)
	assert.NotEqual(t, "mutated", again.Goals[0])
}

func TestInjectedTablesAreIsolated(t *testing.T) {
	t.Parallel()

	a := New([]domain.Scenario{{ID: "only"}}, nil)
	b := Default()

	_, err := a.Scenario(ScenarioOpeningLine)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, a.Scenarios(), 1)
	assert.Greater(t, len(b.Scenarios()), 1)
	assert.Empty(t, a.Personas())
}

func TestDuplicateIDsKeepFirst(t *testing.T) {
	t.Parallel()

	c := New([]domain.Scenario{{ID: "x", Name: "first"}, {ID: "x", Name: "second"}}, nil)
	s, err := c.Scenario("x")
	require.NoError(t, err)
	assert.Equal(t, "first", s.Name)
	assert.Len(t, c.Scenarios(), 1)
}

package domain

// Difficulty grades a practice scenario.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// ResponseStyle describes how a persona tends to reply.
type ResponseStyle string

const (
	StyleEnthusiastic ResponseStyle = "enthusiastic"
	StyleMeasured     ResponseStyle = "measured"
	StylePlayful      ResponseStyle = "playful"
	StyleThoughtful   ResponseStyle = "thoughtful"
	StyleReserved     ResponseStyle = "reserved"
)

// IsReserved returns true for styles that react poorly to emoji-heavy messages.
func (s ResponseStyle) IsReserved() bool {
	return s == StyleMeasured || s == StyleReserved
}

// Scenario is a practice context with stated goals.
type Scenario struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	Context     string     `json:"context"`
	Goals       []string   `json:"goals"`
}

// Persona is a synthetic chat partner.
type Persona struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	Traits             []string      `json:"traits"`
	ResponseStyle      ResponseStyle `json:"response_style"`
	Interests          []string      `json:"interests"`
	CommunicationStyle string        `json:"communication_style"`
	AvatarRef          string        `json:"avatar_ref"`
}

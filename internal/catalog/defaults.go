package catalog

import "github.com/ashureev/practice-coach/internal/domain"

var defaultScenarios = []domain.Scenario{
	{
		ID:          ScenarioOpeningLine,
		Name:        "The Opening Line",
		Description: "Send the first message after a new match.",
		Difficulty:  domain.DifficultyBeginner,
		Context:     "You just matched and neither of you has said anything yet. Their profile mentions a few hobbies.",
		Goals: []string{
			"Reference something specific from their profile",
			"Ask a question that is easy to answer",
			"Keep it light and friendly",
		},
	},
	{
		ID:          ScenarioKeepingItGoing,
		Name:        "Keeping It Going",
		Description: "Keep a conversation alive after the first few messages.",
		Difficulty:  domain.DifficultyBeginner,
		Context:     "You have exchanged greetings and the replies are getting shorter.",
		Goals: []string{
			"Build on what they said instead of changing topic",
			"Share something about yourself",
			"Avoid one-word answers",
		},
	},
	{
		ID:          ScenarioDeeperConversation,
		Name:        "Going Deeper",
		Description: "Move from small talk to something more meaningful.",
		Difficulty:  domain.DifficultyIntermediate,
		Context:     "You have been chatting for a couple of days and the small talk is running dry.",
		Goals: []string{
			"Ask open-ended questions about values and experiences",
			"Reciprocate with your own stories",
			"Listen and follow up on details",
		},
	},
	{
		ID:          ScenarioFlirtingPractice,
		Name:        "Playful Flirting",
		Description: "Add some playful tension without being pushy.",
		Difficulty:  domain.DifficultyIntermediate,
		Context:     "The conversation is going well and there is a friendly, teasing vibe.",
		Goals: []string{
			"Use light teasing and compliments",
			"Read their reactions and match their energy",
			"Stay respectful",
		},
	},
	{
		ID:          ScenarioAskingForDate,
		Name:        "Asking for a Date",
		Description: "Turn a good conversation into a real meetup.",
		Difficulty:  domain.DifficultyAdvanced,
		Context:     "You have a good rapport and share a common interest that could become a date idea.",
		Goals: []string{
			"Suggest a concrete plan tied to a shared interest",
			"Make it easy to say yes or no",
			"Be confident, not pushy",
		},
	},
	{
		ID:          ScenarioHandlingRejection,
		Name:        "Handling a Soft No",
		Description: "Respond gracefully when they are not available.",
		Difficulty:  domain.DifficultyAdvanced,
		Context:     "You asked them out and they said they are busy this week.",
		Goals: []string{
			"Acknowledge without pressure",
			"Keep the door open",
			"Stay positive",
		},
	},
}

var defaultPersonas = []domain.Persona{
	{
		ID:                 "humorous",
		Name:               "Jamie",
		Traits:             []string{"witty", "sarcastic", "easygoing"},
		ResponseStyle:      domain.StylePlayful,
		Interests:          []string{"comedy", "board games", "tacos", "podcasts"},
		CommunicationStyle: "Quick jokes, playful banter and the occasional pun.",
		AvatarRef:          "avatars/jamie.png",
	},
	{
		ID:                 "adventurous",
		Name:               "Riley",
		Traits:             []string{"energetic", "spontaneous", "outdoorsy"},
		ResponseStyle:      domain.StyleEnthusiastic,
		Interests:          []string{"hiking", "travel", "climbing", "camping"},
		CommunicationStyle: "Excited, lots of exclamation marks, loves sharing stories.",
		AvatarRef:          "avatars/riley.png",
	},
	{
		ID:                 "intellectual",
		Name:               "Morgan",
		Traits:             []string{"curious", "analytical", "well-read"},
		ResponseStyle:      domain.StyleThoughtful,
		Interests:          []string{"books", "philosophy", "museums", "science"},
		CommunicationStyle: "Longer replies, asks why, enjoys a good tangent.",
		AvatarRef:          "avatars/morgan.png",
	},
	{
		ID:                 "reserved",
		Name:               "Avery",
		Traits:             []string{"calm", "private", "observant"},
		ResponseStyle:      domain.StyleMeasured,
		Interests:          []string{"coffee", "photography", "music", "cooking"},
		CommunicationStyle: "Short, polite replies that warm up slowly.",
		AvatarRef:          "avatars/avery.png",
	},
}

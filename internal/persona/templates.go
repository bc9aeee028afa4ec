package persona

const genericOpener = "Hey! Nice to match with you 😊"

var openers = map[string]string{
	openerKey("opening_line", "humorous"):     "Okay, I'll admit it: I matched with you purely for the dog in photo three. Convince me you're more interesting than the dog 😄",
	openerKey("opening_line", "adventurous"):  "Hey! Just got back from a sunrise hike and saw we matched 🌄",
	openerKey("opening_line", "intellectual"): "Hi there. I noticed we have a few things in common. How's your week going?",
	openerKey("opening_line", "reserved"):     "Hi.",
	openerKey("opening_line", ""):             "Hey there! So, what made you swipe right?",

	openerKey("keeping_it_going", ""):    "Haha yeah. So what else is new?",
	openerKey("deeper_conversation", ""): "I feel like we've covered the basics. What's something most people don't know about you?",
	openerKey("flirting_practice", ""):   "You know, you're pretty fun to talk to. Don't let it go to your head 😏",
	openerKey("asking_for_date", ""):     "This has been a really nice chat. I've been looking for an excuse to try that new place downtown...",
	openerKey("handling_rejection", ""):  "Ah, I'd love to but this week is really packed for me, sorry!",
}

var replies = map[string][]string{
	"humorous": {
		"Haha okay, that's actually pretty good 😂",
		"I'm going to pretend I didn't laugh at that.",
		"Bold move. I respect it.",
		"Plot twist: I was about to say the same thing.",
		"Okay, you get one point. Don't spend it all at once.",
	},
	"adventurous": {
		"That sounds amazing! I'm always looking for the next adventure!",
		"Oh I love that! Have you ever done anything spontaneous like that?",
		"No way, that's so cool! Tell me more!",
		"Honestly that makes me want to book a trip right now!",
		"Yes! Life's too short to stay home every weekend!",
	},
	"intellectual": {
		"That's an interesting way to look at it. What made you think of that?",
		"I hadn't considered that. I'll have to think about it.",
		"Fair point. I read something similar recently, actually.",
		"Hmm, I'm curious what led you there.",
		"That reminds me of a book I finished last month.",
	},
	"reserved": {
		"That's nice.",
		"Oh, cool.",
		"I see. What about you?",
		"Hmm, that's interesting.",
		"Yeah, I can relate to that a bit.",
	},
}

var questionReplies = map[string][]string{
	"humorous": {
		"Great question. My lawyer advised me not to answer 😄 Kidding, ask me again over tacos.",
		"Hmm, I'd say... it depends who's asking. You, apparently!",
	},
	"adventurous": {
		"Ooh good question! Probably the time I went camping in a thunderstorm!",
		"Definitely anything outdoors! What about you?",
	},
	"intellectual": {
		"That's a thoughtful question. I'd probably say curiosity drives most of what I do.",
		"Honestly, I've been thinking about that a lot lately. I'd say it changes over time.",
	},
	"reserved": {
		"Hmm, I'm not sure. Maybe. What about you?",
		"That's a good question. I'll have to think about it.",
	},
}

var interestReplies = []string{
	"Wait, you're into %s too? That's a great sign.",
	"Okay, now you're speaking my language. I love %s!",
	"Ha, %s? We're going to get along just fine.",
}

var genericReplies = []string{
	"That's interesting! Tell me more.",
	"Haha, I like that.",
	"Oh really? How so?",
	"Nice! What else do you like to do?",
}

package prompts

// ============================================================================
// Shared Lexicons
// ============================================================================

// TitlePatterns is the pool of title openers suggested to the model.
var TitlePatterns = []string{
	"Maturity is when",
	"Painful but true:",
	"Rules for 2025:",
	"The moment you realize",
	"Never ignore someone who",
	"Make money so you can",
	"At 25, you learn that",
	"At 30, you understand",
	"When my Dad said this:",
	"MAN VS WOMAN:",
	"Everything wants you when",
	"Literally my mind when someone says",
	"The hardest truth:",
	"Real talk:",
	"Life hits different when",
	"Nobody tells you that",
	"Growing up means",
	"Therapy taught me that",
	"Your 20s are for",
	"Stop romanticizing",
	"Normalize",
	"Red flag:",
	"Green flag:",
	"Toxic trait:",
	"Healthy habit:",
	"Mental health reminder:",
	"Boundaries 101:",
	"Self-love is",
	"Healing looks like",
	"Adulting means",
	"Plot twist:",
	"Unpopular opinion:",
	"Hot take:",
	"Daily reminder:",
	"Fun fact:",
	"PSA:",
	"Note to self:",
	"Learning to",
	"The art of",
	"Permission to",
	"Gentle reminder:",
	"Today I choose",
	"I'm learning that",
	"Recovery means",
	"Growth is",
	"Wisdom is",
	"Freedom is",
	"Peace is",
	"Strength is",
	"Courage is",
	"Love is",
}

// FormatAliases maps short format_preference keywords to full title patterns.
var FormatAliases = map[string]string{
	"maturity":   "Maturity is when",
	"painful":    "Painful but true:",
	"rules":      "Rules for 2025:",
	"moment":     "The moment you realize",
	"never":      "Never ignore someone who",
	"money":      "Make money so you can",
	"dad":        "When my Dad said this:",
	"comparison": "MAN VS WOMAN:",
}

// ThemeInspirations holds the content ideas offered to the model per concrete theme.
var ThemeInspirations = map[string][]string{
	"relationships": {
		"stop chasing people who treat you like an option",
		"recognize when someone is just using you for attention",
		"accept that not everyone will love you back the same way",
		"understand that real love doesn't require you to lose yourself",
		"know the difference between someone who wants you and someone who needs you",
		"stop making excuses for people who don't prioritize you",
		"realize that you can't force genuine connection",
	},
	"self-worth": {
		"stop seeking validation from people who don't even know themselves",
		"understand that your worth isn't determined by other people's opinions",
		"know that you don't need anyone's permission to be yourself",
		"realize that your energy is your most valuable currency",
		"stop dimming your light to make others comfortable",
		"accept that you are enough exactly as you are",
		"understand that self-love isn't selfish, it's necessary",
	},
	"boundaries": {
		"say no without feeling guilty about it",
		"protect your peace above all else",
		"remove people who drain your energy",
		"stop over-explaining your decisions to others",
		"understand that setting boundaries isn't mean, it's healthy",
		"know that you don't owe anyone your time or attention",
		"realize that toxic people will always test your limits",
	},
	"growth": {
		"embrace the journey instead of rushing the process",
		"understand that healing isn't linear",
		"accept that some chapters of your life need to end",
		"know that growth requires leaving your comfort zone",
		"realize that you can't heal in the same environment that hurt you",
		"understand that your past doesn't define your future",
		"accept that change is the only constant in life",
	},
	"money": {
		"build wealth to buy freedom, not things",
		"understand that financial independence is emotional freedom",
		"know that money problems are actually income problems",
		"realize that expensive doesn't always mean valuable",
		"invest in assets, not liabilities",
		"understand that saving is just as important as earning",
		"know that your net worth affects your self-worth",
	},
}

// VarietyPhrases nudges the model away from repeating itself.
var VarietyPhrases = []string{
	"Create a completely unique and fresh perspective that hasn't been seen before",
	"Generate something that feels authentic and personally relatable",
	"Make it feel deeply personal and genuine with original insights",
	"Ensure it sounds like authentic Gen Z language with fresh takes",
	"Focus on authentic emotional resonance with unique wisdom",
	"Create something screenshot-worthy with original perspective",
	"Generate fresh content that feels like a personal revelation",
}

// FallbackQuote is a canned title/content pair served when the model cannot be used.
type FallbackQuote struct {
	Title   string
	Content string
}

// FallbackQuotes holds one canned quote per theme. "mixed" doubles as the default.
var FallbackQuotes = map[string]FallbackQuote{
	"relationships": {
		Title:   "Maturity is when",
		Content: "you stop chasing people who only remember you when they need something.",
	},
	"self-worth": {
		Title:   "Daily reminder:",
		Content: "your worth doesn't drop because someone failed to see it.",
	},
	"money": {
		Title:   "Make money so you can",
		Content: "say no to things that cost you your peace.",
	},
	"boundaries": {
		Title:   "Boundaries 101:",
		Content: "no is a complete sentence. You don't owe anyone an explanation.",
	},
	"growth": {
		Title:   "Growing up means",
		Content: "outgrowing places, people and versions of yourself without apologizing.",
	},
	"mixed": {
		Title:   "Real talk:",
		Content: "protect your energy. Not everyone deserves access to you.",
	},
}

// Fallback returns the canned quote for a theme, or the mixed one when unknown.
func Fallback(theme string) FallbackQuote {
	if q, ok := FallbackQuotes[theme]; ok {
		return q
	}
	return FallbackQuotes["mixed"]
}

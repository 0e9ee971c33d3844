package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Theme is the subject area a quote is written about.
type Theme string

const (
	ThemeRelationships Theme = "relationships"
	ThemeSelfWorth     Theme = "self-worth"
	ThemeMoney         Theme = "money"
	ThemeBoundaries    Theme = "boundaries"
	ThemeGrowth        Theme = "growth"
	ThemeMixed         Theme = "mixed"
)

// Themes lists every accepted theme in display order.
var Themes = []Theme{
	ThemeRelationships,
	ThemeSelfWorth,
	ThemeMoney,
	ThemeBoundaries,
	ThemeGrowth,
	ThemeMixed,
}

// ConcreteThemes lists the themes that carry their own inspiration pool.
var ConcreteThemes = []Theme{
	ThemeRelationships,
	ThemeSelfWorth,
	ThemeBoundaries,
	ThemeGrowth,
	ThemeMoney,
}

// ParseTheme maps free-form input onto a known theme.
// Parameters:
//   - s: raw theme value from a request.
// Returns:
//   - Theme: the matching theme, or ThemeMixed when s is empty or unknown.
func ParseTheme(s string) Theme {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Themes {
		if t == known {
			return t
		}
	}
	return ThemeMixed
}

// IsValid reports whether t is one of the accepted themes.
func (t Theme) IsValid() bool {
	for _, known := range Themes {
		if t == known {
			return true
		}
	}
	return false
}

// Audience is the demographic a quote's language is tuned for.
type Audience string

const (
	AudienceGenZ         Audience = "gen-z"
	AudienceMillennials  Audience = "millennials"
	AudienceEmpaths      Audience = "empaths"
	AudienceIntroverts   Audience = "introverts"
	AudienceOverthinkers Audience = "overthinkers"
)

// Audiences lists every accepted audience.
var Audiences = []Audience{
	AudienceGenZ,
	AudienceMillennials,
	AudienceEmpaths,
	AudienceIntroverts,
	AudienceOverthinkers,
}

// ParseAudience maps free-form input onto a known audience, defaulting to gen-z.
func ParseAudience(s string) Audience {
	a := Audience(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Audiences {
		if a == known {
			return a
		}
	}
	return AudienceGenZ
}

// Engagement holds the popularity figures attached to a cached quote.
// The numbers are synthesized at generation time and are not measured.
type Engagement struct {
	Likes  int     `json:"likes"`
	Shares int     `json:"shares"`
	Score  float64 `json:"engagement_score"`
}

// TimestampLayout is RFC3339 with fixed millisecond precision, used for created_at.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Quote is a single generated quote. It is not modified after creation.
type Quote struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Theme          Theme      `json:"theme"`
	TargetAudience Audience   `json:"target_audience"`
	CreatedAt      time.Time  `json:"created_at"`
	Engagement     Engagement `json:"engagement"`
}

// Text returns the title and content joined the way they are rendered on images.
func (q *Quote) Text() string {
	return strings.TrimSpace(q.Title + " " + q.Content)
}

// MarshalJSON writes created_at in UTC with millisecond precision.
func (q Quote) MarshalJSON() ([]byte, error) {
	type plain Quote
	return json.Marshal(struct {
		plain
		CreatedAt string `json:"created_at"`
	}{plain: plain(q), CreatedAt: q.CreatedAt.UTC().Format(TimestampLayout)})
}

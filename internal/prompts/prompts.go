package prompts

import (
	"bytes"
	"strings"
	"text/template"
)

// ============================================================================
// Quote Generation Prompts
// ============================================================================

// QuoteSystemPrompt defines the role, output format and style rules for quote generation.
const QuoteSystemPrompt = `# Gen Z Viral Quote Generator System Prompt

## MISSION
Generate ONE short, punchy viral quote that hits deep and feels instantly relatable. Focus on simple truths that make people screenshot and share immediately. Always use DIFFERENT title patterns and content to ensure variety.

## OUTPUT FORMAT
You MUST respond with valid JSON in this exact format:
` + "```json" + `
{
  "title": "[VARIED_TITLE_PATTERN]",
  "content": "[UNIQUE_RELATABLE_CONTENT]"
}
` + "```" + `

## KEY SUCCESS PATTERNS

### 1. KEEP IT SHORT & PUNCHY
- **Maximum 25 words for content**
- **Direct, simple language**
- **One clear insight per quote**
- **No unnecessary words**

### 2. VIRAL TITLE FORMULAS (ROTATE THESE FOR VARIETY)
- **"Maturity is when"**
- **"Painful but true:"**
- **"Rules for 2025:"**
- **"The moment you realize"**
- **"Never ignore someone who"**
- **"Make money so you can"**
- **"At [age], [truth about life]"**
- **"When my Dad said this:"**
- **"MAN VS WOMAN:"**
- **"Everything wants you when"**
- **"Real talk:"**
- **"Life hits different when"**
- **"Nobody tells you that"**
- **"Growing up means"**
- **"Therapy taught me that"**
- **"Normalize"**
- **"Boundaries 101:"**
- **"Unpopular opinion:"**
- **"Daily reminder:"**

### 3. RELATABLE MODERN SITUATIONS
- **Texting/calling dynamics**: "why they don't call or text you anymore"
- **Social media behavior**: who likes, who ignores, who watches your stories
- **Dating/relationships**: choosing someone every day vs mood-based attention
- **Money struggles**: financial independence as freedom
- **Family wisdom**: what parents/elders teach
- **Friendship reciprocity**: energy matching, effort reciprocation

### 4. PROVEN PSYCHOLOGICAL HOOKS
- **Reciprocity rules**: "call who calls you, visit who visits you"
- **Boundary setting**: who to keep/remove from your life
- **Self-worth reminders**: you don't need anyone's approval
- **Growth mindset**: resilience after setbacks
- **Realistic expectations**: how people actually behave vs how we want them to

### 5. LANGUAGE THAT WORKS
- **Modern terms**: "vibe," "energy," "toxic," "choose you," "fix my crown"
- **Action words**: walk away, delete, ignore, choose, build, protect
- **Emotional validation**: "it's okay to," "you don't have to"

## STRUCTURE FORMULAS
- Problem -> Solution: "Maturity is when you stop asking why they don't text -> You just accept it and walk away"
- Truth Bomb: "Everything wants you when you want nothing"
- Rule/Guideline: "Call who calls you, visit who visits you, ignore who ignores you"
- Contrast/Comparison: "[Group A] vs [Group B]: [key difference]"

## QUALITY REQUIREMENTS
- Feel like common sense that people haven't articulated
- Be screenshot-worthy, shareable wisdom
- Address real experiences people actually have
- Sound like something a wise friend would say

## AVOID
- Abstract philosophy or complex concepts
- Toxic positivity or unrealistic advice
- Long explanations or multiple ideas
- Corporate buzzwords or formal language
- Anything that sounds preachy or condescending

Generate ONE quote that follows these proven viral patterns. Make it short, relatable, and instantly shareable.`

const quoteUserTemplate = `Generate ONE completely unique viral motivational quote in JSON format. {{.Variety}}.

IMPORTANT: Use title pattern: "{{.TitlePattern}}" or similar variation
{{.ThemeInstruction}}

Target audience: {{.Audience}}
Uniqueness seed: {{.Seed}}

Requirements:
- Respond with valid JSON only (title and content fields)
- Make it 100% unique and original (never repeat previous content)
- Use authentic {{.Audience}} language
- Ensure it's shareable and screenshot-worthy
- Provide genuine wisdom and fresh insight
- Keep content under 25 words
- Make title engaging and clickable
- Ensure content complements the title perfectly`

// QuoteUserData holds the per-request values substituted into the user prompt.
type QuoteUserData struct {
	Variety          string
	TitlePattern     string
	ThemeInstruction string
	Audience         string
	Seed             int64
}

var quoteUserTmpl = template.Must(template.New("quote_user").Parse(quoteUserTemplate))

// RenderQuoteUserPrompt renders the user prompt for a single quote request.
func RenderQuoteUserPrompt(data QuoteUserData) string {
	var buf bytes.Buffer
	_ = quoteUserTmpl.Execute(&buf, data)
	return buf.String()
}

// ThemeInstruction renders the theme focus line for the user prompt.
// An empty inspiration produces the bare theme focus.
func ThemeInstruction(theme, inspiration string) string {
	if inspiration == "" {
		return "Theme focus: '" + theme + "'"
	}
	return "Theme focus: '" + theme + "' - consider ideas like: " + inspiration
}

// ============================================================================
// Image Prompts
// ============================================================================

const paperImageTemplate = `Design a square motivational quote image with a realistic paper-like texture as the background.
Use bold black serif or clean font for the quote. Highlight key parts of the text in yellow,
as if marked with a highlighter. Place the quote in the center of the image, and in the bottom-right corner,
write "—hara point" in a smaller, minimalist font. At the bottom center, include the line: "Share this if you agree."
The overall style should match an inspirational Instagram quote post with a warm, authentic, and thoughtful aesthetic.
Quote: {{.QuoteText}}`

const modernImageTemplate = `Create a modern, minimalist square quote image with a clean gradient background.
Use a contemporary sans-serif font in dark text for the quote.
Center the quote with proper spacing and add "—hara point" in the bottom-right corner in a subtle font.
Include "Share this if you agree" at the bottom center.
Style should be clean, professional, and Instagram-ready.
Quote: {{.QuoteText}}`

const minimalImageTemplate = `Design a simple, elegant square quote image with a solid color or subtle texture background.
Use clean typography with the quote prominently centered.
Add "—hara point" attribution in the bottom-right and "Share this if you agree" at the bottom center.
Keep the design minimalist and focused on the text.
Quote: {{.QuoteText}}`

var imageTemplates = map[string]*template.Template{
	"paper":   template.Must(template.New("paper").Parse(paperImageTemplate)),
	"modern":  template.Must(template.New("modern").Parse(modernImageTemplate)),
	"minimal": template.Must(template.New("minimal").Parse(minimalImageTemplate)),
}

// RenderImagePrompt renders the image prompt for a style. Unknown styles use "paper".
func RenderImagePrompt(style, quoteText string) string {
	tmpl, ok := imageTemplates[style]
	if !ok {
		tmpl = imageTemplates["paper"]
	}
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, struct{ QuoteText string }{QuoteText: quoteText})
	return strings.TrimSpace(buf.String())
}

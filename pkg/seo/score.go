package seo

import (
	"strings"
)

// Score heuristics for blog drafts, 0-100. Each check contributes a fixed
// weight; the dashboard shows the per-check results next to the total.

const (
	TitleMinLen = 30
	TitleMaxLen = 65

	MetaMinLen = 120
	MetaMaxLen = 156

	MinContentWords = 600

	KeywordDensityMin = 0.5 // percent
	KeywordDensityMax = 2.5

	MinInternalLinks = 2
)

type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Weight int    `json:"weight"`
	Hint   string `json:"hint,omitempty"`
}

type Report struct {
	Score  int     `json:"score"`
	Checks []Check `json:"checks"`
}

type Draft struct {
	Title           string
	MetaDescription string
	Content         string
	Keywords        []string // primary keyword first
	InternalLinks   int
	HasCoverImage   bool
}

func Evaluate(d Draft) Report {
	words := strings.Fields(stripTags(d.Content))
	wordCount := len(words)

	primary := ""
	if len(d.Keywords) > 0 {
		primary = strings.ToLower(strings.TrimSpace(d.Keywords[0]))
	}

	checks := []Check{
		{
			Name:   "title_length",
			Weight: 15,
			Passed: len(d.Title) >= TitleMinLen && len(d.Title) <= TitleMaxLen,
			Hint:   "keep the title between 30 and 65 characters",
		},
		{
			Name:   "meta_description_length",
			Weight: 15,
			Passed: len(d.MetaDescription) >= MetaMinLen && len(d.MetaDescription) <= MetaMaxLen,
			Hint:   "keep the meta description between 120 and 156 characters",
		},
		{
			Name:   "content_length",
			Weight: 20,
			Passed: wordCount >= MinContentWords,
			Hint:   "write at least 600 words",
		},
		{
			Name:   "keyword_in_title",
			Weight: 10,
			Passed: primary != "" && strings.Contains(strings.ToLower(d.Title), primary),
			Hint:   "use the primary keyword in the title",
		},
		{
			Name:   "keyword_in_first_paragraph",
			Weight: 10,
			Passed: primary != "" && strings.Contains(strings.ToLower(firstParagraph(d.Content)), primary),
			Hint:   "mention the primary keyword in the opening paragraph",
		},
		{
			Name:   "keyword_density",
			Weight: 10,
			Passed: primary != "" && densityOK(words, primary),
			Hint:   "keep primary keyword density between 0.5% and 2.5%",
		},
		{
			Name:   "internal_links",
			Weight: 10,
			Passed: d.InternalLinks >= MinInternalLinks,
			Hint:   "link to at least 2 other pages on the site",
		},
		{
			Name:   "cover_image",
			Weight: 10,
			Passed: d.HasCoverImage,
			Hint:   "add a cover image",
		},
	}

	score := 0
	for _, c := range checks {
		if c.Passed {
			score += c.Weight
		}
	}

	return Report{Score: score, Checks: checks}
}

func densityOK(words []string, primary string) bool {
	if len(words) == 0 {
		return false
	}

	// multi-word keywords are counted on their first token
	token := strings.Fields(primary)[0]

	count := 0
	for _, w := range words {
		if strings.EqualFold(strings.Trim(w, ".,!?;:\"'()"), token) {
			count++
		}
	}

	density := float64(count) / float64(len(words)) * 100
	return density >= KeywordDensityMin && density <= KeywordDensityMax
}

func firstParagraph(content string) string {
	content = stripTags(content)
	for _, p := range strings.Split(content, "\n") {
		if strings.TrimSpace(p) != "" {
			return p
		}
	}
	return ""
}

// stripTags removes HTML tags well enough for word counting. Drafts come
// out of the generator as simple markup, not arbitrary HTML.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

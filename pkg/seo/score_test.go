package seo

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func checkByName(t *testing.T, r Report, name string) Check {
	t.Helper()
	for _, c := range r.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %s not found", name)
	return Check{}
}

// longContent builds a body with wordCount filler words, the keyword
// appearing keywordCount times spread through the text.
func longContent(keyword string, wordCount, keywordCount int) string {
	words := make([]string, 0, wordCount)
	for i := 0; i < wordCount; i++ {
		words = append(words, "property")
	}
	if keywordCount > 0 {
		step := wordCount / keywordCount
		for i := 0; i < keywordCount; i++ {
			words[i*step] = keyword
		}
	}
	return strings.Join(words, " ")
}

func TestEvaluateFullMarks(t *testing.T) {
	keyword := "phuket"
	content := keyword + " market overview\n\n" + longContent(keyword, 700, 7)

	report := Evaluate(Draft{
		Title:           "Phuket Property Market Outlook for Foreign Buyers",
		MetaDescription: strings.Repeat("Phuket condos and villas explained. ", 4), // 144 chars
		Content:         content,
		Keywords:        []string{keyword},
		InternalLinks:   3,
		HasCoverImage:   true,
	})

	assert.Equal(t, 100, report.Score)
	for _, c := range report.Checks {
		assert.True(t, c.Passed, "check %s should pass", c.Name)
	}
}

func TestEvaluateShortDraft(t *testing.T) {
	report := Evaluate(Draft{
		Title:           "Tips",
		MetaDescription: "Too short",
		Content:         "A couple of sentences only.",
		Keywords:        []string{"bangkok"},
	})

	assert.False(t, checkByName(t, report, "title_length").Passed)
	assert.False(t, checkByName(t, report, "meta_description_length").Passed)
	assert.False(t, checkByName(t, report, "content_length").Passed)
	assert.False(t, checkByName(t, report, "keyword_in_title").Passed)
	assert.False(t, checkByName(t, report, "internal_links").Passed)
	assert.False(t, checkByName(t, report, "cover_image").Passed)
	assert.Equal(t, 0, report.Score)
}

func TestEvaluateKeywordDensityBounds(t *testing.T) {
	keyword := "samui"

	// One mention in 1000 words is 0.1%, under the floor.
	sparse := Evaluate(Draft{
		Title:    "Koh Samui Living Guide: What Buyers Should Know",
		Content:  keyword + " intro\n" + longContent(keyword, 1000, 1),
		Keywords: []string{keyword},
	})
	assert.False(t, checkByName(t, sparse, "keyword_density").Passed)

	// 50 mentions in 1000 words is 5%, stuffing.
	stuffed := Evaluate(Draft{
		Title:    "Koh Samui Living Guide: What Buyers Should Know",
		Content:  longContent(keyword, 1000, 50),
		Keywords: []string{keyword},
	})
	assert.False(t, checkByName(t, stuffed, "keyword_density").Passed)
}

func TestEvaluateIgnoresMarkup(t *testing.T) {
	content := "<h2>Intro</h2>\n<p>" + longContent("chiangmai", 650, 6) + "</p>"
	report := Evaluate(Draft{
		Title:    "Chiangmai Homes and Condos: a Practical Buyer Guide",
		Content:  content,
		Keywords: []string{"chiangmai"},
	})

	assert.True(t, checkByName(t, report, "content_length").Passed)
	assert.True(t, checkByName(t, report, "keyword_density").Passed)
}

func TestApplyInternalLinks(t *testing.T) {
	content := "<p>Buying a condo in Phuket is popular. The condo market is active.</p>"
	links := map[string]string{
		"condo": "/guides/condos",
	}

	out, n := ApplyInternalLinks(content, links)
	assert.Equal(t, 1, n)
	assert.Contains(t, out, `<a href="/guides/condos">condo</a>`)
	// Only the first occurrence is linked.
	assert.Equal(t, 1, strings.Count(out, "<a href"))
}

func TestApplyInternalLinksSkipsExistingAnchors(t *testing.T) {
	content := `<p>See our <a href="/phuket">phuket page</a> for more.</p>`
	out, n := ApplyInternalLinks(content, map[string]string{"phuket": "/guides/phuket"})

	assert.Equal(t, 0, n)
	assert.Equal(t, content, out)
}

func TestApplyInternalLinksSkipsTagAttributes(t *testing.T) {
	content := `<img src="villa.jpg" alt="villa"> A villa with a pool.`
	out, n := ApplyInternalLinks(content, map[string]string{"villa": "/guides/villas"})

	assert.Equal(t, 1, n)
	// The attribute text stays untouched; the body occurrence is linked.
	assert.Contains(t, out, `<img src="villa.jpg" alt="villa">`)
	assert.Contains(t, out, `<a href="/guides/villas">villa</a>`)
}

func TestApplyInternalLinksCaseInsensitive(t *testing.T) {
	out, n := ApplyInternalLinks("Bangkok is huge.", map[string]string{"bangkok": "/bkk"})
	assert.Equal(t, 1, n)
	assert.Contains(t, out, `<a href="/bkk">Bangkok</a>`)
}

func TestApplyInternalLinksFoldsWithoutByteShift(t *testing.T) {
	// "İ" lowercases to a different byte length, which must not shift the
	// anchor span or cut a rune.
	content := "Our İstanbul desk covers Turkish buyers."
	out, n := ApplyInternalLinks(content, map[string]string{"istanbul": "/desks/istanbul"})

	assert.Equal(t, 1, n)
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, `<a href="/desks/istanbul">İstanbul</a>`)
	assert.Contains(t, out, " desk covers Turkish buyers.")
}

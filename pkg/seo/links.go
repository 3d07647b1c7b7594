package seo

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ApplyInternalLinks turns the first plain-text occurrence of each keyword
// into an anchor. Matching is case-insensitive and skips text that is
// already inside a tag or an existing anchor. Returns the rewritten
// content and the number of links inserted.
func ApplyInternalLinks(content string, links map[string]string) (string, int) {
	inserted := 0
	for keyword, target := range links {
		if keyword == "" || target == "" {
			continue
		}

		idx, n := findLinkable(content, keyword)
		if idx < 0 {
			continue
		}

		original := content[idx : idx+n]
		anchor := fmt.Sprintf(`<a href="%s">%s</a>`, target, original)
		content = content[:idx] + anchor + content[idx+n:]
		inserted++
	}
	return content, inserted
}

// findLinkable locates the first occurrence of keyword that is not inside
// a tag or anchor body. Case folding is done per rune, so the matched span
// can differ in byte length from the keyword itself. Returns the byte
// offset and span length, or -1 when none exists.
func findLinkable(content, keyword string) (int, int) {
	for idx := 0; idx < len(content); {
		_, size := utf8.DecodeRuneInString(content[idx:])

		if n := matchFoldLen(content[idx:], keyword); n > 0 &&
			!insideTag(content, idx) && !insideAnchor(content, idx) {
			return idx, n
		}

		idx += size
	}
	return -1, 0
}

// matchFoldLen reports the byte length of the prefix of s that equals key
// under per-rune case folding, or -1 when s does not start with key.
func matchFoldLen(s, key string) int {
	si := 0
	for _, kr := range key {
		if si >= len(s) {
			return -1
		}
		sr, size := utf8.DecodeRuneInString(s[si:])
		if unicode.ToLower(sr) != unicode.ToLower(kr) {
			return -1
		}
		si += size
	}
	return si
}

func insideTag(content string, idx int) bool {
	open := strings.LastIndex(content[:idx], "<")
	if open < 0 {
		return false
	}
	closeIdx := strings.LastIndex(content[:idx], ">")
	return closeIdx < open
}

// insideAnchor only needs to spot the ASCII markers "<a " and "</a>", so
// an ASCII-only lowering keeps byte offsets intact.
func insideAnchor(content string, idx int) bool {
	before := asciiLower(content[:idx])

	open := strings.LastIndex(before, "<a ")
	if open < 0 {
		return false
	}
	closeIdx := strings.LastIndex(before, "</a>")
	return closeIdx < open
}

func asciiLower(s string) string {
	b := []byte(s)
	for i := 0; i < len(b); i++ {
		if 'A' <= b[i] && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

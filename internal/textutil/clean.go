// Package textutil cleans scraped page content before it is fed to the LLM.
package textutil

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reTag        = regexp.MustCompile(`<[^>]+>`)
	reMDLink     = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	reMDImage    = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	reCodeBlock  = regexp.MustCompile("```[^`]*```")
	reInlineCode = regexp.MustCompile("`([^`]+)`")
	reUnderscore = regexp.MustCompile(`_{2,}`)
	reAsterisk   = regexp.MustCompile(`\*{2,}`)
	reHeader     = regexp.MustCompile(`#{1,6}\s`)
	reSpaces     = regexp.MustCompile(`\s+`)
	reShareTail  = regexp.MustCompile(`(?i)(Share|Tweet|Pin|Email|Print)\s*$`)
	reWebNoise   = regexp.MustCompile(`(?i)(Cookie|Privacy Policy|Terms of Service|Subscribe|Newsletter)`)
	reLeadJunk   = regexp.MustCompile(`^[_\-*\s]+`)
	reTrailJunk  = regexp.MustCompile(`[_\-*\s]+$`)
	reSentence   = regexp.MustCompile(`[.!?]\s+`)
)

// CleanHTML strips HTML tags, markdown artifacts and common web boilerplate
// from scraped text.
func CleanHTML(text string) string {
	if text == "" {
		return ""
	}

	text = html.UnescapeString(text)
	text = reTag.ReplaceAllString(text, " ")

	// Markdown: keep link text, drop images and code fences
	text = reMDImage.ReplaceAllString(text, "")
	text = reMDLink.ReplaceAllString(text, "$1")
	text = reCodeBlock.ReplaceAllString(text, "")
	text = reInlineCode.ReplaceAllString(text, "$1")
	text = reUnderscore.ReplaceAllString(text, "")
	text = reAsterisk.ReplaceAllString(text, "")
	text = reHeader.ReplaceAllString(text, "")

	text = reSpaces.ReplaceAllString(text, " ")
	text = reShareTail.ReplaceAllString(text, "")
	text = reWebNoise.ReplaceAllString(text, "")

	text = strings.TrimSpace(text)
	text = reLeadJunk.ReplaceAllString(text, "")
	text = reTrailJunk.ReplaceAllString(text, "")
	return text
}

// TruncateSmart cuts text to at most maxLen characters, preferring a
// sentence boundary in the latter half of the window.
func TruncateSmart(text string, maxLen int) string {
	if text == "" || len(text) <= maxLen {
		return text
	}

	text = CleanHTML(text)
	if len(text) <= maxLen {
		return text
	}

	cut := maxLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	truncated := text[:cut]
	last := -1
	for _, p := range []string{".", "!", "?"} {
		if i := strings.LastIndex(truncated, p); i > last {
			last = i
		}
	}

	if last > maxLen/2 {
		return strings.TrimSpace(truncated[:last+1])
	}

	// No usable boundary, cut at the last word instead
	if i := strings.LastIndex(truncated, " "); i > 0 {
		truncated = truncated[:i]
	}
	return truncated + "..."
}

// ExtractSentences returns up to maxSentences clean, complete sentences.
func ExtractSentences(text string, maxSentences int) string {
	if text == "" {
		return ""
	}

	text = CleanHTML(text)

	var sentences []string
	start := 0
	for _, loc := range reSentence.FindAllStringIndex(text, -1) {
		sentences = append(sentences, text[start:loc[0]+1])
		start = loc[1]
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}

	var valid []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if len(s) < 20 {
			continue
		}
		if !strings.ContainsAny(s[len(s)-1:], ".!?") {
			continue
		}
		valid = append(valid, s)
		if len(valid) >= maxSentences {
			break
		}
	}
	return strings.Join(valid, " ")
}

// ParseBullets splits an LLM bullet-list reply into trimmed lines, dropping
// fragments shorter than minLen.
func ParseBullets(text string, minLen int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-•* \t")
		line = strings.TrimSpace(line)
		if len(line) > minLen {
			out = append(out, line)
		}
	}
	return out
}

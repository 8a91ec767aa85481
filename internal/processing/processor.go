package processing

import (
	"html"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	urlRegex    = regexp.MustCompile(`https?://[^\s]+`)
	whitespace  = regexp.MustCompile(`\s+`)
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s']+`)
)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"but": {}, "by": {}, "for": {}, "from": {}, "had": {}, "has": {},
	"have": {}, "in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"or": {}, "our": {}, "that": {}, "the": {}, "their": {}, "there": {},
	"they": {}, "this": {}, "to": {}, "was": {}, "we": {}, "were": {},
	"with": {}, "you": {}, "very": {}, "would": {}, "will": {},
}

// RemoveURLs replaces every HTTP(S) URL in input with a space.
func RemoveURLs(input string) string {
	return urlRegex.ReplaceAllString(input, " ")
}

// CleanText strips HTML entities, URLs and punctuation and squeezes whitespace.
// Apostrophes survive so contractions stay intact.
func CleanText(input string) string {
	if input == "" {
		return ""
	}
	decoded := html.UnescapeString(input)
	decoded = RemoveURLs(decoded)
	decoded = punctuation.ReplaceAllString(decoded, " ")
	decoded = whitespace.ReplaceAllString(decoded, " ")
	return strings.TrimSpace(decoded)
}

// ExtractKeywords returns the most frequent words of a review that are not
// stop-words, most frequent first and alphabetical on ties.
func ExtractKeywords(text string, limit, minLen int) []string {
	clean := strings.ToLower(CleanText(text))
	if clean == "" {
		return nil
	}

	freq := make(map[string]int)
	for _, token := range strings.Fields(clean) {
		token = strings.TrimFunc(token, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if len([]rune(token)) < minLen {
			continue
		}
		if _, skip := stopwords[token]; skip {
			continue
		}
		freq[token]++
	}

	if len(freq) == 0 {
		return nil
	}

	type kv struct {
		word  string
		count int
	}

	pairs := make([]kv, 0, len(freq))
	for word, count := range freq {
		pairs = append(pairs, kv{word: word, count: count})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count == pairs[j].count {
			return pairs[i].word < pairs[j].word
		}
		return pairs[i].count > pairs[j].count
	})

	n := limit
	if n <= 0 || n > len(pairs) {
		n = len(pairs)
	}

	keywords := make([]string, 0, n)
	for i := 0; i < n; i++ {
		keywords = append(keywords, pairs[i].word)
	}
	return keywords
}

// Summarize returns the first sentence of a review, cut to maxWords words
// with a trailing ellipsis when truncated. maxWords <= 0 means no limit.
func Summarize(text string, maxWords int) string {
	if text == "" {
		return ""
	}

	body := RemoveURLs(html.UnescapeString(text))

	first := body
	if end := strings.IndexAny(body, ".!?"); end > 0 {
		first = body[:end]
	}

	words := strings.Fields(first)
	if len(words) == 0 {
		return ""
	}
	if maxWords > 0 && len(words) > maxWords {
		return strings.Join(words[:maxWords], " ") + "..."
	}
	return strings.Join(words, " ")
}

package processing_test

import (
	"testing"

	"github.com/DeafMist/review-radar/backend/internal/processing"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "punctuation", input: "Great!!!   stay", want: "Great stay"},
		{name: "keeps contractions", input: "didn't love it.", want: "didn't love it"},
		{name: "collapse whitespace", input: "foo\n\nbar\t baz", want: "foo bar baz"},
		{name: "html entities", input: "Bed &amp; breakfast", want: "Bed breakfast"},
		{name: "remove urls", input: "Photos at https://example.com/p/1 here", want: "Photos at here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, processing.CleanText(tt.input))
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	text := "The pool was great, the pool was clean and the staff were great. Pool!"
	got := processing.ExtractKeywords(text, 3, 3)
	require.Equal(t, []string{"pool", "great", "clean"}, got)

	require.Nil(t, processing.ExtractKeywords("", 5, 3))
	require.Nil(t, processing.ExtractKeywords("the and was", 5, 1))
}

func TestExtractKeywordsIgnoresURLWords(t *testing.T) {
	text := "breakfast breakfast https://example.com/hotel-deals view"
	got := processing.ExtractKeywords(text, 5, 3)
	require.ElementsMatch(t, []string{"breakfast", "view"}, got)
}

func TestRemoveURLs(t *testing.T) {
	require.Equal(t, "Go   now", processing.RemoveURLs("Go https://example.com now"))
	require.Equal(t, "Hello world", processing.RemoveURLs("Hello world"))
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWords int
		want     string
	}{
		{name: "empty", text: "", maxWords: 10, want: ""},
		{name: "single sentence", text: "Lovely little hotel.", maxWords: 10, want: "Lovely little hotel"},
		{name: "multiple sentences", text: "Great stay! Would come back. Ten out of ten.", maxWords: 10, want: "Great stay"},
		{name: "truncated", text: "The room overlooked the harbour and the sunsets were unforgettable", maxWords: 4, want: "The room overlooked the..."},
		{name: "question mark", text: "Where was the towel? Nobody knew.", maxWords: 10, want: "Where was the towel"},
		{name: "unlimited", text: "Quiet and clean", maxWords: 0, want: "Quiet and clean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, processing.Summarize(tt.text, tt.maxWords))
		})
	}
}

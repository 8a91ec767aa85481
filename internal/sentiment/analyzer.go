// Package sentiment scores review text with the VADER lexicon, producing a
// negative/neutral/positive breakdown and a normalised compound score.
package sentiment

import (
	"math"
	"strings"

	"github.com/jonreiter/govader"

	"github.com/DeafMist/review-radar/backend/internal/models"
)

// Scorer turns review text into a polarity breakdown.
type Scorer interface {
	Score(text string) (models.Sentiment, error)
}

// Analyzer is the default Scorer. It is safe for concurrent use once built.
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

// NewAnalyzer loads the bundled VADER lexicon.
func NewAnalyzer() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Score implements Scorer. It never fails.
func (a *Analyzer) Score(text string) (models.Sentiment, error) {
	return a.PolarityScores(text), nil
}

// PolarityScores computes the breakdown for text. Proportions are rounded to
// three places and the compound score to four.
func (a *Analyzer) PolarityScores(text string) models.Sentiment {
	if strings.TrimSpace(text) == "" {
		return models.Sentiment{}
	}

	s := a.vader.PolarityScores(text)
	return models.Sentiment{
		Neg:      round(s.Negative, 3),
		Neu:      round(s.Neutral, 3),
		Pos:      round(s.Positive, 3),
		Compound: round(s.Compound, 4),
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

package sentiment

import (
	"math"
	"strings"
	"unicode"
)

// Label is the categorical bucket derived from a numeric score.
type Label string

const (
	LabelNegative Label = "negative"
	LabelNeutral  Label = "neutral"
	LabelPositive Label = "positive"
)

const (
	neutralScore = 3.0

	// Ratings outside [minRating, maxRating] are treated as absent.
	minRating = 1
	maxRating = 5
)

// Result holds the outcome of scoring a single piece of feedback text.
// It is immutable once produced and is never recomputed retroactively.
type Result struct {
	Score        float64  `json:"score"`
	Label        Label    `json:"label"`
	MatchedCount int      `json:"matched_count"`
	MatchedTerms []string `json:"matched_terms"`
}

// Scorer estimates sentiment from free text using fixed bag-of-words
// lexicons, optionally blended with an explicit star rating.
type Scorer struct{}

// NewScorer creates a new lexicon-based Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score derives a sentiment score in [1.0, 5.0] from text and an optional
// star rating. A rating of 0 (or any value outside 1..5) means no explicit
// rating was supplied. The function is total: every input yields a result.
func (s *Scorer) Score(text string, rating int) Result {
	tokens := tokenize(text)

	var matched []string
	positive, negative := 0, 0
	for _, tok := range tokens {
		if _, ok := positiveTerms[tok]; ok {
			positive++
			matched = append(matched, "+"+tok)
			continue
		}
		if _, ok := negativeTerms[tok]; ok {
			negative++
			matched = append(matched, "-"+tok)
		}
	}

	raw := neutralScore
	if total := positive + negative; total > 0 {
		ratio := float64(positive-negative) / float64(total)
		raw = round1((ratio+1)/2*4 + 1)
	}

	final := raw
	if rating >= minRating && rating <= maxRating {
		final = round1((raw + float64(rating)) / 2)
	}

	return Result{
		Score:        final,
		Label:        labelFor(final),
		MatchedCount: positive + negative,
		MatchedTerms: matched,
	}
}

// labelFor maps a score to its three-bucket label. The boundaries mirror
// the risk tier boundaries used for driver aggregates.
func labelFor(score float64) Label {
	switch {
	case score >= 3.5:
		return LabelPositive
	case score >= 2.5:
		return LabelNeutral
	default:
		return LabelNegative
	}
}

// tokenize lowercases the text, strips everything outside [a-z] and
// whitespace, and splits into tokens, discarding tokens of length <= 1.
// Tokens are not deduplicated: repeating a sentiment word counts twice.
func tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	fields := strings.Fields(b.String())
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

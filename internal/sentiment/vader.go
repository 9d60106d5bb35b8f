// Package sentiment adapts the VADER lexicon scorer to the
// domain.SentimentProvider interface.
package sentiment

import (
	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"

	"github.com/couchcryptid/ocean-hazard-etl/internal/domain"
)

// VaderProvider scores text with the VADER lexicon. Polarity is the
// compound score in [-1, 1]; subjectivity is approximated as the share
// of sentiment-bearing tokens (positive plus negative proportions),
// which lands in [0, 1] like the polarity midpoint scale expects.
type VaderProvider struct{}

// NewVaderProvider creates a VaderProvider. The lexicon is embedded in
// the library, so construction cannot fail.
func NewVaderProvider() *VaderProvider {
	return &VaderProvider{}
}

// Score implements domain.SentimentProvider.
func (v *VaderProvider) Score(text string) (domain.SentimentScore, error) {
	parsed := sentitext.Parse(text, lexicon.DefaultLexicon)
	score := sentitext.PolarityScore(parsed)

	subjectivity := score.Positive + score.Negative
	if subjectivity > 1 {
		subjectivity = 1
	}

	return domain.SentimentScore{
		Polarity:     score.Compound,
		Subjectivity: subjectivity,
	}, nil
}

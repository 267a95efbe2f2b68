// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sentiment scores text polarity and subjectivity with a word
// lexicon and labels the result positive, negative or neutral.
//
// Scoring averages the lexicon entries of the sentiment-bearing words in the
// text. An intensifier ("very", "extremely") scales the next sentiment word;
// a negation ("not", "never", "-n't") flips it at half strength. Modifiers
// are forgotten at clause punctuation. Exclamation marks amplify polarity
// that is already there.
package sentiment

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"strings"
	"unicode"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/api-router/pkg/types"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// Default label thresholds. Polarity must lie strictly beyond one to be
// labeled positive or negative.
const (
	DefaultPositiveThreshold = 0.1
	DefaultNegativeThreshold = -0.1
)

const (
	negationFactor  = -0.5
	exclaimBoost    = 0.1
	maxExclamations = 3
)

// Entry is the lexicon score for one word.
type Entry struct {
	Polarity     float64 `yaml:"polarity"`
	Subjectivity float64 `yaml:"subjectivity"`
}

// Lexicon holds word scores and the modifier vocabulary.
type Lexicon struct {
	Words        map[string]Entry   `yaml:"words"`
	Intensifiers map[string]float64 `yaml:"intensifiers"`
	Negations    []string           `yaml:"negations"`

	negations map[string]bool
}

// ParseLexicon decodes and validates a lexicon YAML document.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lx Lexicon
	if err := yaml.Unmarshal(data, &lx); err != nil {
		return nil, fmt.Errorf("parsing lexicon: %w", err)
	}
	if len(lx.Words) == 0 {
		return nil, fmt.Errorf("lexicon has no words")
	}
	for w, e := range lx.Words {
		if e.Polarity < -1 || e.Polarity > 1 {
			return nil, fmt.Errorf("lexicon word %q: polarity %v out of range [-1,1]", w, e.Polarity)
		}
		if e.Subjectivity < 0 || e.Subjectivity > 1 {
			return nil, fmt.Errorf("lexicon word %q: subjectivity %v out of range [0,1]", w, e.Subjectivity)
		}
	}
	lx.negations = make(map[string]bool, len(lx.Negations))
	for _, n := range lx.Negations {
		lx.negations[normalizeApostrophes(strings.ToLower(n))] = true
	}
	return &lx, nil
}

// LoadLexicon reads a lexicon file from disk.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon %s: %w", path, err)
	}
	return ParseLexicon(data)
}

// DefaultLexicon returns the built-in English lexicon.
func DefaultLexicon() *Lexicon {
	lx, err := ParseLexicon(defaultLexicon)
	if err != nil {
		panic(fmt.Sprintf("built-in lexicon: %v", err))
	}
	return lx
}

// Analyzer scores text against a lexicon.
type Analyzer struct {
	lexicon  *Lexicon
	positive float64
	negative float64
}

// DefaultConfig returns the built-in lexicon with the default thresholds.
func DefaultConfig() types.SentimentConfig {
	return types.SentimentConfig{
		PositiveThreshold: DefaultPositiveThreshold,
		NegativeThreshold: DefaultNegativeThreshold,
	}
}

// NewAnalyzer builds an Analyzer from cfg, loading cfg.Lexicon when set.
// The thresholds are used as given; zero is a valid threshold.
func NewAnalyzer(cfg types.SentimentConfig) (*Analyzer, error) {
	lx := DefaultLexicon()
	if cfg.Lexicon != "" {
		var err error
		if lx, err = LoadLexicon(cfg.Lexicon); err != nil {
			return nil, err
		}
	}
	a := &Analyzer{
		lexicon:  lx,
		positive: cfg.PositiveThreshold,
		negative: cfg.NegativeThreshold,
	}
	if a.negative > a.positive {
		return nil, fmt.Errorf("negative threshold %v is above positive threshold %v", a.negative, a.positive)
	}
	return a, nil
}

// Analyze returns the label, polarity and subjectivity of text.
func (a *Analyzer) Analyze(text string) types.SentimentResult {
	polarity, subjectivity := a.Score(text)
	return types.SentimentResult{
		Sentiment:    a.Label(polarity),
		Polarity:     polarity,
		Subjectivity: subjectivity,
	}
}

// Label thresholds a polarity score. Both thresholds are exclusive.
func (a *Analyzer) Label(polarity float64) types.Sentiment {
	switch {
	case polarity > a.positive:
		return types.SentimentPositive
	case polarity < a.negative:
		return types.SentimentNegative
	default:
		return types.SentimentNeutral
	}
}

// Score returns polarity in [-1, 1] and subjectivity in [0, 1]. Text with
// no lexicon words scores 0, 0.
func (a *Analyzer) Score(text string) (polarity, subjectivity float64) {
	lx := a.lexicon
	var (
		sumP, sumS float64
		n          int
		exclaims   int
		negated    bool
		intensity  = 1.0
	)

	for _, tok := range tokenize(text) {
		switch {
		case tok == "!":
			exclaims++
			continue
		case isClauseBreak(tok):
			negated, intensity = false, 1.0
			continue
		case lx.isNegation(tok):
			negated = true
			continue
		}

		if f, ok := lx.Intensifiers[tok]; ok {
			intensity *= f
			continue
		}

		e, ok := lx.Words[tok]
		if !ok {
			continue
		}

		p := e.Polarity * intensity
		s := e.Subjectivity * intensity
		if negated {
			p *= negationFactor
		}
		sumP += clamp(p, -1, 1)
		sumS += clamp(s, 0, 1)
		n++
		negated, intensity = false, 1.0
	}

	if n == 0 {
		return 0, 0
	}

	polarity = sumP / float64(n)
	subjectivity = sumS / float64(n)
	if polarity != 0 && exclaims > 0 {
		polarity *= 1 + exclaimBoost*float64(min(exclaims, maxExclamations))
	}
	return round(clamp(polarity, -1, 1)), round(clamp(subjectivity, 0, 1))
}

func (lx *Lexicon) isNegation(tok string) bool {
	return lx.negations[tok] || strings.HasSuffix(tok, "n't")
}

// tokenize lowercases text and splits it into words, "!" and clause
// punctuation. Apostrophes inside words are kept so "isn't" stays whole.
func tokenize(text string) []string {
	text = normalizeApostrophes(strings.ToLower(text))

	var (
		tokens []string
		cur    strings.Builder
	)
	flush := func() {
		if w := strings.Trim(cur.String(), "'"); w != "" {
			tokens = append(tokens, w)
		}
		cur.Reset()
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'':
			cur.WriteRune(r)
		case r == '!' || r == '.' || r == ',' || r == ';' || r == '?' || r == ':':
			flush()
			tokens = append(tokens, string(r))
		default:
			flush()
		}
	}
	flush()
	return tokens
}

func isClauseBreak(tok string) bool {
	return tok == "." || tok == "," || tok == ";" || tok == "?" || tok == ":"
}

func normalizeApostrophes(s string) string {
	return strings.NewReplacer("’", "'", "‘", "'").Replace(s)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// round trims float noise so scores compare and print cleanly.
func round(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

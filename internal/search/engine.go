package search

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/pders01/gifr/internal/gallery"
)

// Result represents a find match with relevance scoring
type Result struct {
	Item    *gallery.Item
	Score   float64
	Matches []Match
}

// Match represents where text was found
type Match struct {
	Field  string // "topic", "alt_text", "rating"
	Text   string
	Weight float64
}

// Engine scores the live feed directly without an index. It is the
// fallback when the bleve index cannot be built.
type Engine struct {
	source Source
}

func NewEngine(source Source) *Engine {
	return &Engine{source: source}
}

func (e *Engine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	var results []*Result
	position := 0
	for item := range e.source.All() {
		if result := e.searchItem(item, terms); result != nil {
			// Newer items sit higher in the feed; break ties in their favour.
			result.Score *= 1.0 + 0.01/float64(position+1)
			results = append(results, result)
		}
		position++
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

func (e *Engine) searchItem(item *gallery.Item, terms []string) *Result {
	var matches []Match
	var totalScore float64

	if topicScore := e.scoreField(item.Topic, terms, 4.0); topicScore > 0 {
		matches = append(matches, Match{Field: "topic", Text: item.Topic, Weight: topicScore})
		totalScore += topicScore
	}

	if altScore := e.scoreField(item.AltText, terms, 1.0); altScore > 0 {
		matches = append(matches, Match{Field: "alt_text", Text: truncate(item.AltText, 100), Weight: altScore})
		totalScore += altScore
	}

	if ratingScore := e.scoreField(item.Rating, terms, 2.0); ratingScore > 0 {
		matches = append(matches, Match{Field: "rating", Text: item.Rating, Weight: ratingScore})
		totalScore += ratingScore
	}

	if totalScore == 0 {
		return nil
	}
	return &Result{Item: item, Score: totalScore, Matches: matches}
}

// scoreField calculates relevance score for a field
func (e *Engine) scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var score float64
	matchedTerms := 0

	for _, term := range terms {
		if strings.Contains(lower, term) {
			score += 2.0
			matchedTerms++
		}

		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
				matchedTerms++
			case strings.HasPrefix(word, term) || strings.HasSuffix(word, term):
				score += 1.0
				matchedTerms++
			case strings.Contains(word, term):
				score += 0.5
				matchedTerms++
			}
		}
	}

	if len(terms) > 1 && matchedTerms > 1 {
		score *= 1.0 + float64(matchedTerms)/float64(len(terms))
	}

	tf := float64(matchedTerms) / float64(len(words))
	score *= 1.0 + math.Log(1.0+tf)

	return score * weight
}

// tokenize breaks text into lower-cased searchable terms
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			if term := current.String(); len(term) > 1 { // Skip single chars
				terms = append(terms, term)
			}
			current.Reset()
		}
	}

	if current.Len() > 1 {
		terms = append(terms, current.String())
	}

	return terms
}

// truncate limits text length with ellipsis
func truncate(text string, maxLen int) string {
	r := []rune(text)
	if len(r) <= maxLen {
		return text
	}
	return string(r[:maxLen-1]) + "…"
}

package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/gifr/internal/gallery"
)

func TestNewEngine(t *testing.T) {
	feed := gallery.NewFeed()
	engine := NewEngine(feed)
	assert.NotNil(t, engine)
	assert.Equal(t, feed, engine.source)
}

func TestSearchMinLength(t *testing.T) {
	feed := gallery.NewFeed()
	feed.Prepend(result("a1", "banana", "G"))
	engine := NewEngine(feed)

	tests := []struct {
		name  string
		query string
	}{
		{name: "Empty query", query: ""},
		{name: "Single character query", query: "a"},
		{name: "Whitespace only", query: "   "},
		{name: "Only punctuation", query: "!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := engine.Search(tt.query, 10)
			assert.NoError(t, err)
			assert.NotNil(t, results)
			assert.Equal(t, 0, len(results), "short queries should return empty results")
		})
	}
}

func TestEngineRanksTopicAboveAltText(t *testing.T) {
	feed := gallery.NewFeed()
	feed.Prepend(result("g1", "grape", "G"), result("b1", "banana", "G"))
	engine := NewEngine(feed)

	results, err := engine.Search("grape", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "g1", results[0].Item.ID)

	fields := make([]string, 0, len(results[0].Matches))
	for _, m := range results[0].Matches {
		fields = append(fields, m.Field)
	}
	assert.Contains(t, fields, "topic")
	assert.Contains(t, fields, "alt_text")
}

func TestEngineRespectsLimit(t *testing.T) {
	feed := gallery.NewFeed()
	feed.Prepend(result("a", "kiwi", "G"), result("b", "kiwi", "G"), result("c", "kiwi", "G"))
	engine := NewEngine(feed)

	results, err := engine.Search("kiwi", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Item.ID, "newest item wins ties")
}

func TestEngineMatchesRating(t *testing.T) {
	feed := gallery.NewFeed()
	feed.Prepend(result("a", "kiwi", "PG"), result("b", "kiwi", "R"))
	engine := NewEngine(feed)

	results, err := engine.Search("pg", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Item.ID)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Rock & Roll", []string{"rock", "roll"}},
		{"a b cd", []string{"cd"}},
		{"PG-13", []string{"pg", "13"}},
		{"", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tokenize(tt.in), tt.in)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

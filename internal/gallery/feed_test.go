package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(items []*Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestFeedPrependKeepsResponseOrder(t *testing.T) {
	f := NewFeed()
	f.Prepend(testResult("old1"), testResult("old2"))

	added := f.Prepend(testResult("r0"), testResult("r1"))

	require.Len(t, added, 2)
	assert.Equal(t, []string{"r0", "r1", "old1", "old2"}, ids(f.Items()))
	assert.Equal(t, 4, f.Len())
}

func TestFeedPrependEmptyBatch(t *testing.T) {
	f := NewFeed()
	f.Prepend(testResult("a"))

	added := f.Prepend()

	assert.Nil(t, added)
	assert.Equal(t, []string{"a"}, ids(f.Items()))
}

func TestFeedPrependLeavesExistingItemsUnchanged(t *testing.T) {
	f := NewFeed()
	f.Prepend(testResult("a"))
	_, err := f.Toggle("a")
	require.NoError(t, err)

	f.Prepend(testResult("b"), testResult("c"), testResult("d"))

	it, ok := f.Get("a")
	require.True(t, ok)
	assert.Equal(t, it.AnimatedURL, it.Source(), "toggled state survives later searches")
	assert.Equal(t, []string{"b", "c", "d", "a"}, ids(f.Items()))
}

func TestFeedCompletionOrderWins(t *testing.T) {
	f := NewFeed()

	// "banana" was requested first but "grape" completed first.
	grape := testResult("g0")
	grape.Topic = "grape"
	banana := testResult("b0")

	f.Prepend(grape)
	f.Prepend(banana)

	assert.Equal(t, []string{"b0", "g0"}, ids(f.Items()))
}

func TestFeedPrependUpToTen(t *testing.T) {
	for n := 0; n <= 10; n++ {
		f := NewFeed()
		f.Prepend(testResult("existing"))

		batch := make([]Result, n)
		for i := range batch {
			batch[i] = testResult(string(rune('a' + i)))
		}
		f.Prepend(batch...)

		items := f.Items()
		require.Len(t, items, n+1)
		for i := 0; i < n; i++ {
			assert.Equal(t, batch[i].ID, items[i].ID)
		}
		assert.Equal(t, "existing", items[n].ID)
	}
}

func TestFeedToggleUnknownID(t *testing.T) {
	f := NewFeed()
	_, err := f.Toggle("missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestFeedItemsIsCopy(t *testing.T) {
	f := NewFeed()
	f.Prepend(testResult("a"), testResult("b"))

	items := f.Items()
	items[0] = nil

	assert.Equal(t, []string{"a", "b"}, ids(f.Items()))
}

func TestFeedAllAndIndex(t *testing.T) {
	f := NewFeed()
	f.Prepend(testResult("a"), testResult("b"), testResult("c"))

	var seen []string
	for it := range f.All() {
		seen = append(seen, it.ID)
		if it.ID == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, 2, f.Index("c"))
	assert.Equal(t, -1, f.Index("zzz"))
}

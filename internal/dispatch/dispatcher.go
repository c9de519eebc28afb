// Package dispatch turns a topic selection into one search request and maps
// the reply onto gallery results.
package dispatch

import (
	"context"
	"iter"
	"time"

	"github.com/rs/xid"

	"github.com/pders01/gifr/internal/debuglog"
	"github.com/pders01/gifr/internal/gallery"
	"github.com/pders01/gifr/internal/giphy"
	"github.com/pders01/gifr/internal/storage"
)

// Searcher performs the remote query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]giphy.Record, error)
}

// History receives one record per completed search.
type History interface {
	RecordSearch(record *storage.SearchRecord) error
}

type Dispatcher struct {
	searcher Searcher
	history  History
	now      func() time.Time
}

func New(searcher Searcher) *Dispatcher {
	return &Dispatcher{searcher: searcher, now: time.Now}
}

// WithHistory records every completed search, successful or not, in h.
func (d *Dispatcher) WithHistory(h History) *Dispatcher {
	d.history = h
	return d
}

// Search issues exactly one request for topic. Results keep response order.
// No retry is attempted; a failed search returns no results.
func (d *Dispatcher) Search(ctx context.Context, topic string) ([]gallery.Result, error) {
	log := debuglog.Logger("dispatch")
	requested := d.now()

	records, err := d.searcher.Search(ctx, topic)
	completed := d.now()

	var results []gallery.Result
	if err == nil {
		results = make([]gallery.Result, len(records))
		for i, rec := range records {
			results[i] = toResult(topic, rec, completed)
		}
		log.Debug().Str("topic", topic).Int("count", len(results)).Msg("search completed")
	} else {
		log.Warn().Err(err).Str("topic", topic).Msg("search failed")
	}

	d.record(topic, requested, completed, len(results), err)

	return results, err
}

// Stream yields the results of one search lazily. A failed search yields a
// single zero Result with the error.
func (d *Dispatcher) Stream(ctx context.Context, topic string) iter.Seq2[gallery.Result, error] {
	return func(yield func(gallery.Result, error) bool) {
		results, err := d.Search(ctx, topic)
		if err != nil {
			yield(gallery.Result{}, err)
			return
		}
		for _, r := range results {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func (d *Dispatcher) record(topic string, requested, completed time.Time, count int, err error) {
	if d.history == nil {
		return
	}
	rec := &storage.SearchRecord{
		ID:          xid.NewWithTime(requested).String(),
		Topic:       topic,
		RequestedAt: requested,
		CompletedAt: completed,
		Count:       count,
	}
	if err != nil {
		rec.Error = err.Error()
	}
	if herr := d.history.RecordSearch(rec); herr != nil {
		debuglog.Warnf("recording search history for %q: %v", topic, herr)
	}
}

func toResult(topic string, rec giphy.Record, fetched time.Time) gallery.Result {
	return gallery.Result{
		ID:          xid.New().String(),
		Topic:       topic,
		StaticURL:   rec.StillURL(),
		AnimatedURL: rec.AnimatedURL(),
		Rating:      gallery.NormalizeRating(rec.Rating),
		AltText:     gallery.AltText(topic),
		FetchedAt:   fetched,
	}
}

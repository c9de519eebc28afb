package search

import (
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/gifr/internal/debuglog"
	"github.com/pders01/gifr/internal/gallery"
)

type bleveEngine struct {
	source Source
	idx    bleve.Index
}

// BleveEngine is a Searcher backed by an in-memory bleve index.
type BleveEngine interface {
	Searcher
	UpdateListener
	DebugStatser
	Close() error
}

// NewBleveEngine builds a memory-only index and loads every item of source.
// Results live for one session, so nothing is written to disk.
func NewBleveEngine(source Source) (BleveEngine, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}

	be := &bleveEngine{source: source, idx: idx}
	if err := be.reindexAll(); err != nil {
		idx.Close()
		return nil, err
	}
	return be, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	topic := bleve.NewTextFieldMapping()
	topic.Analyzer = standard.Name
	topic.Store = true
	topic.IncludeTermVectors = true

	rating := bleve.NewTextFieldMapping()
	rating.Analyzer = standard.Name
	rating.Store = true

	alt := bleve.NewTextFieldMapping()
	alt.Analyzer = standard.Name
	alt.Store = false

	dm.AddFieldMappingsAt("topic", topic)
	dm.AddFieldMappingsAt("rating", rating)
	dm.AddFieldMappingsAt("alt_text", alt)

	im.DefaultMapping = dm
	return im
}

func document(r gallery.Result) map[string]any {
	return map[string]any{
		"topic":    r.Topic,
		"rating":   r.Rating,
		"alt_text": r.AltText,
	}
}

func (b *bleveEngine) reindexAll() error {
	batch := b.idx.NewBatch()
	for item := range b.source.All() {
		if item.ID == "" {
			continue
		}
		if err := batch.Index(item.ID, document(item.Result)); err != nil {
			return err
		}
	}
	return b.idx.Batch(batch)
}

// OnResultsAdded indexes a freshly prepended batch.
func (b *bleveEngine) OnResultsAdded(results []gallery.Result) {
	batch := b.idx.NewBatch()
	for _, r := range results {
		if r.ID == "" {
			continue
		}
		_ = batch.Index(r.ID, document(r))
	}
	if err := b.idx.Batch(batch); err != nil {
		debuglog.Warnf("indexing %d results: %v", len(results), err)
	}
}

func (b *bleveEngine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	var qs []bleveQuery.Query
	for _, tok := range tokenize(query) {
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("topic")
		qt.SetBoost(4.0)
		qs = append(qs, qt)
		qtp := bleve.NewPrefixQuery(tok)
		qtp.SetField("topic")
		qtp.SetBoost(3.5)
		qs = append(qs, qtp)

		qr := bleve.NewMatchQuery(tok)
		qr.SetField("rating")
		qr.SetBoost(2.0)
		qs = append(qs, qr)

		qa := bleve.NewMatchQuery(tok)
		qa.SetField("alt_text")
		qa.SetBoost(1.0)
		qs = append(qs, qa)
		qap := bleve.NewPrefixQuery(tok)
		qap.SetField("alt_text")
		qap.SetBoost(0.8)
		qs = append(qs, qap)
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}

	srch := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	srch.Fields = []string{"topic", "rating"}
	res, err := b.idx.Search(srch)
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		item, ok := b.source.Get(h.ID)
		if !ok {
			continue
		}
		r := &Result{Item: item, Score: h.Score}
		if t, ok := h.Fields["topic"].(string); ok {
			r.Matches = append(r.Matches, Match{Field: "topic", Text: t})
		}
		if rt, ok := h.Fields["rating"].(string); ok {
			r.Matches = append(r.Matches, Match{Field: "rating", Text: rt})
		}
		out = append(out, r)
	}
	return out, nil
}

// DocCount reports total documents in the index.
func (b *bleveEngine) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	return int(n), err
}

func (b *bleveEngine) Close() error {
	return b.idx.Close()
}

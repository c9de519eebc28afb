package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	topicsBucket   = []byte("topics")
	searchesBucket = []byte("searches")
)

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	return NewStoreWithTimeout(dbPath, 1*time.Second)
}

// NewStoreWithTimeout opens the database, waiting up to timeout for the
// file lock held by another gifr process.
func NewStoreWithTimeout(dbPath string, timeout time.Duration) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{topicsBucket, searchesBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// AppendTopic stores text after every previously stored topic.
func (s *Store) AppendTopic(text string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(topicsBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(&Topic{Seq: seq, Text: text, AddedAt: time.Now()})
		if err != nil {
			return err
		}
		return b.Put(itob(seq), data)
	})
}

// GetTopics returns stored topics in insertion order.
func (s *Store) GetTopics() ([]*Topic, error) {
	var topics []*Topic
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(topicsBucket)
		// Big-endian keys iterate in insertion order.
		return b.ForEach(func(_ []byte, v []byte) error {
			var topic Topic
			if err := json.Unmarshal(v, &topic); err != nil {
				return err
			}
			topics = append(topics, &topic)
			return nil
		})
	})
	return topics, err
}

// TopicTexts is GetTopics reduced to the display strings.
func (s *Store) TopicTexts() ([]string, error) {
	topics, err := s.GetTopics()
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(topics))
	for i, t := range topics {
		texts[i] = t.Text
	}
	return texts, nil
}

func (s *Store) ClearTopics() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(topicsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(topicsBucket)
		return err
	})
}

func (s *Store) RecordSearch(record *SearchRecord) error {
	if record.ID == "" {
		return fmt.Errorf("search record without id")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(searchesBucket)
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return b.Put([]byte(record.ID), data)
	})
}

// GetSearches returns up to limit records, most recently completed first.
// A limit <= 0 returns everything.
func (s *Store) GetSearches(limit int) ([]*SearchRecord, error) {
	var records []*SearchRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(searchesBucket)
		return b.ForEach(func(_ []byte, v []byte) error {
			var record SearchRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return nil
			}
			records = append(records, &record)
			return nil
		})
	})
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CompletedAt.After(records[j].CompletedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, err
}

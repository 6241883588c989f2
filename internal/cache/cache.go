// Package cache persists per-site analysis results so repeat runs can
// skip URLs whose last-known state is already satisfactory (delta
// analysis). Entries are keyed by site identity and page URL and are
// never expired automatically.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/Papalexios/schema-markup-generator/internal/domain"
	"github.com/Papalexios/schema-markup-generator/internal/logger"
)

// keySeparator joins the site namespace and the page URL. The pipe
// cannot appear unescaped in either part of a valid URL path.
const keySeparator = "|"

// Entry is the last-known analysis state for one page URL.
type Entry struct {
	// SchemaStatus recorded by the last analysis.
	SchemaStatus domain.SchemaStatus `json:"schema_status"`
	// Title recorded by the last analysis.
	Title string `json:"title"`
	// ExistingSchema found on the page, if any.
	ExistingSchema map[string]any `json:"existing_schema,omitempty"`
	// LastCheckedAt is when the entry was written.
	LastCheckedAt time.Time `json:"last_checked_at"`
}

// Satisfactory reports whether the entry allows skipping re-analysis:
// the page either already carries markup or is queued for audit.
func (e Entry) Satisfactory() bool {
	return e.SchemaStatus == domain.StatusFound || e.SchemaStatus == domain.StatusAuditRecommended
}

// Store is a BadgerDB-backed cache of analysis entries.
type Store struct {
	db  *badger.DB
	log logger.Interface
}

// Open opens (or creates) the cache database under dir. When inMemory
// is true no files are written, which keeps tests hermetic.
func Open(dir string, inMemory bool, log logger.Interface) (*Store, error) {
	opts := badger.DefaultOptions(dir).
		WithInMemory(inMemory).
		WithLogger(nil)
	if inMemory {
		opts = opts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Read returns every cached entry for the given site, keyed by page
// URL. Corrupt or unreadable data is treated as absent: Read never
// fails, it degrades to an empty or partial mapping.
func (s *Store) Read(site string) map[string]Entry {
	entries := make(map[string]Entry)
	prefix := []byte(site + keySeparator)

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			url := string(item.Key()[len(prefix):])

			value, err := item.ValueCopy(nil)
			if err != nil {
				continue
			}

			var entry Entry
			if unmarshalErr := json.Unmarshal(value, &entry); unmarshalErr != nil {
				s.log.Warn("skipping corrupt cache entry", "site", site, "url", url)
				continue
			}
			entries[url] = entry
		}
		return nil
	})
	if err != nil {
		s.log.Warn("cache read failed, treating as empty", "site", site, "error", err.Error())
		return make(map[string]Entry)
	}

	return entries
}

// Get returns the cached entry for one page URL, if present.
func (s *Store) Get(site, url string) (Entry, bool) {
	var entry Entry
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, getErr := txn.Get(entryKey(site, url))
		if getErr != nil {
			if getErr == badger.ErrKeyNotFound {
				return nil
			}
			return getErr
		}

		value, valueErr := item.ValueCopy(nil)
		if valueErr != nil {
			return valueErr
		}
		if unmarshalErr := json.Unmarshal(value, &entry); unmarshalErr != nil {
			s.log.Warn("skipping corrupt cache entry", "site", site, "url", url)
			return nil
		}
		found = true
		return nil
	})
	if err != nil {
		return Entry{}, false
	}

	return entry, found
}

// Write merges one entry into the site's mapping and persists it.
func (s *Store) Write(site, url string, entry Entry) error {
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(site, url), value)
	})
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry for the given site and reports how many
// were deleted.
func (s *Store) Clear(site string) (int, error) {
	prefix := []byte(site + keySeparator)
	var keys [][]byte

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("list cache entries: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if deleteErr := txn.Delete(key); deleteErr != nil {
				return deleteErr
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("clear cache entries: %w", err)
	}

	return len(keys), nil
}

// entryKey builds the namespaced key for one page URL.
func entryKey(site, url string) []byte {
	return []byte(site + keySeparator + url)
}

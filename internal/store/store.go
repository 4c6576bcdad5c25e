// Package store owns the in-memory credential collection and its single
// backing file. The whole file is the unit of consistency: Open and Init read
// or create it once, Sync rewrites it in full, and nothing else touches it.
package store

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/needlesslygrim/gondolin/internal/match"
)

// Store is the full record collection bound to one file path.
type Store struct {
	records map[uuid.UUID]Record
	path    string
}

// Init creates a new, empty store file at path with exclusive-create
// semantics. It returns ErrStoreExists when anything is already there and
// never truncates or overwrites an existing file.
func Init(path string) (*Store, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, ErrStoreExists
		}
		return nil, fmt.Errorf("create store file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close new store file: %w", err)
	}

	return &Store{
		records: make(map[uuid.UUID]Record),
		path:    path,
	}, nil
}

// Open loads an existing store file. A zero-length file is an empty
// collection, not a decode error. Any other decode failure aborts the whole
// call: nothing is partially loaded. The returned store is bound to path
// regardless of anything recorded inside the file.
func Open(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	s := &Store{
		records: make(map[uuid.UUID]Record),
		path:    path,
	}
	if len(data) == 0 {
		return s, nil
	}

	var doc document
	if err := msgpack.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode store file %s: %w", path, err)
	}
	for key, rec := range doc.Records {
		id, err := uuid.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("decode store file %s: invalid record id %q: %w", path, key, err)
		}
		s.records[id] = rec
	}

	return s, nil
}

// Add inserts rec under a freshly generated id and returns that id.
// Identifiers are never caller-supplied and never reused.
func (s *Store) Add(rec Record) uuid.UUID {
	id := uuid.New()
	if _, exists := s.records[id]; exists {
		// A v4 collision does not happen in practice; failing loudly beats
		// silently replacing another record.
		panic(fmt.Sprintf("store: generated duplicate record id %s", id))
	}
	s.records[id] = rec
	return id
}

// Append adds every record in recs, each under its own fresh id.
func (s *Store) Append(recs []Record) {
	for _, rec := range recs {
		s.Add(rec)
	}
}

// Remove deletes the record with the given id and returns it. The second
// return value is false when the id is unknown; absence is not an error at
// this layer.
func (s *Store) Remove(id uuid.UUID) (Record, bool) {
	rec, ok := s.records[id]
	if ok {
		delete(s.records, id)
	}
	return rec, ok
}

// Query returns entries matching name, best match first. An empty name
// matches everything, ordered by id so repeated calls agree. An empty
// collection yields an empty result for any name.
func (s *Store) Query(name string) []Entry {
	if len(s.records) == 0 {
		return nil
	}

	if name == "" {
		entries := make([]Entry, 0, len(s.records))
		for id, rec := range s.records {
			entries = append(entries, Entry{ID: id, Record: rec})
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].ID.String() < entries[j].ID.String()
		})
		return entries
	}

	candidates := make([]match.Candidate, 0, len(s.records))
	for id, rec := range s.records {
		candidates = append(candidates, match.Candidate{ID: id, Name: rec.Name})
	}

	ranked := match.Rank(candidates, name)
	entries := make([]Entry, len(ranked))
	for i, id := range ranked {
		entries[i] = Entry{ID: id, Record: s.records[id]}
	}
	return entries
}

// Len returns the number of records currently held.
func (s *Store) Len() int {
	return len(s.records)
}

// Path returns the file the store is bound to.
func (s *Store) Path() string {
	return s.path
}

// Sync serialises the whole collection and overwrites the backing file in
// full. This is a plain truncate-then-write; a crash mid-write can corrupt
// the file, which is an accepted property of this store.
func (s *Store) Sync() error {
	doc := document{Records: make(map[string]Record, len(s.records))}
	for id, rec := range s.records {
		doc.Records[id.String()] = rec
	}

	data, err := msgpack.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open store file for sync: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write store file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close store file: %w", err)
	}

	return nil
}

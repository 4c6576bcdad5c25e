package store

import "github.com/google/uuid"

// Record is one stored credential. All three fields are free-form text kept
// verbatim; passwords are deliberately not transformed in any way.
type Record struct {
	Name     string `json:"name" msgpack:"name"`
	Username string `json:"username" msgpack:"username"`
	Password string `json:"password" msgpack:"password"`
}

// Entry pairs a record with its identifier, as returned by Query.
type Entry struct {
	ID     uuid.UUID
	Record Record
}

// document is the on-disk shape of the whole collection: a single MessagePack
// map keyed by the string form of each record's id. A zero-length file is
// also a valid encoding of the empty collection.
type document struct {
	Records map[string]Record `msgpack:"records"`
}

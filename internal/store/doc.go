// Package store holds king's in-memory account store and its sealed
// on-disk form.
//
// The Store keeps teachers and students in two maps, each behind its own
// mutex. Persistence is all-or-nothing: Encode turns a snapshot into JSON,
// Seal wraps it in an authenticated "KING" envelope, and FileStore writes the
// result through a temp file and rename. Loading runs the chain in reverse and
// reports any failure as ErrLoadFailed without producing a partial store.
//
// Seeding helpers build an initial store from bootstrap accounts supplied via
// environment variables or a YAML file; passwords are hashed before insertion.
package store

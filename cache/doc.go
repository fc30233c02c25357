// Package cache persists the raw inputs of a load cycle so a restart on
// the same day can skip the upstream fetch.
//
// Only raw stations and connections are stored. Indexes and aggregates
// are always rebuilt from them, so a cached entry can never disagree
// with the matching rules of the running binary.
//
// Entries are keyed by the cache-date tag (see Tag) and live in one of
// three stores: MemoryStore, FileStore or S3Store.
package cache

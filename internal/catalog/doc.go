// Package catalog persists titles, their deliverable variants, the source
// channel allow-list, and known users in SQLite.
//
// The Store is the single source of truth for catalog semantics: title
// deduplication is enforced by the lookup_key uniqueness constraint through
// insert-if-absent upserts, and variant uniqueness per (title, quality,
// language) through overwrite-on-conflict upserts. Application code never
// performs a read-then-write across two calls to uphold these invariants;
// the compound upserts are atomic at the storage layer.
package catalog

// Package repositories provides the SQLite persistence layer for ytsync.
//
//   - [CacheEntryRepository] : namespaced key/value payloads backing the sqlite cache store
//   - [SyncRunRepository] : one summary row per finished sync run
package repositories

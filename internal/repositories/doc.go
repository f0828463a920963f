// Package repositories implements storage backends for character sheets served by the reference API.
//
// Every backend implements [models.Repository] for [models.CharacterSheet] and assigns ascending integer identifiers:
//   - [SQLiteStore] : SQLite persistence with soft deletes via deleted_at timestamps
//   - [MemoryStore] : process-local ordered map, used for tests and throwaway servers
//   - [RedisStore] : JSON documents in Redis indexed by a sorted set
//
// Identifiers come from a per-table sequence. In SQLite the [NextSequence] function atomically increments a counter row
// in a dedicated sequence table, so ids are never reused even after a delete.
package repositories

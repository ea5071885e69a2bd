// Package redis provides a go-redis client wrapper with vlmscribe logging,
// connection pooling and component lifecycle support.
//
// TypedStore adds JSON-serialized documents with create-only semantics and
// a lexicographically sorted index, which is what the redis history backend
// is built on:
//
//	store := redis.NewTypedStore[history.Record](client, "vlmscribe:history")
//	created, err := store.Create(ctx, "20240101120000", &rec)
//	keys, err := store.Keys(ctx) // newest first
package redis

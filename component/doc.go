// Package component defines lifecycle-managed infrastructure for vlmscribe.
//
// Storage backends, the redis client, the SQL database and the HTTP server
// each implement Component and are registered with a Registry, which starts
// them in registration order and stops them in reverse.
package component

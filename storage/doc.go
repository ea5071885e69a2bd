// Package storage provides object storage abstractions with pluggable
// backends. History documents and uploaded images are kept behind the same
// Storage interface.
//
// # Backends
//
//   - storage/local: local filesystem, the default
//   - storage/s3: Amazon S3 and S3-compatible services (MinIO)
//   - storage/memory: in-process map for tests and ephemeral runs
//
// Backends register themselves with RegisterFactory from an init function,
// so import the ones you need:
//
//	import _ "github.com/kbukum/vlmscribe/storage/local"
//
// # Configuration
//
//	history:
//	  storage:
//	    provider: s3
//	    bucket: scans
//	    region: eu-west-1
package storage

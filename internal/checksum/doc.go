// Package checksum provides content hashing for merged manifests.
//
// Two digests are computed:
//
//   - Raw checksum: hash of the exact serialized output (detects all changes)
//   - Normalized checksum: hash after stripping XML comments and collapsing
//     whitespace (formatting-independent content identity)
//
// The normalized digest is stored in the merging report, so downstream
// tooling can tell whether a manifest was re-merged with identical content
// despite serialization differences.
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum

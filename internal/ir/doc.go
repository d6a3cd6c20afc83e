// Package ir provides the normalized intermediate representation shared by
// every decoder in naifuru.
//
// This package contains the format catalog, the processable unit handed to
// extractors, and the SeismicIR record they produce. All other internal
// packages import ir; ir imports nothing internal. This keeps IR the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - The format catalog is static and never mutated after init
//   - A ProcessableUnit's payload is owned by exactly one extractor at a time
//   - Multi-axis groups are merged with Assemble; single-axis units pass through
//   - Canonical JSON is the only serialization used for content digests
package ir

// Package store provides SQLite persistence for the workout-tracker
// domain entities.
//
// # Store Boundary Conventions
//
// Stores are pure I/O adapters. They fetch and persist data — nothing
// more.
//
// ## What stores DO:
//   - Map database rows to domain types and vice versa
//   - Execute SQL queries and handle database errors
//   - Return sentinel errors (domain.ErrExerciseNotFound, etc.) for
//     expected conditions
//   - Manage the two multi-statement transactions this schema needs
//     (cascading rename, cascading delete)
//
// ## What stores must NOT do:
//   - Resolve identifiers (that's the resolver package)
//   - Apply bodyweight augmentation, unit conversion, or PB detection
//     (that's the pipeline package)
//   - Enforce business rules beyond uniqueness and referential cascades
//
// ## Error handling:
//
// Stores return sentinel errors from the domain package, or a
// domain.StorageFailure wrapping an unexpected driver error. Callers
// compare with errors.Is; they never inspect driver-specific error
// strings except isUniqueConstraint, which exists precisely to translate
// a driver-specific string into a sentinel.
package store

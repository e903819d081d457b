// Package models defines the domain entities shared by the movieplex services, cache, repositories and surfaces.
//
// The package contains three categories of types:
//
// 1. Ingestion records: the shapes upstream data arrives in, tagged once at the boundary
//   - [LegacyRecord] : OMDb-style record with capitalized field names, used by the offline catalog
//   - [LiveRecord] : TMDB v3 movie record, optionally carrying appended detail resources
//   - [CanonicalRecord] : an already-normalized [Movie] re-entering normalization
//
// 2. Canonical values: what every read operation returns regardless of data source
//   - [Movie] : the normalized movie record
//   - [Page] : one page of movies with pagination totals
//   - [FilterSpec] : search filters and sort order
//
// 3. Persistent entities: database-backed list entries
//   - [ListEntry] : a favorite or watchlist entry holding a [Movie] snapshot
//
// The Repository[T] interface defines standard data access operations for persistent entities.
package models

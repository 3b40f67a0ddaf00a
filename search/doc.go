// Package search locates transit entities from noisy natural-language
// fragments in French.
//
// The pipeline: Normalize folds accents, lowercases, and rewrites
// spoken number words to digits; ExtractKeywords splits normalized
// text into meaningful tokens; Score rates a query against a catalog
// label with a tiered similarity measure. Catalog memoizes the
// provider's line and stop catalogs for the process lifetime, and
// Engine ties it all together for stop search, line resolution, and
// departure lookups.
//
// Engine and Catalog are not safe for concurrent use. The cache is a
// single-writer structure with no internal locking; concurrent callers
// must serialize access, as the HTTP layer does.
package search

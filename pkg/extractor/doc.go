// Package extractor implements the batch extraction commands.
//
// The Extractor type orchestrates the three batch jobs:
//   - Reacted users: page through a feed's posts within a day window,
//     fetch each post's likers, repliers and optionally reposters, and
//     union their DIDs into a per-feed set
//   - Feed likes: resolve a feed generator record and list the actors who
//     liked the record itself
//   - Creators: fetch profile fields and recent post texts per unique
//     creator DID
//
// Execution is strictly sequential by design: one input row at a time,
// one page at a time, one post's reactions at a time. Setup errors
// (unreadable input, missing required columns) abort the batch before any
// row is processed; a fetch failure for a single row is logged, produces
// an empty result row, and the batch continues.
package extractor

// Package tagging orchestrates the pipeline that turns a recording folder
// into a fully tagged album.
//
// Each folder moves through fixed stages: scanning, matching, resolving,
// synthesizing, artwork, applying. A stage failure stops that folder and is
// recorded in its Outcome; other folders are unaffected. Folders are
// processed concurrently under a bounded worker pool.
package tagging

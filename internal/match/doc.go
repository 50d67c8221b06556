// Package match identifies a recording folder against the reference catalog
// by comparing fingerprint sets.
//
// A folder matches a catalog checksum file only when their audio checksum
// sets are equal. Overlap is not enough: a subset or superset means a
// different edit of the recording (dropped filler, re-split discs) and must
// not silently inherit the catalog's metadata. When several recordings share
// an identical set, the shnid embedded in the folder name settles it.
package match

// Package boundary generates MIME multipart boundary tokens.
//
// A Generator draws fixed-length tokens from an explicit, seedable random
// source. Two generators built from the same seed return the same sequence,
// which makes multipart bodies byte-reproducible in tests. A Generator is
// owned by one caller at a time; concurrent encoders should each build their
// own.
package boundary

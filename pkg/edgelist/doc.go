// Package edgelist reads and writes the plain-text edge-list format.
//
// An edge-list file holds one link per line:
//
//	A,B
//	B,C
//	C,A
//
// Lines may end in LF or CRLF. Blank lines are skipped, identities are
// trimmed, and columns after the second one (edge weights in some exports)
// are ignored. Any other malformed line fails the whole parse with a
// PARSE_ERROR naming the line number, so that callers can keep whatever
// graph they had before.
//
// The distortion service uses a compact single-line form of the same data,
// where every link is terminated by '-':
//
//	A,B-B,C-C,A-
//
// [Encode] produces that form and [DecodeSegment] reads it back.
package edgelist

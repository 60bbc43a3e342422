// Package qadom parses and serializes JSON into a caller-supplied buffer.
//
// Parse and ParseInsitu write every node as a fixed 16-byte cell into a
// []byte the caller owns, sized ahead of time by CalculateMaxBufferSize; the
// DOM holds no memory outside that buffer (and, for ParseInsitu, the input).
// Parsing is not allocation-free: sorting an object's members uses a
// temporary Go slice. A Builder constructs the same
// representation by hand, for callers assembling a document instead of
// parsing one. Value, Object and Array are read-only views over a Document's
// cells; none of them copy unless the underlying string variant requires it.
package qadom

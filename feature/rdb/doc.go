// Package rdb decodes and encodes the .rdb binary table format.
//
// An .rdb file is a 16-byte header (8-byte magic tag, 8-byte big-endian
// metadata offset) followed by MessagePack-tagged fixmap records, one per
// row, terminated by a bare nil message and a one-field {count: uint} map.
//
// The package is split in two layers:
//
//   - Message level: DecodeMessage/EncodeMessage handle single tagged
//     primitives (ints, strings, hex-rendered binary, booleans, nil, and
//     map/array headers). Encoding always selects the smallest
//     representation that fits the value.
//   - Table level: Decode/Encode own the file framing: header, per-row
//     field pairs, column type discovery (first-seen type wins), the count
//     trailer, and the post-decode sort of rows by their "name" field.
//
// Malformed input surfaces as *FormatError carrying the byte offset; a
// format error aborts the whole file.
package rdb

// Package wire implements the ANCS byte-level protocol: the fixed
// Notification Source summary record, the Data Source attribute-response
// parser, and the Control Point command encoder.
//
// All multi-byte integers on the wire are little-endian. The package has
// no knowledge of GATT, transports, or concurrency; it is pure byte-stream
// encoding and decoding, driven by the session package.
package wire

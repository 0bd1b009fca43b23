package pgmt

import "hash/crc32"

// Checksum computes the CRC32 (IEEE polynomial) of content and
// reinterprets it as a signed 32-bit integer, two's complement. This is
// the wire format stored in and compared against _schema_history.
func Checksum(content string) int32 {
	return int32(crc32.ChecksumIEEE([]byte(content)))
}

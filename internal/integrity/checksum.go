// Package integrity implements the request checksum contract shared with
// clients and the gate that rejects payloads whose checksum does not match.
//
// The checksum is a 32-bit FNV-1a over Unicode code points. It detects
// corruption and casual tampering only; it is not a MAC.
package integrity

import "fmt"

const (
	fnvOffset32 uint32 = 0x811c9dc5
	fnvPrime32  uint32 = 0x01000193
)

// Digest returns the 8-character lowercase hex checksum of input+salt.
// Each code point (not each byte) is folded in, so non-ASCII input hashes
// the same as in clients that iterate over characters.
func Digest(input, salt string) string {
	h := fnvOffset32
	for _, s := range [2]string{input, salt} {
		for _, r := range s {
			h ^= uint32(r)
			h *= fnvPrime32
		}
	}
	return fmt.Sprintf("%08x", h)
}

// VerifyDigest reports whether candidate is exactly Digest(input, salt).
// The comparison is case-sensitive.
func VerifyDigest(input, salt, candidate string) bool {
	return Digest(input, salt) == candidate
}

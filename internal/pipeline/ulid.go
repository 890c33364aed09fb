package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Job IDs are ULIDs: 26-character Crockford Base32 strings with a 48-bit
// millisecond timestamp prefix, so IDs sort by creation time.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

func generateULID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	// 48-bit big-endian timestamp in the first 6 bytes.
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	rand.Read(b[6:])
	// Sequence in bytes 6-7 keeps IDs unique within one millisecond.
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeBase32(b)
}

// encodeBase32 packs 128 bits into 26 Crockford characters, consuming the
// bytes from least significant upward.
func encodeBase32(b [16]byte) string {
	var out [26]byte
	var acc uint64
	bits := 0
	idx := 25
	for i := 15; i >= 0; i-- {
		acc |= uint64(b[i]) << bits
		bits += 8
		for bits >= 5 && idx >= 0 {
			out[idx] = crockford[acc&31]
			acc >>= 5
			bits -= 5
			idx--
		}
	}
	for idx >= 0 {
		out[idx] = crockford[acc&31]
		acc >>= 5
		idx--
	}
	return string(out[:])
}

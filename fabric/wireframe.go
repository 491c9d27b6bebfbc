package fabric

import (
	"encoding/binary"
	"fmt"
)

// writeFrameHeaderSize is the on-wire header a remote write is prefixed
// with (16 bytes, little-endian, aligned), generalizing the teacher's
// 16-byte stream-frame header from {Length, StreamID, Type, Flags} to
// the one-sided-write tuple {RegionOffset, Length, Flags}.
//
//	uint64 regionOffset // target grain's absolute index, not a byte offset
//	uint32 length       // payload length in bytes, follows the header
//	uint8  flags        // per-write flags; 0 today
//	uint8  reserved     // zero, future use
//	uint16 reserved2    // zero, future use
const writeFrameHeaderSize = 16

type writeFrameHeader struct {
	RegionOffset uint64
	Length       uint32
	Flags        uint8
}

func encodeWriteFrameHeader(dst *[writeFrameHeaderSize]byte, h writeFrameHeader) {
	b := dst[:]
	binary.LittleEndian.PutUint64(b[0:8], h.RegionOffset)
	binary.LittleEndian.PutUint32(b[8:12], h.Length)
	b[12] = h.Flags
	b[13] = 0
	binary.LittleEndian.PutUint16(b[14:16], 0)
}

func decodeWriteFrameHeader(b []byte) (writeFrameHeader, error) {
	if len(b) < writeFrameHeaderSize {
		return writeFrameHeader{}, fmt.Errorf("fabric: write frame header too short: %d bytes", len(b))
	}
	var h writeFrameHeader
	h.RegionOffset = binary.LittleEndian.Uint64(b[0:8])
	h.Length = binary.LittleEndian.Uint32(b[8:12])
	h.Flags = b[12]
	return h, nil
}

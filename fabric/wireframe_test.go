package fabric

import "testing"

func TestWriteFrameHeaderRoundTrip(t *testing.T) {
	h := writeFrameHeader{RegionOffset: 0x1122334455, Length: 4096, Flags: 0x01}
	var buf [writeFrameHeaderSize]byte
	encodeWriteFrameHeader(&buf, h)

	got, err := decodeWriteFrameHeader(buf[:])
	if err != nil {
		t.Fatalf("decodeWriteFrameHeader: %v", err)
	}
	if got != h {
		t.Fatalf("got %+v, want %+v", got, h)
	}
}

func TestDecodeWriteFrameHeaderTooShort(t *testing.T) {
	if _, err := decodeWriteFrameHeader(make([]byte, 4)); err == nil {
		t.Fatal("expected error for short buffer")
	}
}

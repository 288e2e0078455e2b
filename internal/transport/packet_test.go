package transport

import "testing"

func TestEncodeOutboundSize(t *testing.T) {
	buf := encodeOutbound(5, []byte("hello"), false)
	if len(buf) != PacketSize {
		t.Fatalf("encodeOutbound produced %d bytes, want %d", len(buf), PacketSize)
	}
	if buf[0] != tagOutbound {
		t.Errorf("tag byte = 0x%02x, want 0x%02x", buf[0], tagOutbound)
	}
	if buf[2] != 5 {
		t.Errorf("seq byte = %d, want 5", buf[2])
	}
	if string(buf[headerSize:headerSize+5]) != "hello" {
		t.Errorf("payload = %q, want %q", buf[headerSize:headerSize+5], "hello")
	}
}

func TestEncodeOutboundContinuationBit(t *testing.T) {
	withCont := encodeOutbound(0, []byte("x"), true)
	withoutCont := encodeOutbound(0, []byte("x"), false)
	if withCont[1]&flagContinuation == 0 {
		t.Error("continuation flag not set when continuation=true")
	}
	if withoutCont[1]&flagContinuation != 0 {
		t.Error("continuation flag set when continuation=false")
	}
}

func TestEncodeOutboundLengthField(t *testing.T) {
	chunk := make([]byte, 10)
	buf := encodeOutbound(0, chunk, false)
	gotLen := int(buf[1] >> 2)
	if gotLen != len(chunk)+1 {
		t.Errorf("length field = %d, want %d", gotLen, len(chunk)+1)
	}
}

func TestEncodeAck(t *testing.T) {
	buf := encodeAck(42)
	if len(buf) != PacketSize {
		t.Fatalf("encodeAck produced %d bytes, want %d", len(buf), PacketSize)
	}
	if buf[0] != tagOutbound {
		t.Errorf("ack tag byte = 0x%02x, want 0x%02x", buf[0], tagOutbound)
	}
	if buf[2] != 42 {
		t.Errorf("ack seq byte = %d, want 42", buf[2])
	}
	if buf[1]&flagContinuation == 0 {
		t.Error("ack should carry the continuation bit")
	}
}

// buildInitial constructs a synthetic first-response packet: status byte
// 0x00, then payload, zero-padded to PacketSize.
func buildInitial(seq byte, payload []byte, continuation bool) []byte {
	buf := make([]byte, PacketSize)
	buf[0] = tagInbound
	size := len(payload) + 2 + 1 // status byte + payload + trailing zero slot
	flags := byte(size&0x3F) << 2
	if continuation {
		flags |= flagContinuation
	}
	buf[1] = flags
	buf[2] = seq
	buf[headerSize] = 0x00 // status: success
	copy(buf[headerSize+2:], payload)
	return buf
}

// buildContinuation constructs a synthetic non-first response packet.
func buildContinuation(seq byte, payload []byte, continuation bool) []byte {
	buf := make([]byte, PacketSize)
	buf[0] = tagInbound
	size := len(payload) + 1
	flags := byte(size&0x3F) << 2
	if continuation {
		flags |= flagContinuation
	}
	buf[1] = flags
	buf[2] = seq
	copy(buf[headerSize:], payload)
	return buf
}

func TestDecodeInboundInitialPacket(t *testing.T) {
	pkt, err := decodeInbound(buildInitial(1, []byte("abc"), false), true)
	if err != nil {
		t.Fatalf("decodeInbound returned error: %v", err)
	}
	if pkt.continuation {
		t.Error("continuation should be false")
	}
	if pkt.seq != 1 {
		t.Errorf("seq = %d, want 1", pkt.seq)
	}
	if string(pkt.payload) != "abc" {
		t.Errorf("payload = %q, want %q", pkt.payload, "abc")
	}
}

func TestDecodeInboundInitialEmptyPayload(t *testing.T) {
	pkt, err := decodeInbound(buildInitial(0, nil, false), true)
	if err != nil {
		t.Fatalf("decodeInbound returned error: %v", err)
	}
	if len(pkt.payload) != 0 {
		t.Errorf("payload = %v, want empty", pkt.payload)
	}
}

func TestDecodeInboundInitialStatusError(t *testing.T) {
	buf := buildInitial(0, nil, false)
	buf[headerSize] = 104 // "directory exists"
	_, err := decodeInbound(buf, true)
	if err == nil {
		t.Fatal("expected an error for nonzero status byte")
	}
}

func TestDecodeInboundContinuationPacket(t *testing.T) {
	pkt, err := decodeInbound(buildContinuation(2, []byte("xyz"), true), false)
	if err != nil {
		t.Fatalf("decodeInbound returned error: %v", err)
	}
	if !pkt.continuation {
		t.Error("continuation should be true")
	}
	if string(pkt.payload) != "xyz" {
		t.Errorf("payload = %q, want %q", pkt.payload, "xyz")
	}
}

func TestDecodeInboundNotification(t *testing.T) {
	buf := make([]byte, PacketSize)
	buf[0] = tagInbound
	buf[1] = flagNotification
	buf[2] = 7
	buf[headerSize] = 3 // battery notification type
	buf[headerSize+2] = 55

	pkt, err := decodeInbound(buf, false)
	if err != nil {
		t.Fatalf("decodeInbound returned error: %v", err)
	}
	if !pkt.notification {
		t.Error("notification flag not recognized")
	}
	if pkt.seq != 7 {
		t.Errorf("seq = %d, want 7", pkt.seq)
	}
}

func TestDecodeInboundUnrecognizedTag(t *testing.T) {
	buf := make([]byte, PacketSize)
	buf[0] = 0xFF
	_, err := decodeInbound(buf, true)
	if err == nil {
		t.Fatal("expected an error for an unrecognized frame tag")
	}
}

func TestDecodeInboundDeviceStatusOnBadTag(t *testing.T) {
	buf := make([]byte, PacketSize)
	buf[0] = 0xFF
	buf[3] = 205 // disk full
	_, err := decodeInbound(buf, true)
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestChunksSizeBoundaries(t *testing.T) {
	for _, n := range []int{0, 1, 60, 61, 62, 63, 64, 65, 121, 122, 123, 999} {
		payload := make([]byte, n)
		for i := range payload {
			payload[i] = byte(i)
		}
		parts := chunks(payload)

		if n == 0 {
			if len(parts) != 1 || len(parts[0]) != 0 {
				t.Errorf("chunks(empty) = %v, want one empty chunk", parts)
			}
			continue
		}

		var reassembled []byte
		for _, p := range parts {
			if len(p) > chunkSize {
				t.Errorf("chunk of size %d for input %d exceeds chunkSize %d", len(p), n, chunkSize)
			}
			reassembled = append(reassembled, p...)
		}
		if len(reassembled) != n {
			t.Errorf("chunks(%d bytes) reassembled to %d bytes", n, len(reassembled))
		}
		for i := range payload {
			if reassembled[i] != payload[i] {
				t.Fatalf("chunks(%d bytes) corrupted byte %d", n, i)
			}
		}
	}
}

package transport

import (
	"errors"
	"log"
	"testing"
)

// fakePort is an in-memory Port that plays a scripted request/response
// conversation: each call to Request below drives it through a real
// send/receive cycle against packets this test builds by hand.
type fakePort struct {
	writes   [][]byte
	toRead   [][]byte
	readPos  int
	writeErr error
}

func (p *fakePort) WritePacket(buf []byte) error {
	cp := append([]byte(nil), buf...)
	p.writes = append(p.writes, cp)
	return p.writeErr
}

func (p *fakePort) ReadPacket() ([]byte, error) {
	if p.readPos >= len(p.toRead) {
		return nil, errors.New("fakePort: no more packets queued")
	}
	pkt := p.toRead[p.readPos]
	p.readPos++
	return pkt, nil
}

func testLogger() *log.Logger {
	return log.New(discard{}, "", 0)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// firstChunkSize is the most a first inbound packet can carry: decodeInbound
// reserves two extra bytes (headerSize+2 start) on the initial packet for
// the status byte and the trailing-zero slot, so it holds two bytes less
// than chunkSize before the 6-bit length field or the 64-byte buffer would
// overflow.
const firstChunkSize = chunkSize - 2

// splitForResponse splits payload into the packet-sized slices an inbound
// response uses: a first chunk capped at firstChunkSize bytes, followed by
// ordinary chunkSize-capped continuation chunks.
func splitForResponse(payload []byte) [][]byte {
	if len(payload) == 0 {
		return [][]byte{{}}
	}
	first := firstChunkSize
	if first > len(payload) {
		first = len(payload)
	}
	out := [][]byte{payload[:first]}
	rest := payload[first:]
	for len(rest) > 0 {
		n := chunkSize
		if n > len(rest) {
			n = len(rest)
		}
		out = append(out, rest[:n])
		rest = rest[n:]
	}
	return out
}

// buildResponse encodes payload as a sequence of synthetic inbound packets
// (status byte on the first, ACKs interleaved), exactly as a real device
// would for a SimpleRequest-shaped reply.
func buildResponse(payload []byte) [][]byte {
	parts := splitForResponse(payload)
	var out [][]byte
	for i, chunk := range parts {
		hasMore := i < len(parts)-1
		var buf []byte
		if i == 0 {
			buf = buildInitial(tailBits(i), chunk, hasMore)
		} else {
			buf = buildContinuation(tailBits(i), chunk, hasMore)
		}
		out = append(out, buf)
		if hasMore {
			// the ack write from the fragmenter is not itself a
			// packet we need to read; nothing queued here.
		}
	}
	return out
}

func TestFragmenterRequestRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 60, 61, 62, 120, 200, 1000} {
		payload := make([]byte, n)
		for i := range payload {
			payload[i] = byte(i % 251)
		}

		port := &fakePort{toRead: buildResponse(payload)}
		frag := NewFragmenter(port, testLogger())

		got, err := frag.Request([]byte("request"))
		if err != nil {
			t.Fatalf("size %d: Request returned error: %v", n, err)
		}
		if len(got) != len(payload) {
			t.Fatalf("size %d: got %d bytes, want %d", n, len(got), len(payload))
		}
		for i := range payload {
			if got[i] != payload[i] {
				t.Fatalf("size %d: byte %d corrupted", n, i)
			}
		}
	}
}

func TestFragmenterSendChunksOutbound(t *testing.T) {
	payload := make([]byte, 150)
	// send() discards one read per non-final outbound packet (the ack);
	// queue enough dummy packets to cover every such read.
	dummy := make([][]byte, len(chunks(payload)))
	for i := range dummy {
		dummy[i] = make([]byte, PacketSize)
	}
	port := &fakePort{toRead: dummy}
	frag := NewFragmenter(port, testLogger())

	if err := frag.send(payload); err != nil {
		t.Fatalf("send returned error: %v", err)
	}

	want := len(chunks(payload))
	if len(port.writes) != want {
		t.Fatalf("send wrote %d packets, want %d", len(port.writes), want)
	}
	for i, w := range port.writes {
		if len(w) != PacketSize {
			t.Errorf("packet %d is %d bytes, want %d", i, len(w), PacketSize)
		}
		if w[2] != tailBits(i) {
			t.Errorf("packet %d seq = %d, want %d", i, w[2], tailBits(i))
		}
	}
}

func TestFragmenterNotificationTransparency(t *testing.T) {
	notif := make([]byte, PacketSize)
	notif[0] = tagInbound
	notif[1] = flagNotification
	notif[2] = 0
	notif[headerSize] = 2 // idling notification

	payload := []byte("answer")
	resp := buildResponse(payload)
	all := append([][]byte{notif}, resp...)

	port := &fakePort{toRead: all}
	frag := NewFragmenter(port, testLogger())

	got, err := frag.Request([]byte("req"))
	if err != nil {
		t.Fatalf("Request returned error: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("got %q, want %q", got, payload)
	}
}

func TestFragmenterSequenceMismatch(t *testing.T) {
	bad := buildInitial(5, []byte("x"), false) // seq should start at 0
	port := &fakePort{toRead: [][]byte{bad}}
	frag := NewFragmenter(port, testLogger())

	_, err := frag.Request([]byte("req"))
	if err == nil {
		t.Fatal("expected a sequence mismatch error")
	}
}

func TestFragmenterSequenceWrapsAround(t *testing.T) {
	// 260 continuation packets forces the seq byte past 0xFF and back to
	// 0x00; the fragmenter must track it with byte wraparound, not int.
	const count = 260
	payload := make([]byte, chunkSize*count)
	for i := range payload {
		payload[i] = byte(i % 7)
	}

	port := &fakePort{toRead: buildResponse(payload)}
	frag := NewFragmenter(port, testLogger())

	got, err := frag.Request([]byte("req"))
	if err != nil {
		t.Fatalf("Request returned error: %v", err)
	}
	if len(got) != len(payload) {
		t.Fatalf("got %d bytes, want %d", len(got), len(payload))
	}
}

func TestFragmenterSimpleRequestFraming(t *testing.T) {
	port := &fakePort{toRead: buildResponse(nil)}
	frag := NewFragmenter(port, testLogger())

	if _, err := frag.SimpleRequest([]byte("abc")); err != nil {
		t.Fatalf("SimpleRequest returned error: %v", err)
	}
	if len(port.writes) == 0 {
		t.Fatal("SimpleRequest issued no writes")
	}
	first := port.writes[0]
	if first[headerSize] != tailBits(len("abc")) {
		t.Errorf("simple-request length header = %d, want %d", first[headerSize], tailBits(len("abc")))
	}
}

package transport

import (
	"log"

	"github.com/guiperry/polarwatch/internal/polarerr"
)

// Port is the blocking I/O primitive the fragmenter drives: read and write
// one raw 64-byte USB interrupt packet. DeviceSession implements it against
// a real USB handle; tests substitute a fake.
type Port interface {
	ReadPacket() ([]byte, error)
	WritePacket(buf []byte) error
}

// Fragmenter splits application payloads across outbound packets, performs
// the mid-stream ACK exchange, and reassembles inbound packets into a
// single response, filtering asynchronous notifications out transparently.
type Fragmenter struct {
	port   Port
	logger *log.Logger
}

// NewFragmenter wraps port with the send/receive protocol described by the
// PFTP transport. logger receives notification log lines; a nil logger
// falls back to log.Default().
func NewFragmenter(port Port, logger *log.Logger) *Fragmenter {
	if logger == nil {
		logger = log.Default()
	}
	return &Fragmenter{port: port, logger: logger}
}

// Request sends payload, fragmented across outbound packets, and returns
// the reassembled response exactly as decoded. Callers that expect a
// trailing zero byte (see pftp.Client.Read) strip it themselves.
func (f *Fragmenter) Request(payload []byte) ([]byte, error) {
	if err := f.send(payload); err != nil {
		return nil, err
	}
	return f.receive()
}

// SimpleRequest wraps payload in the simple-request frame used by read,
// mkdir, and delete: a two-byte header (length, zero) and a trailing zero.
func (f *Fragmenter) SimpleRequest(payload []byte) ([]byte, error) {
	frame := make([]byte, 0, len(payload)+3)
	frame = append(frame, tailBits(len(payload)), 0x00)
	frame = append(frame, payload...)
	frame = append(frame, 0x00)
	return f.Request(frame)
}

func (f *Fragmenter) send(payload []byte) error {
	parts := chunks(payload)
	for i, chunk := range parts {
		hasMore := i < len(parts)-1
		pkt := encodeOutbound(tailBits(i), chunk, hasMore)
		if err := f.port.WritePacket(pkt); err != nil {
			return polarerr.Transport(err)
		}
		if hasMore {
			if _, err := f.port.ReadPacket(); err != nil {
				return polarerr.Transport(err)
			}
		}
	}
	return nil
}

func (f *Fragmenter) receive() ([]byte, error) {
	var seq byte
	initial := true
	var data []byte

	for {
		raw, err := f.port.ReadPacket()
		if err != nil {
			return nil, polarerr.Transport(err)
		}

		pkt, err := decodeInbound(raw, initial)
		if err != nil {
			return nil, err
		}

		if pkt.notification {
			handleNotification(f.logger, pkt)
			continue
		}

		if pkt.seq != seq {
			return nil, polarerr.Protocolf("sequence mismatch: expected %d, got %d", seq, pkt.seq)
		}

		data = append(data, pkt.payload...)

		if !pkt.continuation {
			return data, nil
		}

		if err := f.port.WritePacket(encodeAck(seq)); err != nil {
			return nil, polarerr.Transport(err)
		}

		seq++
		initial = false
	}
}

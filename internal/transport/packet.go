package transport

import "github.com/guiperry/polarwatch/internal/polarerr"

const (
	// PacketSize is the fixed size of every USB interrupt packet on the wire.
	PacketSize = 64
	// headerSize is the tag/flags/seq prefix carried by every packet.
	headerSize = 3
	// chunkSize is the largest payload slice a single outbound packet can carry.
	chunkSize = PacketSize - headerSize

	tagOutbound = 0x01
	tagInbound  = 0x11

	flagContinuation = 0x01
	flagNotification = 0x02
)

// tailBits stores n modulo 256 in a single byte, as used for every size and
// sequence number field that crosses the wire.
func tailBits(n int) byte {
	return byte(n % 256)
}

// encodeOutbound builds one 64-byte outbound packet carrying chunk at
// sequence seq. The length field always encodes len(chunk)+1 to account
// for the always-present trailing zero slot, whether or not this is the
// final packet of the request.
func encodeOutbound(seq byte, chunk []byte, continuation bool) []byte {
	buf := make([]byte, PacketSize)
	buf[0] = tagOutbound
	size := len(chunk) + 1
	flags := byte(size&0x3F) << 2
	if continuation {
		flags |= flagContinuation
	}
	buf[1] = flags
	buf[2] = seq
	copy(buf[headerSize:], chunk)
	return buf
}

// encodeAck builds the mid-stream acknowledgement packet sent after
// consuming a continuation packet during reassembly.
func encodeAck(seq byte) []byte {
	buf := make([]byte, PacketSize)
	buf[0] = tagOutbound
	buf[1] = (1 << 2) | flagContinuation
	buf[2] = seq
	return buf
}

// inboundPacket is the parsed form of a single 64-byte response packet.
type inboundPacket struct {
	notification bool
	continuation bool
	seq          byte
	payload      []byte // meaningful bytes, trailing zero already stripped
}

// decodeInbound parses one inbound packet. initial indicates this is the
// first packet of the current response (the one that may carry a leading
// status byte). A non-0x11 frame tag or a nonzero status byte on the
// initial packet is surfaced via the same device status taxonomy used for
// application-level errors, matching the reference implementation.
func decodeInbound(buf []byte, initial bool) (inboundPacket, error) {
	if len(buf) < headerSize+1 {
		return inboundPacket{}, polarerr.Protocol("malformed packet: too short")
	}
	if buf[0] != tagInbound {
		if buf[3] == 0 {
			return inboundPacket{}, polarerr.Protocolf("unrecognized frame tag 0x%02x", buf[0])
		}
		return inboundPacket{}, polarerr.FromStatus(int(buf[3]))
	}

	flags := buf[1]
	size := int(flags >> 2)
	continuation := flags&flagContinuation != 0
	notification := flags&flagNotification != 0
	seq := buf[2]

	if notification {
		return inboundPacket{notification: true, seq: seq, payload: buf[headerSize:]}, nil
	}

	start := headerSize
	if initial {
		if buf[headerSize] != 0 {
			return inboundPacket{}, polarerr.FromStatus(int(buf[headerSize]))
		}
		if size < 2 {
			size = 2
		}
		size -= 2
		start += 2
	}

	end := start
	if size > 0 {
		end = start + size - 1
	}
	if end > len(buf) {
		return inboundPacket{}, polarerr.Protocol("malformed packet: payload exceeds buffer")
	}

	payload := append([]byte(nil), buf[start:end]...)
	return inboundPacket{continuation: continuation, seq: seq, payload: payload}, nil
}

// chunks splits payload into ordered slices of at most chunkSize bytes.
// A zero-length payload still yields exactly one (empty) chunk, since the
// protocol always sends at least one outbound packet per request.
func chunks(payload []byte) [][]byte {
	if len(payload) == 0 {
		return [][]byte{{}}
	}
	var out [][]byte
	for len(payload) > 0 {
		n := chunkSize
		if n > len(payload) {
			n = len(payload)
		}
		out = append(out, payload[:n])
		payload = payload[n:]
	}
	return out
}

package transport

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/gousb"

	"github.com/guiperry/polarwatch/internal/polarerr"
)

const (
	// DefaultVendorID and DefaultProductID identify a Polar watch on the USB bus.
	DefaultVendorID  = gousb.ID(0x0da4)
	DefaultProductID = gousb.ID(0x0008)
	// DefaultTimeout bounds every interrupt transfer.
	DefaultTimeout = 5 * time.Second

	interfaceNum = 0
	endpointNum  = 1
)

// DeviceSession owns a claimed USB interface for the lifetime of a PFTP
// conversation. It is not safe for concurrent use and must not be copied;
// callers hold it behind a pointer for its entire lifetime and Close it
// exactly once.
type DeviceSession struct {
	device  *gousb.Device
	config  *gousb.Config
	iface   *gousb.Interface
	in      *gousb.InEndpoint
	out     *gousb.OutEndpoint
	timeout time.Duration
	logger  *log.Logger
}

// Open claims interface 0 of dev, detaching the kernel driver first when
// one is attached, and returns a session bound to the IN/OUT endpoints at
// endpointNum. timeout bounds every subsequent interrupt transfer; zero
// selects DefaultTimeout. A nil logger falls back to log.Default().
func Open(dev *gousb.Device, timeout time.Duration, logger *log.Logger) (*DeviceSession, error) {
	if logger == nil {
		logger = log.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	// Kernel driver detach is best-effort: some hosts report "not
	// supported" for the query itself, in which case we skip it rather
	// than treat that as fatal, and "not found" means there was nothing
	// to detach. Any other failure here is fatal.
	if err := dev.SetAutoDetach(true); err != nil {
		switch {
		case errors.Is(err, gousb.ErrorNotSupported):
			logger.Printf("polarwatch: kernel driver detach not supported, skipping")
		case errors.Is(err, gousb.ErrorNotFound):
			logger.Printf("polarwatch: no kernel driver attached")
		default:
			dev.Close()
			return nil, polarerr.Transport(err)
		}
	}

	cfg, err := dev.Config(1)
	if err != nil {
		dev.Close()
		return nil, polarerr.Transport(err)
	}

	iface, err := cfg.Interface(interfaceNum, 0)
	if err != nil {
		cfg.Close()
		dev.Close()
		return nil, polarerr.Transport(err)
	}

	in, err := iface.InEndpoint(endpointNum)
	if err != nil {
		iface.Close()
		cfg.Close()
		dev.Close()
		return nil, polarerr.Transport(err)
	}

	out, err := iface.OutEndpoint(endpointNum)
	if err != nil {
		iface.Close()
		cfg.Close()
		dev.Close()
		return nil, polarerr.Transport(err)
	}

	return &DeviceSession{
		device:  dev,
		config:  cfg,
		iface:   iface,
		in:      in,
		out:     out,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// ReadPacket blocks for up to the session timeout on an interrupt IN
// transfer and returns the raw 64-byte buffer.
func (s *DeviceSession) ReadPacket() ([]byte, error) {
	buf := make([]byte, PacketSize)
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.in.ReadContext(ctx, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WritePacket zero-extends buf to PacketSize if needed and writes an
// interrupt OUT transfer bounded by the session timeout.
func (s *DeviceSession) WritePacket(buf []byte) error {
	if len(buf) > PacketSize {
		return polarerr.Protocol("packet exceeds maximum size")
	}
	full := buf
	if len(full) < PacketSize {
		full = make([]byte, PacketSize)
		copy(full, buf)
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_, err := s.out.WriteContext(ctx, full)
	return err
}

// Close releases the claimed interface, configuration, and device handle,
// in that order. The session must not be used afterward.
func (s *DeviceSession) Close() error {
	s.iface.Close()
	if err := s.config.Close(); err != nil {
		s.device.Close()
		return polarerr.Transport(err)
	}
	if err := s.device.Close(); err != nil {
		return polarerr.Transport(err)
	}
	return nil
}

// Package discovery enumerates USB devices and filters them down to Polar
// watch sessions by vendor/product identifier, the way the teacher's own
// device code opens a device by VID/PID before claiming an interface.
package discovery

import (
	"log"
	"time"

	"github.com/google/gousb"

	"github.com/guiperry/polarwatch/internal/config"
	"github.com/guiperry/polarwatch/internal/polarerr"
	"github.com/guiperry/polarwatch/internal/transport"
)

// Options narrows discovery to a specific vendor/product pair and bounds
// the resulting sessions' I/O timeout. Zero values select the built-in
// Polar watch identifiers and the default transport timeout.
type Options struct {
	VendorID  gousb.ID
	ProductID gousb.ID
	Timeout   time.Duration
	Logger    *log.Logger
}

// FromConfig turns a loaded config.Config into discovery Options, falling
// back to the package defaults for any field left at its zero value.
func FromConfig(cfg *config.Config) Options {
	opts := Options{}
	if cfg != nil {
		opts.VendorID = gousb.ID(cfg.VendorID)
		opts.ProductID = gousb.ID(cfg.ProductID)
		opts.Timeout = cfg.Timeout
	}
	return opts
}

func (o Options) resolve() (gousb.ID, gousb.ID, time.Duration, *log.Logger) {
	vendor, product, timeout, logger := o.VendorID, o.ProductID, o.Timeout, o.Logger
	if vendor == 0 {
		vendor = transport.DefaultVendorID
	}
	if product == 0 {
		product = transport.DefaultProductID
	}
	if timeout <= 0 {
		timeout = transport.DefaultTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return vendor, product, timeout, logger
}

// FindOne opens the last enumerated matching device and returns a claimed
// session, or an error if no compatible watch is attached.
func FindOne(ctx *gousb.Context, opts Options) (*transport.DeviceSession, error) {
	vendor, product, timeout, logger := opts.resolve()

	devices, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == vendor && desc.Product == product
	})
	if err != nil {
		closeAll(devices)
		return nil, polarerr.Transport(err)
	}

	if len(devices) == 0 {
		return nil, polarerr.Protocol("Watch not found")
	}

	chosen := devices[len(devices)-1]
	for _, d := range devices[:len(devices)-1] {
		d.Close()
	}

	logger.Printf("polarwatch: found %d compatible device(s)", len(devices))
	return transport.Open(chosen, timeout, logger)
}

// FindAll opens every enumerated matching device and returns one claimed
// session per device.
func FindAll(ctx *gousb.Context, opts Options) ([]*transport.DeviceSession, error) {
	vendor, product, timeout, logger := opts.resolve()

	devices, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == vendor && desc.Product == product
	})
	if err != nil {
		closeAll(devices)
		return nil, polarerr.Transport(err)
	}

	logger.Printf("polarwatch: found %d compatible device(s)", len(devices))

	sessions := make([]*transport.DeviceSession, 0, len(devices))
	for _, d := range devices {
		session, err := transport.Open(d, timeout, logger)
		if err != nil {
			for _, s := range sessions {
				s.Close()
			}
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func closeAll(devices []*gousb.Device) {
	for _, d := range devices {
		d.Close()
	}
}

package led

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// DefaultFreq is a bit clock WS2812 strips accept over SPI.
const DefaultFreq = 2500 * physic.KiloHertz

// NRZ drives a WS281x strip through an SPI port using periph's nrzled encoder.
type NRZ struct {
	mu     sync.Mutex
	dev    *nrzled.Dev
	port   spi.PortCloser // nil when the caller owns the port
	pixels int
	closed bool
}

// NewNRZ wraps an already opened port.
func NewNRZ(port spi.Port, pixels int, freq physic.Frequency) (*NRZ, error) {
	if pixels <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", pixels)
	}
	if freq <= 0 {
		freq = DefaultFreq
	}
	d, err := nrzled.NewSPI(port, &nrzled.Opts{NumPixels: pixels, Channels: 3, Freq: freq})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return &NRZ{dev: d, pixels: pixels}, nil
}

// OpenSPI initializes the host drivers and opens the named SPI port ("" for
// the first available one).
func OpenSPI(name string, pixels int, freq physic.Frequency) (*NRZ, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", name, err)
	}
	n, err := NewNRZ(p, pixels, freq)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	n.port = p
	return n, nil
}

func (n *NRZ) Write(rgb []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return ErrClosed
	}
	if len(rgb) != n.pixels*3 {
		return fmt.Errorf("rgb length %d does not match count %d", len(rgb), n.pixels)
	}
	if _, err := n.dev.Write(rgb); err != nil {
		return fmt.Errorf("spi write: %w", err)
	}
	return nil
}

// Close blanks the strip and releases the port if this driver opened it.
func (n *NRZ) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true
	err := n.dev.Halt()
	if n.port != nil {
		if cerr := n.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (n *NRZ) String() string { return n.dev.String() }

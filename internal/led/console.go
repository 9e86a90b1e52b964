package led

import (
	"fmt"
	"sync"

	"periph.io/x/extra/devices/screen"
)

// Console paints the strip as a row of ANSI blocks on stdout.
type Console struct {
	mu     sync.Mutex
	dev    *screen.Dev
	pixels int
	closed bool
}

func NewConsole(pixels int) (*Console, error) {
	if pixels <= 0 {
		return nil, fmt.Errorf("led: console needs a positive pixel count, got %d", pixels)
	}
	return &Console{dev: screen.New(pixels), pixels: pixels}, nil
}

func (c *Console) Write(rgb []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if len(rgb) != c.pixels*3 {
		return fmt.Errorf("led: console expects %d bytes, got %d", c.pixels*3, len(rgb))
	}
	_, err := c.dev.Write(rgb)
	return err
}

func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.dev.Halt()
}

func (c *Console) String() string { return c.dev.String() }

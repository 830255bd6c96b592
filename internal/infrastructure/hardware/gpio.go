package hardware

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type OutputPin interface {
	Set(high bool) error
}

type InputPin interface {
	Get() (bool, error)
}

// SysfsPin drives a GPIO line through /sys/class/gpio/gpioN/value. The pin
// must already be exported with the right direction.
type SysfsPin struct {
	value *os.File
}

func OpenSysfsPin(root string, line int) (*SysfsPin, error) {
	path := filepath.Join(root, "gpio"+strconv.Itoa(line), "value")

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("SysfsPin - Open - os.OpenFile %s: %w", path, err)
	}

	return &SysfsPin{value: f}, nil
}

func (p *SysfsPin) Set(high bool) error {
	v := []byte("0")
	if high {
		v = []byte("1")
	}

	_, err := p.value.WriteAt(v, 0)
	if err != nil {
		return fmt.Errorf("SysfsPin - Set - p.value.WriteAt: %w", err)
	}

	return nil
}

func (p *SysfsPin) Get() (bool, error) {
	buf := make([]byte, 2)

	n, err := p.value.ReadAt(buf, 0)
	if n == 0 {
		return false, fmt.Errorf("SysfsPin - Get - p.value.ReadAt: %w", err)
	}

	return bytes.HasPrefix(buf[:n], []byte("1")), nil
}

func (p *SysfsPin) Close() error {
	return p.value.Close()
}

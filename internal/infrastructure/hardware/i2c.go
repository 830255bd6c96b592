package hardware

import (
	"fmt"
	"os"
	"time"

	"github.com/andreyxaxa/Access-Gate/pkg/types/errs"
	"golang.org/x/sys/unix"
)

// I2C_SLAVE from linux/i2c-dev.h
const _i2cSlave = 0x0703

type I2CBus interface {
	Write(b []byte) error
}

// LinuxI2C talks to a single device on /dev/i2c-N.
type LinuxI2C struct {
	f       *os.File
	timeout time.Duration
}

func OpenLinuxI2C(path string, addr uint16, timeout time.Duration) (*LinuxI2C, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("LinuxI2C - Open - os.OpenFile %s: %w", path, err)
	}

	err = unix.IoctlSetInt(int(f.Fd()), _i2cSlave, int(addr))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("LinuxI2C - Open - unix.IoctlSetInt I2C_SLAVE %#x: %w", addr, err)
	}

	return &LinuxI2C{f: f, timeout: timeout}, nil
}

// Write fails with errs.ErrTimeout when the adapter does not finish in time.
// i2c-dev descriptors cannot take deadlines, so the write runs aside and a
// stuck write is abandoned.
func (b *LinuxI2C) Write(p []byte) error {
	done := make(chan error, 1)

	go func() {
		_, err := b.f.Write(p)
		done <- err
	}()

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("LinuxI2C - Write - b.f.Write: %w", err)
		}
		return nil
	case <-timer.C:
		return fmt.Errorf("LinuxI2C - Write: %w", errs.ErrTimeout)
	}
}

func (b *LinuxI2C) Close() error {
	return b.f.Close()
}

package hardware

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/andreyxaxa/Access-Gate/pkg/logger"
)

// SysfsLED drives /sys/class/leds/<name>/brightness.
type SysfsLED struct {
	brightness string
	on         []byte
}

func NewSysfsLED(root, name string, maxBrightness int) *SysfsLED {
	return &SysfsLED{
		brightness: filepath.Join(root, name, "brightness"),
		on:         []byte(fmt.Sprint(maxBrightness)),
	}
}

func (l *SysfsLED) On() error {
	return l.write(l.on)
}

func (l *SysfsLED) Off() error {
	return l.write([]byte("0"))
}

func (l *SysfsLED) write(v []byte) error {
	err := os.WriteFile(l.brightness, v, 0)
	if err != nil {
		return fmt.Errorf("SysfsLED - write %s: %w", l.brightness, err)
	}

	return nil
}

// LogIndicator only logs. For hosts without a flash LED.
type LogIndicator struct {
	logger logger.Interface
}

func NewLogIndicator(l logger.Interface) *LogIndicator {
	return &LogIndicator{logger: l}
}

func (i *LogIndicator) On() error {
	i.logger.Debug("indicator on")
	return nil
}

func (i *LogIndicator) Off() error {
	i.logger.Debug("indicator off")
	return nil
}

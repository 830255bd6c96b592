package hardware

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// PCF8574 backpack wiring: P0 RS, P1 RW, P2 EN, P3 backlight, P4-P7 D4-D7.
const (
	_rs        byte = 0x01
	_enable    byte = 0x04
	_backlight byte = 0x08

	_cmdClear       byte = 0x01
	_cmdEntryMode   byte = 0x06 // increment, no shift
	_cmdDisplayOn   byte = 0x0C // display on, cursor off, blink off
	_cmdFunctionSet byte = 0x28 // 4-bit, 2 lines, 5x8
	_cmdSetDDRAM    byte = 0x80
)

var _rowOffsets = [4]byte{0x00, 0x40, 0x14, 0x54}

// LCD is an HD44780 character display in 4-bit mode behind a PCF8574.
// It is not safe for concurrent use; the display task owns it.
type LCD struct {
	bus  I2CBus
	cols int
	rows int

	sleep func(time.Duration)
}

func NewLCD(bus I2CBus, cols, rows int) *LCD {
	return &LCD{bus: bus, cols: cols, rows: rows, sleep: time.Sleep}
}

// Init runs the 4-bit initialisation sequence from the HD44780 datasheet.
func (l *LCD) Init(_ context.Context) error {
	l.sleep(50 * time.Millisecond)

	for _, step := range []struct {
		nibble byte
		wait   time.Duration
	}{
		{0x03, 4500 * time.Microsecond},
		{0x03, 4500 * time.Microsecond},
		{0x03, 150 * time.Microsecond},
		{0x02, 150 * time.Microsecond},
	} {
		if err := l.writeNibble(step.nibble, 0); err != nil {
			return fmt.Errorf("LCD - Init - l.writeNibble: %w", err)
		}
		l.sleep(step.wait)
	}

	for _, cmd := range []byte{_cmdFunctionSet, _cmdDisplayOn, _cmdClear, _cmdEntryMode} {
		if err := l.command(cmd); err != nil {
			return fmt.Errorf("LCD - Init - l.command %#x: %w", cmd, err)
		}
	}

	return nil
}

func (l *LCD) Clear(_ context.Context) error {
	if err := l.command(_cmdClear); err != nil {
		return fmt.Errorf("LCD - Clear: %w", err)
	}

	return nil
}

// Show clears the screen and writes one string per row. Lines are cut to
// the display width.
func (l *LCD) Show(ctx context.Context, lines ...string) error {
	if err := l.Clear(ctx); err != nil {
		return fmt.Errorf("LCD - Show: %w", err)
	}

	for row, line := range lines {
		if row >= l.rows {
			break
		}

		if err := l.command(_cmdSetDDRAM | _rowOffsets[row]); err != nil {
			return fmt.Errorf("LCD - Show - set cursor: %w", err)
		}

		for _, c := range []byte(fit(line, l.cols)) {
			if err := l.write(c, _rs); err != nil {
				return fmt.Errorf("LCD - Show - l.write: %w", err)
			}
		}
	}

	return nil
}

func (l *LCD) command(cmd byte) error {
	if err := l.write(cmd, 0); err != nil {
		return err
	}
	if cmd == _cmdClear {
		l.sleep(2 * time.Millisecond)
	}

	return nil
}

func (l *LCD) write(b, mode byte) error {
	if err := l.writeNibble(b>>4, mode); err != nil {
		return err
	}

	return l.writeNibble(b&0x0F, mode)
}

// writeNibble latches four data bits with an enable pulse.
func (l *LCD) writeNibble(nibble, mode byte) error {
	v := nibble<<4 | mode | _backlight

	return l.bus.Write([]byte{v | _enable, v})
}

// fit pads or cuts s to n printable ASCII characters.
func fit(s string, n int) string {
	var b strings.Builder
	for _, r := range s {
		if b.Len() == n {
			break
		}
		if r < 0x20 || r > 0x7E {
			r = '?'
		}
		b.WriteRune(r)
	}

	return b.String() + strings.Repeat(" ", n-b.Len())
}

package input

// Mouse reporting control sequences: button-event tracking (motion is only
// reported while a button is held) with SGR extended coordinates.
const (
	EnableMouse  = "\x1b[?1002h\x1b[?1006h"
	DisableMouse = "\x1b[?1006l\x1b[?1002l"
)

// MouseButton identifies the button in a mouse report.
type MouseButton uint8

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// MouseEvent is one decoded SGR mouse report. X and Y are 0-indexed
// terminal cells.
type MouseEvent struct {
	X, Y   int
	Button MouseButton
	Press  bool // False for a release
	Motion bool
}

// parseSGRMouse decodes "ESC [ < Btn ; X ; Y M/m" at the start of data.
// It returns the number of bytes consumed; 0 with complete=false means the
// sequence is not terminated yet, 0 with complete=true means it is malformed.
func parseSGRMouse(data []byte) (n int, ev MouseEvent, complete bool) {
	if len(data) < 3 || data[0] != '\x1b' || data[1] != '[' || data[2] != '<' {
		return 0, MouseEvent{}, true
	}

	end := 3
	for end < len(data) && end < 32 {
		if data[end] == 'M' || data[end] == 'm' {
			break
		}
		end++
	}
	if end >= len(data) {
		// Still arriving, unless it is already too long to be valid.
		return 0, MouseEvent{}, end >= 32
	}
	if data[end] != 'M' && data[end] != 'm' {
		return 0, MouseEvent{}, true
	}

	btn, x, y, ok := parseSGRParams(data[3:end])
	if !ok {
		return end + 1, MouseEvent{}, true
	}

	ev = MouseEvent{X: x - 1, Y: y - 1, Press: data[end] == 'M'}

	// Bits 0-1: button (0=left, 1=middle, 2=right, 3=none)
	// Bit 5 (32): motion
	// Bit 6 (64): scroll
	buttonID := btn & 0x03
	ev.Motion = btn&32 != 0

	if btn&64 != 0 {
		if buttonID == 0 {
			ev.Button = MouseWheelUp
		} else {
			ev.Button = MouseWheelDown
		}
		ev.Press = true
		return end + 1, ev, true
	}

	switch buttonID {
	case 0:
		ev.Button = MouseLeft
	case 1:
		ev.Button = MouseMiddle
	case 2:
		ev.Button = MouseRight
	default:
		ev.Button = MouseNone
	}
	return end + 1, ev, true
}

// parseSGRParams extracts btn, x, y from "Btn;X;Y".
func parseSGRParams(data []byte) (btn, x, y int, ok bool) {
	state := 0 // 0=btn, 1=x, 2=y
	val := 0

	for _, b := range data {
		if b == ';' {
			switch state {
			case 0:
				btn = val
			case 1:
				x = val
			}
			state++
			val = 0
			if state > 2 {
				return 0, 0, 0, false
			}
		} else if b >= '0' && b <= '9' {
			val = val*10 + int(b-'0')
			if val > 9999 {
				return 0, 0, 0, false
			}
		} else {
			return 0, 0, 0, false
		}
	}

	if state != 2 {
		return 0, 0, 0, false
	}
	y = val
	return btn, x, y, true
}

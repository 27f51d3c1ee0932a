// Package input turns raw terminal bytes into per-frame intents and
// pointer state.
package input

import (
	"bufio"
	"sync/atomic"
	"time"

	"github.com/tomz197/ballpit/internal/config"
)

// Input represents the current frame's input state.
type Input struct {
	Intents Intent

	// Pointer position in terminal cells. Only meaningful when HasPointer is
	// set, i.e. at least one mouse report has been received.
	PointerX    int
	PointerY    int
	PointerDown bool
	HasPointer  bool

	Pressed []byte
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	up    time.Time
	down  time.Time
	left  time.Time
	right time.Time
}

// mouseState is the pointer as of the last report.
type mouseState struct {
	x, y  int
	down  bool
	known bool
}

// Stream delivers input bytes via a channel and tracks key and mouse state
// across frames.
type Stream struct {
	ch      chan byte
	closed  atomic.Bool // Set once the reader has hit EOF or an error
	state   keyState
	mouse   mouseState
	pending []byte // Unterminated escape sequence from the previous frame
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				s.closed.Store(true)
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended. Bytes read before
// the end may still be pending.
func (s *Stream) Closed() bool {
	return s.closed.Load()
}

func newStream() *Stream {
	return &Stream{ch: make(chan byte, 256)}
}

// ReadInput drains all available bytes from the stream (non-blocking) and
// returns this frame's input.
//
// Discrete keys (spawn, delete, pause, zoom, stats, quit) produce one intent
// per frame in which they were seen. Pan keys use key state persistence so
// that holding a key pans smoothly between terminal auto-repeats.
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil

	// Drain all available bytes
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	return s.apply(buf, time.Now())
}

// apply parses buf, updates the stream state and builds the frame input.
func (s *Stream) apply(buf []byte, now time.Time) Input {
	var in Input
	pressedThisFrame := false

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+1 == len(buf) {
			s.pending = []byte{b}
			break
		}

		if b == '\x1b' && buf[i+1] == '[' {
			// SGR mouse: ESC [ < Btn ; X ; Y M/m
			if i+2 < len(buf) && buf[i+2] == '<' {
				n, ev, complete := parseSGRMouse(buf[i:])
				if n == 0 && !complete {
					s.pending = append([]byte(nil), buf[i:]...)
					break
				}
				if n > 0 {
					if s.applyMouse(ev, &in) {
						pressedThisFrame = true
					}
					i += n - 1
					continue
				}
			}

			if i+2 >= len(buf) {
				s.pending = append([]byte(nil), buf[i:]...)
				break
			}

			// CSI sequence: ESC [ <code>
			switch buf[i+2] {
			case 'A': // Up arrow
				s.state.up = now
				i += 2
				continue
			case 'B': // Down arrow
				s.state.down = now
				i += 2
				continue
			case 'C': // Right arrow
				s.state.right = now
				i += 2
				continue
			case 'D': // Left arrow
				s.state.left = now
				i += 2
				continue
			case '3': // Delete: ESC [ 3 ~
				if i+3 < len(buf) && buf[i+3] == '~' {
					in.Intents |= IntentDelete
					i += 3
					continue
				}
			}
		}

		applyByte(&s.state, &in, b, now)
	}

	// Held keys are "pressed" if seen within the hold duration
	if now.Sub(s.state.up) < config.KeyHoldDuration {
		in.Intents |= IntentPanUp
	}
	if now.Sub(s.state.down) < config.KeyHoldDuration {
		in.Intents |= IntentPanDown
	}
	if now.Sub(s.state.left) < config.KeyHoldDuration {
		in.Intents |= IntentPanLeft
	}
	if now.Sub(s.state.right) < config.KeyHoldDuration {
		in.Intents |= IntentPanRight
	}

	in.HasPointer = s.mouse.known
	in.PointerX = s.mouse.x
	in.PointerY = s.mouse.y
	// A click that was pressed and released within one frame still counts
	// as down for that frame.
	in.PointerDown = s.mouse.down || pressedThisFrame
	in.Pressed = buf

	return in
}

// applyMouse folds one mouse report into the stream state. It returns true
// for a left-button press.
func (s *Stream) applyMouse(ev MouseEvent, in *Input) bool {
	s.mouse.x, s.mouse.y = ev.X, ev.Y
	s.mouse.known = true

	switch ev.Button {
	case MouseWheelUp:
		in.Intents |= IntentZoomIn
		return false
	case MouseWheelDown:
		in.Intents |= IntentZoomOut
		return false
	case MouseLeft:
		if ev.Press {
			wasDown := s.mouse.down
			s.mouse.down = true
			return !wasDown || !ev.Motion
		}
		s.mouse.down = false
	case MouseNone:
		// Some terminals report a release without naming the button.
		if !ev.Press {
			s.mouse.down = false
		}
	}
	return false
}

// applyByte maps a single key byte to an intent or a held-key timestamp.
func applyByte(state *keyState, in *Input, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', 0x03: // Ctrl-C
		in.Intents |= IntentQuit
	case ' ':
		in.Intents |= IntentSpawn
	case '\b', '\x7f':
		in.Intents |= IntentDelete
	case 'p', 'P':
		in.Intents |= IntentPause
	case '+', '=':
		in.Intents |= IntentZoomIn
	case '-', '_':
		in.Intents |= IntentZoomOut
	case 'i', 'I':
		in.Intents |= IntentToggleStats
	case '0':
		in.Intents |= IntentResetView
	case 'w', 'W':
		state.up = now
	case 's', 'S':
		state.down = now
	case 'a', 'A':
		state.left = now
	case 'd', 'D':
		state.right = now
	}
}

// Package loop runs a sandbox in a terminal: the Input → Update → Draw cycle
// at a fixed frame rate, over a local tty or an SSH session.
package loop

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/tomz197/ballpit/internal/config"
	"github.com/tomz197/ballpit/internal/draw"
	"github.com/tomz197/ballpit/internal/input"
	"github.com/tomz197/ballpit/internal/sim"
)

// Options configures a terminal session.
type Options struct {
	Config       config.Config
	TermSizeFunc draw.TermSizeFunc
	Logger       *log.Logger
	Renderer     *lipgloss.Renderer // Styles the status line; defaults to stdout's

	// InactivityTimeout ends the session after this long without input.
	// Zero disables it.
	InactivityTimeout time.Duration
}

// Terminal owns one simulation and renders it to one terminal.
type Terminal struct {
	sim          *sim.Simulation
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates frame output for chunked writes
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
	hud          hudStyles
	opts         Options

	termWidth  int
	termHeight int
	lastInput  time.Time
	running    bool
}

// New creates a terminal session reading raw bytes from r and drawing to w.
func New(r *bufio.Reader, w io.Writer, opts Options) (*Terminal, error) {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}

	s, err := sim.New(opts.Config, sim.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	termWidth, termHeight, _ := termSizeFunc()
	canvas := draw.NewScaledCanvas(termWidth, canvasRows(termHeight), opts.Config.Width, opts.Config.Height)

	return &Terminal{
		sim:          s,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		logger:       logger,
		hud:          newHUDStyles(renderer),
		opts:         opts,
		termWidth:    termWidth,
		termHeight:   termHeight,
		lastInput:    time.Now(),
		running:      true,
	}, nil
}

// Run creates a terminal session and runs it until quit, end of input,
// inactivity or context cancellation.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	t, err := New(r, w, opts)
	if err != nil {
		return err
	}
	return t.Run(ctx)
}

// Simulation returns the sandbox driven by this terminal.
func (t *Terminal) Simulation() *sim.Simulation {
	return t.sim
}

// Run starts the frame loop. Blocks until the session ends.
func (t *Terminal) Run(ctx context.Context) error {
	io.WriteString(t.writer, input.EnableMouse)
	draw.HideCursor(t.writer)
	draw.ClearScreen(t.writer)
	defer func() {
		io.WriteString(t.writer, input.DisableMouse)
		draw.ResetStyle(t.writer)
		draw.ClearScreen(t.writer)
		draw.ShowCursor(t.writer)
	}()

	t.logger.Info("session started", "width", t.termWidth, "height", t.termHeight)

	for t.running {
		frameStart := time.Now()

		select {
		case <-ctx.Done():
			t.logger.Info("session cancelled")
			return nil
		default:
		}

		// ===== INPUT PHASE =====
		frame := t.processInput()

		// ===== UPDATE PHASE =====
		t.updateScreen()
		stats := t.sim.Step(frame)
		if stats.Deleted > 0 || stats.Spawned > 0 {
			t.logger.Debug("bodies changed", "bodies", stats.Bodies, "frame", stats.Frame)
		}
		if t.sim.Quit() {
			t.running = false
		}

		// ===== DRAW PHASE =====
		if err := t.drawFrame(); err != nil {
			return err
		}

		// ===== FRAME TIMING =====
		elapsed := time.Since(frameStart)
		if elapsed < config.TargetFrameTime {
			time.Sleep(config.TargetFrameTime - elapsed)
		}
	}

	t.logger.Info("session ended", "frames", t.sim.Frame(), "bodies", len(t.sim.Bodies()))
	return nil
}

// processInput reads pending input and converts it to screen space.
func (t *Terminal) processInput() sim.FrameInput {
	in := input.ReadInput(t.inputStream)

	if len(in.Pressed) > 0 {
		t.lastInput = time.Now()
	} else if t.opts.InactivityTimeout > 0 && time.Since(t.lastInput) > t.opts.InactivityTimeout {
		t.logger.Info("disconnecting inactive session")
		t.running = false
	}
	if t.inputStream.Closed() && len(in.Pressed) == 0 {
		t.running = false
	}

	return frameInput(in, t.canvas)
}

// frameInput maps terminal cells to the simulation's screen space, which is
// the canvas's logical space.
func frameInput(in input.Input, canvas *draw.Canvas) sim.FrameInput {
	frame := sim.FrameInput{Intents: in.Intents}
	if in.HasPointer {
		frame.PointerX, frame.PointerY = canvas.CellToLogical(in.PointerX, in.PointerY)
		frame.PointerDown = in.PointerDown
	}
	return frame
}

// updateScreen handles terminal resize. On actual size changes the terminal
// is cleared to remove residual output outside the new canvas area.
func (t *Terminal) updateScreen() {
	termWidth, termHeight, err := t.termSizeFunc()
	if err != nil {
		return
	}
	if termWidth == t.termWidth && termHeight == t.termHeight {
		return
	}

	t.termWidth, t.termHeight = termWidth, termHeight
	t.chunkWriter.WriteString("\033[H\033[2J")
	t.canvas.Resize(termWidth, canvasRows(termHeight))
	t.logger.Debug("terminal resized", "width", termWidth, "height", termHeight)
}

// canvasRows leaves room for the status line below the canvas.
func canvasRows(termHeight int) int {
	rows := termHeight - config.HUDRows
	if rows < 1 {
		rows = 1
	}
	return rows
}

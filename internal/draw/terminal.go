package draw

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// maxChunkSize is the maximum bytes to write at once. It stays under a
// typical 1500 byte MTU so frames stream smoothly over SSH.
const maxChunkSize = 1400

// ChunkWriter collects one frame of terminal output (the rendered canvas,
// labels, the status line) and hands it to the session writer in chunks.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer
	numBuf [20]byte
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{bufw: bufio.NewWriterSize(w, 8192)}
}

// Write lets Canvas.Render draw into the frame.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.buf.Write(p)
}

// WriteString appends raw output, escape sequences included.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt writes s starting at the 1-based terminal position (col, row).
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	appendCursor(&cw.buf, cw.numBuf[:0], row, col)
	cw.buf.WriteString(s)
}

// Flush sends the frame and starts a new one.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	if err := writeChunks(cw.bufw, data); err != nil {
		return err
	}
	return cw.bufw.Flush()
}

// writeChunks writes data to w at most maxChunkSize bytes at a time.
func writeChunks(w io.Writer, data string) error {
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

// appendCursor appends an absolute cursor move to the 1-based (row, col).
func appendCursor(b *strings.Builder, scratch []byte, row, col int) {
	b.WriteString("\033[")
	b.Write(strconv.AppendInt(scratch, int64(row), 10))
	b.WriteByte(';')
	b.Write(strconv.AppendInt(scratch, int64(col), 10))
	b.WriteByte('H')
}

// TermSizeFunc returns the terminal dimensions in cells.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// ResetStyle clears colors and other text attributes.
func ResetStyle(w io.Writer) {
	fmt.Fprint(w, "\033[0m")
}

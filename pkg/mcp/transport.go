package mcp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineSize bounds a single incoming message line.
const maxLineSize = 16 * 1024 * 1024

// StdioTransport handles MCP communication as newline-delimited JSON.
// Each message occupies exactly one line on the stream; blank lines are
// skipped. Only protocol messages go to stdout, diagnostics go to stderr.
type StdioTransport struct {
	scanner *bufio.Scanner
	stdout  io.Writer
	stderr  io.Writer
}

// NewStdioTransport creates a transport bound to the process stdio
func NewStdioTransport() *StdioTransport {
	return NewTransport(os.Stdin, os.Stdout, os.Stderr)
}

// NewTransport creates a transport over arbitrary streams
func NewTransport(in io.Reader, out, errOut io.Writer) *StdioTransport {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &StdioTransport{
		scanner: scanner,
		stdout:  out,
		stderr:  errOut,
	}
}

// ReadLine reads the next non-empty message line. Returns io.EOF when the
// input stream is closed.
func (t *StdioTransport) ReadLine() ([]byte, error) {
	for t.scanner.Scan() {
		line := strings.TrimSpace(t.scanner.Text())
		if line == "" {
			continue
		}
		return []byte(line), nil
	}
	if err := t.scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	return nil, io.EOF
}

// WriteMessage writes a JSON-RPC message as a single line to stdout
func (t *StdioTransport) WriteMessage(resp *JSONRPCResponse) error {
	data, err := SerializeResponse(resp)
	if err != nil {
		return fmt.Errorf("failed to serialize response: %w", err)
	}

	data = append(data, '\n')
	if _, err := t.stdout.Write(data); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// WriteError writes an error to stderr
func (t *StdioTransport) WriteError(err error) {
	fmt.Fprintf(t.stderr, "Error: %v\n", err)
}

package server

import (
	"bufio"
	"io"
)

// ConsoleClient plays a session over a local terminal.
type ConsoleClient struct {
	scanner *bufio.Scanner
	writer  *bufio.Writer
	prompt  string
}

// NewConsoleClient reads commands from in and writes output to out. prompt
// is printed before every read; it may be empty.
func NewConsoleClient(in io.Reader, out io.Writer, prompt string) *ConsoleClient {
	return &ConsoleClient{
		scanner: bufio.NewScanner(in),
		writer:  bufio.NewWriter(out),
		prompt:  prompt,
	}
}

// ReadLine reads the next line of input.
func (c *ConsoleClient) ReadLine() (string, error) {
	if c.prompt != "" {
		if _, err := c.writer.WriteString(c.prompt); err != nil {
			return "", err
		}
		if err := c.writer.Flush(); err != nil {
			return "", err
		}
	}
	if c.scanner.Scan() {
		return c.scanner.Text(), nil
	}
	if err := c.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// WriteLine writes message followed by a newline.
func (c *ConsoleClient) WriteLine(message string) error {
	if _, err := c.writer.WriteString(message + "\n"); err != nil {
		return err
	}
	return c.writer.Flush()
}

// Close is a no-op; the terminal belongs to the process.
func (c *ConsoleClient) Close() error { return nil }

// RemoteAddr identifies the local terminal in logs.
func (c *ConsoleClient) RemoteAddr() string { return "console" }

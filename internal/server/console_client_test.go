package server

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestConsoleClient(t *testing.T) {
	var out bytes.Buffer
	client := NewConsoleClient(strings.NewReader("north\nquit\n"), &out, "> ")

	line, err := client.ReadLine()
	if err != nil || line != "north" {
		t.Fatalf("ReadLine() = %q, %v; want north", line, err)
	}
	if err := client.WriteLine("You can't go that way."); err != nil {
		t.Fatalf("WriteLine failed: %v", err)
	}
	if line, _ := client.ReadLine(); line != "quit" {
		t.Errorf("ReadLine() = %q, want quit", line)
	}
	if _, err := client.ReadLine(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadLine at end of input = %v, want io.EOF", err)
	}

	want := "> You can't go that way.\n> > "
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	if client.RemoteAddr() != "console" {
		t.Errorf("RemoteAddr() = %q", client.RemoteAddr())
	}
}

package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// secretReader reads passwords that were not passed as flags. A terminal
// gets a prompt with echo off; anything else is read one line per secret.
type secretReader struct {
	in io.Reader
	br *bufio.Reader
}

func newSecretReader(in io.Reader) *secretReader {
	return &secretReader{in: in}
}

// read returns "" without error when there is no input to read from.
func (r *secretReader) read(prompt string, errOut io.Writer) (string, error) {
	if r == nil || r.in == nil {
		return "", nil
	}

	if f, ok := r.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(errOut, prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(errOut)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	if r.br == nil {
		r.br = bufio.NewReader(r.in)
	}
	line, err := r.br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

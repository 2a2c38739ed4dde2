package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/custodia-labs/ppm/internal/core/ports/driven"
)

// Ensure Confirmer implements the interface.
var _ driven.Confirmer = (*Confirmer)(nil)

// Confirmer asks yes/no questions on the terminal. Without a terminal the
// answer is no unless --yes was given.
type Confirmer struct {
	in         *bufio.Reader
	out        io.Writer
	isTerminal func() bool
}

// NewConfirmer creates a confirmer reading from in and prompting on out.
func NewConfirmer(in *os.File, out io.Writer) *Confirmer {
	return &Confirmer{
		in:  bufio.NewReader(in),
		out: out,
		isTerminal: func() bool {
			return term.IsTerminal(int(in.Fd())) //nolint:gosec // file descriptors fit in int
		},
	}
}

// Confirm returns true when the user answers y or yes.
func (c *Confirmer) Confirm(question string) bool {
	if assumeYes {
		return true
	}
	if !c.isTerminal() {
		return false
	}

	fmt.Fprintf(c.out, "%s [y/N] ", question)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

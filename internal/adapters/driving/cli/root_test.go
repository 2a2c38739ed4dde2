package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/ppm/internal/core/domain"
)

func TestRootCmd_Commands(t *testing.T) {
	want := []string{
		"add", "rm", "install", "update", "gen",
		"run", "start", "build",
		"new", "init", "bump", "info",
		"history", "version",
	}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, cmd.Name())
		}
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	_, stderr, code := execute(t, "frobnicate")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown command")
}

func TestExitError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &ExitError{Code: 4})
	assert.Equal(t, "wrapped: exit status 4", err.Error())
}

func TestHint(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("x: %w", domain.ErrParse), "syntax errors"},
		{fmt.Errorf("x: %w", domain.ErrNotFound), "ppm new"},
		{domain.ErrAlreadyExists, "different name"},
		{domain.ErrInvalidVersionFormat, "MAJOR.MINOR.PATCH"},
		{domain.ErrUnsupportedPlatform, "shell.kind"},
		{errBoom, ""},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got := hint(tt.err)
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, tt.want)
		})
	}
}

func newTestConfirmer(input string, tty bool) (*Confirmer, *bytes.Buffer) {
	out := new(bytes.Buffer)
	return &Confirmer{
		in:         bufio.NewReader(strings.NewReader(input)),
		out:        out,
		isTerminal: func() bool { return tty },
	}, out
}

func TestConfirmer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		tty   bool
		want  bool
	}{
		{"yes", "y\n", true, true},
		{"full yes", "YES\n", true, true},
		{"no", "n\n", true, false},
		{"empty", "\n", true, false},
		{"eof", "", true, false},
		{"no newline", "y", true, true},
		{"not a terminal", "y\n", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out := newTestConfirmer(tt.input, tt.tty)
			assert.Equal(t, tt.want, c.Confirm("Create it?"))
			if tt.tty {
				assert.Contains(t, out.String(), "Create it? [y/N]")
			} else {
				assert.Empty(t, out.String())
			}
		})
	}
}

func TestConfirmer_AssumeYes(t *testing.T) {
	assumeYes = true
	defer func() { assumeYes = false }()

	c, out := newTestConfirmer("", false)
	assert.True(t, c.Confirm("Create it?"))
	assert.Empty(t, out.String())
}

// Package prompt provides line-based operator input on top of readline.
package prompt

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Reader prompts for single lines of input. EOF and ^C surface as io.EOF
// so callers can treat either as a request to leave the current flow.
type Reader struct {
	rl *readline.Instance
}

// New creates a Reader attached to the terminal.
func New() (*Reader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("init readline: %w", err)
	}
	return &Reader{rl: rl}, nil
}

// Close releases the terminal.
func (r *Reader) Close() error { return r.rl.Close() }

// ReadLine displays prompt and returns the trimmed input line.
func (r *Reader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt || err == io.EOF {
			return "", io.EOF
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

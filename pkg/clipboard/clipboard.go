// Package clipboard abstracts the system clipboard behind a single copy
// operation so callers can treat it as best-effort.
package clipboard

import (
	"errors"

	atotto "github.com/atotto/clipboard"
)

// Copier places text on the clipboard.
type Copier interface {
	Copy(text string) error
}

// System copies through the platform clipboard.
type System struct{}

// Copy writes text to the system clipboard. Empty text is refused so a
// stray Enter never clears what the operator copied before.
func (System) Copy(text string) error {
	if text == "" {
		return errors.New("nothing to copy")
	}
	return atotto.WriteAll(text)
}

package cli

import (
	"errors"
	"os"

	"github.com/manifoldco/promptui"
)

// ErrNotInteractive is returned when input is required but stdin is not a
// terminal.
var ErrNotInteractive = errors.New("input required but stdin is not a terminal")

// Prompter asks the user for a single line of input.
type Prompter interface {
	Ask(label string, validate func(string) error) (string, error)
}

type promptuiPrompter struct{}

func (promptuiPrompter) Ask(label string, validate func(string) error) (string, error) {
	if !stdinIsTerminal() {
		return "", ErrNotInteractive
	}
	p := promptui.Prompt{
		Label:    label,
		Validate: promptui.ValidateFunc(validate),
	}
	return p.Run()
}

func stdinIsTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

package configloader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// IsInteractive returns true if stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Confirm writes question to out and reads a yes/no answer from in.
// An empty answer selects def.
func Confirm(in io.Reader, out io.Writer, question string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	if _, err := fmt.Fprintf(out, "%s %s ", question, hint); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read response: %w", err)
	}

	switch strings.TrimSpace(strings.ToLower(response)) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/thoreinstein/confpipe/internal/errors"
)

// Sentinel errors for key selection.
var (
	ErrNoItems            = errors.New("no keys to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Item is one selectable configuration key.
type Item struct {
	// Key is returned when the item is chosen.
	Key string

	// Detail is shown next to the key, e.g. its declared type.
	Detail string

	// Preview is the longer text shown by the fuzzy finder.
	Preview string
}

// Selector handles numbered selection prompts.
type Selector struct {
	reader io.Reader
	writer io.Writer
}

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return &Selector{
		reader: os.Stdin,
		writer: os.Stdout,
	}
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
	}
}

// Select prompts the user to choose one of items and returns its key.
//
// Returns:
//   - ErrNoItems if the list is empty
//   - The only key if exactly one exists (auto-selects without prompting)
//   - ErrInvalidSelection if the selection is out of range
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D)
func (s *Selector) Select(title string, items []Item) (string, error) {
	if len(items) == 0 {
		return "", ErrNoItems
	}

	// Auto-select if only one item
	if len(items) == 1 {
		return items[0].Key, nil
	}

	fmt.Fprintf(s.writer, "%s:\n", title)
	for i, item := range items {
		if item.Detail != "" {
			fmt.Fprintf(s.writer, "  [%d] %s (%s)\n", i+1, item.Key, item.Detail)
		} else {
			fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, item.Key)
		}
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	reader := bufio.NewReader(s.reader)
	input, err := reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", errors.Wrap(err, "reading selection")
		}
		// A final line without newline still counts
		if strings.TrimSpace(input) == "" {
			return "", ErrSelectionCancelled
		}
	}

	input = strings.TrimSpace(input)

	// Default to first option if empty
	if input == "" {
		return items[0].Key, nil
	}

	// Accept a key name as well as a number
	for _, item := range items {
		if item.Key == input {
			return item.Key, nil
		}
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidSelection, "%q is not a number or key", input)
	}

	// Validate range (1-indexed)
	if selection < 1 || selection > len(items) {
		return "", errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(items))
	}

	return items[selection-1].Key, nil
}

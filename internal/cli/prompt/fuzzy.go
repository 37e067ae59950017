package prompt

import (
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/confpipe/internal/errors"
)

// Find opens a full-screen fuzzy finder over items and returns the chosen
// key. It needs a terminal; callers fall back to a Selector otherwise.
func Find(items []Item) (string, error) {
	if len(items) == 0 {
		return "", ErrNoItems
	}

	idx, err := fuzzyfinder.Find(
		items,
		func(i int) string {
			if items[i].Detail == "" {
				return items[i].Key
			}
			return items[i].Key + " (" + items[i].Detail + ")"
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return items[i].Preview
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "interactive selection failed")
	}

	return items[idx].Key, nil
}

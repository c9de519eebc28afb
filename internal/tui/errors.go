package tui

import "fmt"

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// internalErr marks a broken invariant so it is never mistaken for a
// recoverable failure in the status bar.
func internalErr(err error) error {
	return wrapErr("internal error", err)
}

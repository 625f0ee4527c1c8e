package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"apttool/pkg/catalog"
)

// Spinner wraps the spinner library for consistent styling. It writes to
// stderr so listings on stdout stay clean.
type Spinner struct {
	s       *spinner.Spinner
	message string
}

// NewSpinner creates a new spinner with the given message.
func NewSpinner(message string) *Spinner {
	charSet := spinner.CharSets[14] // ⣾⣽⣻⢿⡿⣟⣯⣷
	if !UseUnicode {
		charSet = spinner.CharSets[9] // |/-\
	}

	s := spinner.New(charSet, 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message

	if UseColors {
		_ = s.Color("cyan") //nolint:errcheck
	}

	return &Spinner{s: s, message: message}
}

// Start starts the spinner.
func (sp *Spinner) Start() {
	sp.s.Start()
}

// Stop stops the spinner.
func (sp *Spinner) Stop() {
	sp.s.Stop()
}

// UpdateMessage updates the spinner message.
func (sp *Spinner) UpdateMessage(message string) {
	sp.s.Lock()
	sp.s.Suffix = " " + message
	sp.s.Unlock()
}

// Progress returns a catalog progress callback that shows the load
// fraction next to the spinner message.
func (sp *Spinner) Progress() catalog.ProgressFunc {
	return func(fraction float64) {
		sp.UpdateMessage(ProgressText(sp.message, fraction))
	}
}

// ProgressText renders "message (42%)". The fraction is capped at 100%
// because the rough size is only an estimate.
func ProgressText(message string, fraction float64) string {
	if fraction > 1 {
		fraction = 1
	}
	if fraction < 0 {
		fraction = 0
	}
	return fmt.Sprintf("%s (%d%%)", message, int(fraction*100))
}

package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// startStopper is the interface Spinner interacts with.
type startStopper interface {
	Start()
	Stop()
}

// Spinner represents an indicator that an asynchronous operation, such as
// project scaffolding, is taking place.
type Spinner struct {
	spin startStopper
}

// NewSpinner returns a spinner that outputs to w. In a CI environment the
// update interval is slowed way down, since there is no terminal to
// animate for.
func NewSpinner(w io.Writer) *Spinner {
	interval := 125 * time.Millisecond
	if os.Getenv("CI") == "true" {
		interval = 30 * time.Second
	}
	s := spinner.New(spinner.CharSets[14], interval, spinner.WithHiddenCursor(true))
	s.Writer = w
	s.Color("faint")
	return &Spinner{spin: s}
}

// Start starts the spinner suffixed with a label.
func (s *Spinner) Start(label string) {
	s.suffix(fmt.Sprintf(" %s", label))
	s.spin.Start()
}

// Stop stops the spinner and replaces it with a label.
func (s *Spinner) Stop(label string) {
	s.finalMSG(fmt.Sprint(label))
	s.spin.Stop()
}

func (s *Spinner) lock() {
	if sp, ok := s.spin.(*spinner.Spinner); ok {
		sp.Lock()
	}
}

func (s *Spinner) unlock() {
	if sp, ok := s.spin.(*spinner.Spinner); ok {
		sp.Unlock()
	}
}

func (s *Spinner) suffix(label string) {
	s.lock()
	defer s.unlock()
	if sp, ok := s.spin.(*spinner.Spinner); ok {
		sp.Suffix = label
	}
}

func (s *Spinner) finalMSG(label string) {
	s.lock()
	defer s.unlock()
	if sp, ok := s.spin.(*spinner.Spinner); ok {
		sp.FinalMSG = label
	}
}

// Package frontend is the console front end: a two-state selector that runs
// either the text loop or a bounded voice session, never both at once.
package frontend

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/coralmesh/logging"
	"github.com/hupe1980/coralmesh/voice"
)

// Mode names the active front-end state.
type Mode string

const (
	// TextMode reads typed instructions and dispatches them directly.
	TextMode Mode = "text"
	// VoiceMode runs a bounded voice session, then dispatches the transcript.
	VoiceMode Mode = "voice"
)

// Source yields operator input lines. io.EOF ends the front end cleanly.
type Source interface {
	Next() (string, error)
}

// ReaderSource adapts a line-oriented reader (stdin, a test buffer) into a
// Source.
type ReaderSource struct {
	scanner *bufio.Scanner
}

// NewReaderSource wraps r.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{scanner: bufio.NewScanner(r)}
}

// Next implements Source.
func (s *ReaderSource) Next() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

// Options configure the selector.
type Options struct {
	// Output receives prompts and answers; defaults to io.Discard.
	Output io.Writer
	// Logger receives front-end diagnostics.
	Logger logging.Logger
}

// Selector drives the operator console. "v" enters voice mode, "quit" or
// "exit" (or end of input) leaves, anything else dispatches as text. The
// voice session and the text loop are mutually exclusive: entering voice
// mode blocks the selector until the session ends.
type Selector struct {
	source    Source
	bridge    *voice.Bridge
	sessions  *voice.SessionManager
	interrupt chan struct{}
	out       io.Writer
	logger    logging.Logger
	mode      Mode
}

// NewSelector wires an input source, the conversation bridge and a session
// manager. The session manager may be nil when voice mode is unavailable.
func NewSelector(source Source, bridge *voice.Bridge, sessions *voice.SessionManager, optFns ...func(o *Options)) *Selector {
	opts := Options{
		Output: io.Discard,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Selector{
		source:    source,
		bridge:    bridge,
		sessions:  sessions,
		interrupt: make(chan struct{}, 1),
		out:       opts.Output,
		logger:    opts.Logger,
		mode:      TextMode,
	}
}

// Mode reports the currently active mode.
func (s *Selector) Mode() Mode { return s.mode }

// Interrupt ends a running voice session early. Safe to call at any time;
// a pending interrupt outside a session is dropped on the next session start.
func (s *Selector) Interrupt() {
	select {
	case s.interrupt <- struct{}{}:
	default:
	}
}

// Run reads input until "quit", end of input, or ctx cancellation.
func (s *Selector) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, `Type an instruction, "v" for a voice session, or "quit" to exit.`)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(s.out, "> ")

		line, err := s.source.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "v":
			s.runVoiceSession(ctx)
		default:
			s.dispatchText(ctx, line)
		}
	}
}

func (s *Selector) dispatchText(ctx context.Context, line string) {
	answer, err := s.bridge.Dispatch(ctx, line)
	if err != nil {
		s.logger.Warn("frontend.dispatch.failed", "error", err.Error())
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, answer)
}

// runVoiceSession runs one bounded session, then dispatches whatever the
// operator said. Session faults and missing transcripts are reported to the
// console, never propagated.
func (s *Selector) runVoiceSession(ctx context.Context) {
	if s.sessions == nil {
		fmt.Fprintln(s.out, "voice mode is not configured")
		return
	}

	s.drainInterrupt()

	s.mode = VoiceMode
	defer func() { s.mode = TextMode }()

	ended := s.sessions.Run(ctx, s.interrupt, voice.Callbacks{
		OnAgentResponse: func(text string) {
			fmt.Fprintf(s.out, "[agent] %s\n", text)
		},
		OnUserTranscript: func(text string) {
			fmt.Fprintf(s.out, "[you] %s\n", text)
		},
	})

	fmt.Fprintf(s.out, "voice session ended (%s)\n", ended.Reason)

	if ended.Reason == voice.Errored {
		s.logger.Warn("frontend.voice.failed", "error", ended.Err.Error())
		return
	}

	answer, err := s.bridge.Dispatch(ctx, "")
	if err != nil {
		if errors.Is(err, voice.ErrNoInput) {
			fmt.Fprintln(s.out, "nothing to dispatch: no transcript captured")
			return
		}
		s.logger.Warn("frontend.dispatch.failed", "error", err.Error())
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, answer)
}

func (s *Selector) drainInterrupt() {
	select {
	case <-s.interrupt:
	default:
	}
}

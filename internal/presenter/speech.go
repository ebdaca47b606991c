package presenter

import (
	"regexp"
	"strings"
	"sync"
)

// Synthesizer is the speech engine contract. Speak is expected to be
// asynchronous; Cancel interrupts any in-progress utterance.
type Synthesizer interface {
	Speak(text string) error
	Cancel()
}

var (
	boldMarkup    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicMarkup  = regexp.MustCompile(`\*(.*?)\*`)
	codeMarkup    = regexp.MustCompile("`(.*?)`")
	headingMarkup = regexp.MustCompile(`#{1,6}\s`)
	lineBreaks    = regexp.MustCompile(`\n+`)
	spaceRuns     = regexp.MustCompile(`\s+`)
)

// CleanForSpeech strips markdown markup and collapses line breaks into
// sentence pauses so the synthesizer does not read formatting characters
// aloud.
func CleanForSpeech(text string) string {
	out := boldMarkup.ReplaceAllString(text, "$1")
	out = italicMarkup.ReplaceAllString(out, "$1")
	out = codeMarkup.ReplaceAllString(out, "$1")
	out = headingMarkup.ReplaceAllString(out, "")
	out = lineBreaks.ReplaceAllString(out, ". ")
	out = spaceRuns.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// Speaker plays at most one utterance at a time; starting a new one cancels
// any in-progress utterance.
type Speaker struct {
	mu       sync.Mutex
	synth    Synthesizer
	speaking bool
}

func NewSpeaker(synth Synthesizer) *Speaker {
	return &Speaker{synth: synth}
}

// Speak cleans the full message text and hands it to the synthesizer. Empty
// cleaned text is a no-op.
func (s *Speaker) Speak(text string) error {
	clean := CleanForSpeech(text)
	if clean == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.speaking {
		s.synth.Cancel()
		s.speaking = false
	}
	if err := s.synth.Speak(clean); err != nil {
		return err
	}
	s.speaking = true
	return nil
}

// Stop cancels the current utterance. Idempotent and safe when nothing is
// playing.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.speaking {
		return
	}
	s.synth.Cancel()
	s.speaking = false
}

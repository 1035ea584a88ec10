package tui

import (
	"encoding/json"

	"github.com/lingominer/flashcard-engine/internal/trace"
)

// channelSink is an io.Writer adapter: every JSONL line trace.Writer
// encodes to it is decoded back into an Event and forwarded on a channel,
// so the Bubble Tea program can render run progress live.
type channelSink struct {
	events chan trace.Event
}

func newChannelSink(buffer int) *channelSink {
	return &channelSink{events: make(chan trace.Event, buffer)}
}

func (s *channelSink) Write(p []byte) (int, error) {
	var evt trace.Event
	if err := json.Unmarshal(p, &evt); err == nil {
		s.events <- evt
	}
	return len(p), nil
}

// Close signals no more events will arrive.
func (s *channelSink) Close() { close(s.events) }

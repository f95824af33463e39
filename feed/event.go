// Package feed decodes the live question/answer event stream and delivers it
// from MQTT or Redis.
package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/matt-g-everett/vistx/spec"
)

// ErrUnknownEvent is returned for payloads that are neither a known event
// envelope nor a bare visualization.
var ErrUnknownEvent = errors.New("unknown feed event")

// EventKind names a feed event.
type EventKind string

const (
	QuestionCreated EventKind = "question_created"
	AnswerCreated   EventKind = "answer_created"
	// SpecPublished is a bare visualization with no conversation around it.
	SpecPublished EventKind = "spec"
)

// Question is a user question as announced by the feed.
type Question struct {
	ID        string `json:"id"`
	UserID    string `json:"userId,omitempty"`
	Question  string `json:"question"`
	AnswerID  string `json:"answerId,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// Answer is a generated answer, optionally carrying a visualization.
type Answer struct {
	ID            string          `json:"id"`
	QuestionID    string          `json:"questionId"`
	Text          string          `json:"text"`
	Visualization json.RawMessage `json:"visualization,omitempty"`
	Timestamp     int64           `json:"timestamp,omitempty"`
}

// HasVisualization reports whether the answer carries a visualization.
func (a *Answer) HasVisualization() bool {
	v := bytes.TrimSpace(a.Visualization)
	return len(v) > 0 && !bytes.Equal(v, []byte("null"))
}

// Spec parses the answer's visualization. It returns nil without error when
// there is none.
func (a *Answer) Spec() (*spec.Spec, error) {
	if !a.HasVisualization() {
		return nil, nil
	}
	s, err := spec.Parse(a.Visualization)
	if err != nil {
		return nil, fmt.Errorf("answer %s visualization: %w", a.ID, err)
	}
	return s, nil
}

// Event is one decoded feed message. Exactly one of Question, Answer or Spec
// is set, matching Kind.
type Event struct {
	Kind     EventKind
	Question *Question
	Answer   *Answer
	Spec     json.RawMessage
}

// Handler receives decoded events.
type Handler func(Event)

type envelope struct {
	Type     EventKind       `json:"type"`
	Question *Question       `json:"question"`
	Answer   *Answer         `json:"answer"`
	Layers   json.RawMessage `json:"layers"`
	Duration json.RawMessage `json:"duration"`
}

// DecodeEvent decodes a feed payload. Envelopes name their kind in "type"; a
// payload without one is classified by its content, so the bare data of a
// server-sent event and a bare visualization are both accepted.
func DecodeEvent(payload []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrUnknownEvent, err)
	}

	kind := env.Type
	if kind == "" {
		switch {
		case env.Answer != nil:
			kind = AnswerCreated
		case env.Question != nil:
			kind = QuestionCreated
		case env.Layers != nil || env.Duration != nil:
			kind = SpecPublished
		}
	}

	switch kind {
	case QuestionCreated:
		if env.Question == nil {
			return Event{}, fmt.Errorf("%w: %s without question", ErrUnknownEvent, kind)
		}
		return Event{Kind: kind, Question: env.Question}, nil
	case AnswerCreated:
		if env.Answer == nil {
			return Event{}, fmt.Errorf("%w: %s without answer", ErrUnknownEvent, kind)
		}
		return Event{Kind: kind, Answer: env.Answer}, nil
	case SpecPublished:
		return Event{Kind: kind, Spec: json.RawMessage(payload)}, nil
	}
	return Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, kind)
}

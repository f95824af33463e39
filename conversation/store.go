// Package conversation keeps the question/answer history in sync with the
// feed and tracks which visualization should be on screen.
package conversation

import (
	"log/slog"
	"sync"

	"github.com/matt-g-everett/vistx/feed"
	"github.com/matt-g-everett/vistx/spec"
)

// Item is one question and, once it arrives, its answer.
type Item struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId,omitempty"`
	Question      string     `json:"question"`
	AnswerID      string     `json:"answerId,omitempty"`
	Answer        *string    `json:"answer"`
	Visualization *spec.Spec `json:"visualization"`
	Timestamp     int64      `json:"timestamp,omitempty"`
}

// Pending reports whether the item is still waiting for its answer.
func (i Item) Pending() bool { return i.Answer == nil }

// Store holds conversation items newest first. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	items   []Item
	current *spec.Spec
	linter  *spec.Linter
	logger  *slog.Logger
}

// NewStore creates an empty store. linter may be nil.
func NewStore(linter *spec.Linter) *Store {
	s := new(Store)
	s.linter = linter
	s.logger = slog.Default().With("component", "conversation")
	return s
}

// Apply folds a feed event into the history. It returns the visualization to
// present when the event carries a new one.
func (s *Store) Apply(ev feed.Event) (*spec.Spec, bool) {
	switch ev.Kind {
	case feed.QuestionCreated:
		q := ev.Question
		s.mu.Lock()
		s.items = append([]Item{{
			ID:        q.ID,
			UserID:    q.UserID,
			Question:  q.Question,
			AnswerID:  q.AnswerID,
			Timestamp: q.Timestamp,
		}}, s.items...)
		s.mu.Unlock()
		s.logger.Debug("question added", "question", q.ID)
		return nil, false

	case feed.AnswerCreated:
		a := ev.Answer
		var vis *spec.Spec
		if a.HasVisualization() {
			s.lint(a.Visualization, "answer", a.ID)
			var err error
			if vis, err = a.Spec(); err != nil {
				s.logger.Warn("visualization dropped", "from", "answer", "id", a.ID, "error", err)
			}
		}
		s.mergeAnswer(a, vis)
		return s.present(vis)

	case feed.SpecPublished:
		s.lint(ev.Spec, "spec", "")
		vis, err := spec.Parse(ev.Spec)
		if err != nil {
			s.logger.Warn("visualization dropped", "from", "spec", "error", err)
		}
		return s.present(vis)
	}
	return nil, false
}

func (s *Store) mergeAnswer(a *feed.Answer, vis *spec.Spec) {
	text := a.Text
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == a.QuestionID {
			s.items[i].Answer = &text
			s.items[i].AnswerID = a.ID
			s.items[i].Visualization = vis
			return
		}
	}
	s.logger.Debug("answer for unknown question", "question", a.QuestionID, "answer", a.ID)
	s.items = append([]Item{{
		ID:            a.QuestionID,
		AnswerID:      a.ID,
		Answer:        &text,
		Visualization: vis,
		Timestamp:     a.Timestamp,
	}}, s.items...)
}

func (s *Store) present(vis *spec.Spec) (*spec.Spec, bool) {
	if vis == nil {
		return nil, false
	}
	s.mu.Lock()
	s.current = vis
	s.mu.Unlock()
	return vis, true
}

func (s *Store) lint(raw []byte, from, id string) {
	if s.linter == nil {
		return
	}
	for _, w := range s.linter.LintJSON(raw) {
		s.logger.Warn("visualization lint", "from", from, "id", id, "warning", w)
	}
}

// Current returns the visualization on screen, or nil.
func (s *Store) Current() *spec.Spec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Len returns the number of items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Page returns up to limit items starting offset items from the newest, and
// the total item count. A non-positive limit means all remaining items.
func (s *Store) Page(offset, limit int) ([]Item, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := len(s.items)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []Item{}, total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return append([]Item(nil), s.items[offset:end]...), total
}

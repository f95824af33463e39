package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-g-everett/vistx/feed"
	"github.com/matt-g-everett/vistx/spec"
)

func decode(t *testing.T, payload string) feed.Event {
	t.Helper()
	ev, err := feed.DecodeEvent([]byte(payload))
	require.NoError(t, err)
	return ev
}

func TestQuestionsNewestFirst(t *testing.T) {
	s := NewStore(nil)
	s.Apply(decode(t, `{"type":"question_created","question":{"id":"q_1","question":"first"}}`))
	s.Apply(decode(t, `{"type":"question_created","question":{"id":"q_2","question":"second"}}`))

	items, total := s.Page(0, 0)
	require.Equal(t, 2, total)
	assert.Equal(t, "q_2", items[0].ID)
	assert.Equal(t, "q_1", items[1].ID)
	assert.True(t, items[0].Pending())
	assert.Nil(t, s.Current())
}

func TestAnswerMergesIntoQuestion(t *testing.T) {
	s := NewStore(nil)
	s.Apply(decode(t, `{"type":"question_created","question":{"id":"q_1","question":"Why?"}}`))
	s.Apply(decode(t, `{"type":"question_created","question":{"id":"q_2","question":"How?"}}`))

	vis, ok := s.Apply(decode(t, `{"type":"answer_created","answer":{"id":"a_1","questionId":"q_1","text":"Because.",
		"visualization":{"id":"vis_1","duration":500,"layers":[]}}}`))
	require.True(t, ok)
	assert.Equal(t, "vis_1", vis.ID)
	assert.Same(t, vis, s.Current())

	items, _ := s.Page(0, 0)
	require.Len(t, items, 2)
	assert.Equal(t, "q_1", items[1].ID)
	require.NotNil(t, items[1].Answer)
	assert.Equal(t, "Because.", *items[1].Answer)
	assert.Equal(t, "a_1", items[1].AnswerID)
	assert.Same(t, vis, items[1].Visualization)
	assert.True(t, items[0].Pending())
}

func TestAnswerForUnknownQuestion(t *testing.T) {
	s := NewStore(nil)
	s.Apply(decode(t, `{"type":"question_created","question":{"id":"q_1","question":"Why?"}}`))
	_, ok := s.Apply(decode(t, `{"type":"answer_created","answer":{"id":"a_9","questionId":"q_9","text":"Orphan."}}`))
	assert.False(t, ok, "no visualization, nothing to present")

	items, total := s.Page(0, 0)
	require.Equal(t, 2, total)
	assert.Equal(t, "q_9", items[0].ID)
	assert.Equal(t, "", items[0].Question)
	assert.Equal(t, "Orphan.", *items[0].Answer)
}

func TestAnswerWithBrokenVisualization(t *testing.T) {
	linter, err := spec.NewLinter()
	require.NoError(t, err)
	s := NewStore(linter)
	_, ok := s.Apply(decode(t, `{"type":"answer_created","answer":{"id":"a","questionId":"q","text":"t","visualization":[1]}}`))
	assert.False(t, ok)
	assert.Nil(t, s.Current())
	assert.Equal(t, 1, s.Len())
}

func TestBareSpecBecomesCurrent(t *testing.T) {
	s := NewStore(nil)
	vis, ok := s.Apply(decode(t, `{"id":"solo","duration":100,"layers":[]}`))
	require.True(t, ok)
	assert.Equal(t, "solo", vis.ID)
	assert.Equal(t, 0, s.Len(), "bare specs do not add conversation items")
}

func TestEachAnswerGetsFreshSpec(t *testing.T) {
	s := NewStore(nil)
	payload := `{"type":"answer_created","answer":{"id":"a","questionId":"q","text":"t","visualization":{"id":"v","duration":1,"layers":[]}}}`
	first, _ := s.Apply(decode(t, payload))
	second, _ := s.Apply(decode(t, payload))
	assert.NotSame(t, first, second, "a repeated answer restarts playback")
}

func TestPage(t *testing.T) {
	s := NewStore(nil)
	for _, id := range []string{"q_1", "q_2", "q_3", "q_4", "q_5"} {
		s.Apply(feed.Event{Kind: feed.QuestionCreated, Question: &feed.Question{ID: id}})
	}
	ids := func(items []Item) []string {
		out := make([]string, len(items))
		for i, it := range items {
			out[i] = it.ID
		}
		return out
	}

	tests := []struct {
		offset, limit int
		want          []string
	}{
		{0, 2, []string{"q_5", "q_4"}},
		{2, 2, []string{"q_3", "q_2"}},
		{4, 2, []string{"q_1"}},
		{9, 2, []string{}},
		{-1, 1, []string{"q_5"}},
		{3, 0, []string{"q_2", "q_1"}},
	}
	for _, tt := range tests {
		items, total := s.Page(tt.offset, tt.limit)
		assert.Equal(t, 5, total)
		assert.Equal(t, tt.want, ids(items), "offset=%d limit=%d", tt.offset, tt.limit)
	}
}

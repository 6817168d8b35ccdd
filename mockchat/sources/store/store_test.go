package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ts(v int64) *int64 { return &v }

func TestSummarizeDefaults(t *testing.T) {
	s := Summarize("c_1", Meta{}, nil)
	assert.Equal(t, Summary{ID: "c_1", Title: DefaultListTitle}, s)

	s = Summarize("c_2", Meta{Title: "Work Planning"}, []Message{
		{Content: "first", Ts: 1},
		{Content: "second", Ts: 7},
	})
	assert.Equal(t, "Work Planning", s.Title)
	assert.Equal(t, "second", s.Last)
	assert.Equal(t, ts(7), s.Ts)
}

func TestSortSummariesNilLast(t *testing.T) {
	list := []Summary{
		{ID: "b", Ts: nil},
		{ID: "a", Ts: ts(5)},
		{ID: "c", Ts: ts(9)},
		{ID: "d", Ts: ts(5)},
		{ID: "a0", Ts: nil},
	}
	SortSummaries(list)

	var order []string
	for _, s := range list {
		order = append(order, s.ID)
	}
	assert.Equal(t, []string{"c", "a", "d", "a0", "b"}, order)
}

func TestReplaceOrAppend(t *testing.T) {
	msgs := []Message{{ID: "u", Role: RoleUser}}
	msgs, saved := replaceOrAppend(msgs, Message{ID: "a", Role: RoleAssistant, Content: "one", Ts: 1})
	assert.Len(t, msgs, 2)
	assert.Equal(t, "a", saved.ID)

	msgs, saved = replaceOrAppend(msgs, Message{ID: "b", Role: RoleAssistant, Content: "two", Ts: 2})
	assert.Len(t, msgs, 2)
	assert.Equal(t, "a", saved.ID)
	assert.Equal(t, "two", msgs[1].Content)
	assert.Equal(t, int64(2), msgs[1].Ts)
}

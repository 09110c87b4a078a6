package todo

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodo_Apply(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	earlier := int64(333)
	newText := "  walk the dog  "

	tests := []struct {
		name            string
		start           Todo
		patch           Patch
		wantText        string
		wantCompleted   bool
		wantCompletedAt *int64
		wantTransition  bool
	}{
		{
			name:            "complete open task",
			start:           Todo{Text: "first"},
			patch:           Patch{Completed: true},
			wantText:        "first",
			wantCompleted:   true,
			wantCompletedAt: ptr(now.UnixMilli()),
			wantTransition:  true,
		},
		{
			name:            "completing a completed task keeps its timestamp",
			start:           Todo{Text: "second", Completed: true, CompletedAt: &earlier},
			patch:           Patch{Completed: true},
			wantText:        "second",
			wantCompleted:   true,
			wantCompletedAt: &earlier,
		},
		{
			name:          "uncomplete clears timestamp",
			start:         Todo{Text: "second", Completed: true, CompletedAt: &earlier},
			patch:         Patch{Completed: false},
			wantText:      "second",
			wantCompleted: false,
		},
		{
			name:          "text only patch clears completion",
			start:         Todo{Text: "second", Completed: true, CompletedAt: &earlier},
			patch:         Patch{Text: &newText},
			wantText:      "walk the dog",
			wantCompleted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todo := tt.start
			transition := todo.Apply(tt.patch, now)

			assert.Equal(t, tt.wantTransition, transition)
			assert.Equal(t, tt.wantText, todo.Text)
			assert.Equal(t, tt.wantCompleted, todo.Completed)
			assert.Equal(t, tt.wantCompletedAt, todo.CompletedAt)
		})
	}
}

func TestTodo_ApplyIsIdempotent(t *testing.T) {
	todo := Todo{Text: "first"}
	patch := Patch{Completed: true}

	todo.Apply(patch, time.UnixMilli(1000))
	first := todo
	todo.Apply(patch, time.UnixMilli(2000))

	assert.Equal(t, first, todo)
}

func TestTodo_JSONShape(t *testing.T) {
	data, err := json.Marshal(Todo{ID: "abc", Text: "first"})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.Equal(t, "abc", fields["id"])
	assert.Equal(t, false, fields["completed"])
	assert.Contains(t, fields, "completedAt")
	assert.Nil(t, fields["completedAt"])
	assert.Contains(t, fields, "owner")
	assert.NotContains(t, fields, "CreatedAt")
}

func ptr[T any](v T) *T {
	return &v
}

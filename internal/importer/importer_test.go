package importer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/storage"
)

func TestParse_ValidExport(t *testing.T) {
	doc := `[
  {
    "id": 1760684400000,
    "text": "Buy milk",
    "completed": true,
    "time": "",
    "priority": "low"
  },
  {
    "id": 1760684400001,
    "text": "Call mom",
    "completed": false,
    "time": "14:00",
    "priority": "high"
  }
]`
	tasks, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, storage.Task{ID: 1760684400001, Text: "Call mom", Time: "14:00", Priority: storage.PriorityHigh}, tasks[1])
	assert.True(t, tasks[0].Completed)
}

func TestParse_VoiceTaskWithoutPriority(t *testing.T) {
	tasks, err := ParseBytes([]byte(`[{"id":1,"text":"spoken","completed":false}]`))
	require.NoError(t, err)
	assert.Equal(t, storage.PriorityLow, tasks[0].Priority)
	assert.Equal(t, "", tasks[0].Time)
}

func TestParse_AcceptsWhatLoadAccepts(t *testing.T) {
	// Free-form time labels and blank text both load from storage, so an
	// export of them has to import again.
	tasks, err := ParseBytes([]byte(`[{"id":1,"text":""},{"id":2,"text":"Dentist","time":"2pm"},{"id":3,"text":"Gym","time":"09:30:00"}]`))
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "", tasks[0].Text)
	assert.Equal(t, "2pm", tasks[1].Time)
	assert.Equal(t, "09:30:00", tasks[2].Time)
}

func TestParse_EmptyList(t *testing.T) {
	tasks, err := ParseBytes([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantPath string
	}{
		{"not an array", `{"tasks":[]}`, ""},
		{"missing text", `[{"id":1}]`, "[0]"},
		{"text not a string", `[{"id":1,"text":5}]`, "[0].text"},
		{"fractional id", `[{"id":1.5,"text":"a"}]`, "[0].id"},
		{"bad priority", `[{"id":1,"text":"a"},{"id":2,"text":"b","priority":"urgent"}]`, "[1].priority"},
		{"time not a string", `[{"id":1,"text":"a","time":1400}]`, "[0].time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(tt.doc))
			var se *SchemaError
			require.True(t, errors.As(err, &se), "error = %v", err)
			require.NotEmpty(t, se.Issues)
			paths := make([]string, len(se.Issues))
			for i, issue := range se.Issues {
				paths[i] = issue.Path
			}
			assert.Contains(t, paths, tt.wantPath)
		})
	}
}

func TestParse_DuplicateIDs(t *testing.T) {
	_, err := ParseBytes([]byte(`[{"id":7,"text":"a"},{"id":7,"text":"b"}]`))
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.ErrorContains(t, err, "[0] and [1]")
}

func TestParse_NotJSON(t *testing.T) {
	_, err := ParseBytes([]byte(`not json`))
	assert.ErrorContains(t, err, "parse task file")
}

func TestParse_RoundTripsEncodeTasks(t *testing.T) {
	want := []storage.Task{
		{ID: 3, Text: "Plan trip", Time: "08:15", Priority: storage.PriorityMedium},
		{ID: 1, Text: "Buy milk", Completed: true, Priority: storage.PriorityLow},
	}
	data, err := storage.EncodeTasks(want)
	require.NoError(t, err)

	got, err := ParseBytes(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPointerToPath(t *testing.T) {
	assert.Equal(t, "", pointerToPath(""))
	assert.Equal(t, "[0]", pointerToPath("/0"))
	assert.Equal(t, "[2].priority", pointerToPath("/2/priority"))
}

func TestSummarize(t *testing.T) {
	current := []storage.Task{{ID: 1, Text: "old"}}
	incoming := []storage.Task{{ID: 2, Text: "a", Completed: true}, {ID: 3, Text: "b"}}

	s := Summarize(current, incoming)
	assert.Equal(t, Summary{Incoming: 2, Completed: 1, Replaced: 1}, s)
	assert.Equal(t, "2 tasks (1 completed) will replace the current 1", s.String())
}

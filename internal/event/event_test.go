package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/courseflow/internal/topic"
)

func mustEvent(t *testing.T, name string) *Event {
	t.Helper()
	ev, err := New(name, nil, nil)
	require.NoError(t, err)
	return ev
}

func TestParseName(t *testing.T) {
	t.Run("valid names", func(t *testing.T) {
		cases := []struct {
			name  string
			typ   Type
			unit  int
			group string
		}{
			{"Lecture 3b - Conditionals", Lecture, 3, "b"},
			{"Lab 1a", Lab, 1, "a"},
			{"Homework 2c - Sorting", Homework, 2, "c"},
			{"HW 2c", Homework, 2, "c"},
			{"Project 4 - Capstone", Project, 4, ""},
			{"Project2", Project, 2, ""},
			{"lecture 10z", Lecture, 10, "z"},
			{"Lecture 1ß - Sharp", Lecture, 1, "ß"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				ev, err := New(tc.name, nil, nil)
				require.NoError(t, err)
				assert.Equal(t, tc.typ, ev.Type)
				assert.Equal(t, tc.unit, ev.Unit)
				assert.Equal(t, tc.group, ev.GroupID)
				assert.Equal(t, tc.name, ev.Name)
			})
		}
	})

	t.Run("invalid names", func(t *testing.T) {
		cases := []struct {
			name   string
			reason string
		}{
			{"Quiz 1a", "cannot distinguish event type"},
			{"Lecture Lab 1a", "cannot distinguish event type"},
			{"Lecture 1a 2", "cannot distinguish event number"},
			{"Lecture a", "cannot distinguish event number"},
			{"Lecture 1", "missing a group id"},
			{"Lab 3", "missing a group id"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := New(tc.name, nil, nil)
				var perr *ParseError
				require.ErrorAs(t, err, &perr)
				assert.Equal(t, tc.name, perr.Name)
				assert.Contains(t, perr.Error(), tc.reason)
			})
		}
	})

	t.Run("only text before the first hyphen matters", func(t *testing.T) {
		// The title can mention other keywords and numbers freely.
		ev, err := New("Lecture 2a - Lab safety in 3 steps", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, Lecture, ev.Type)
		assert.Equal(t, 2, ev.Unit)
		assert.Equal(t, "a", ev.GroupID)
	})
}

func TestCompare(t *testing.T) {
	t.Run("unit dominates", func(t *testing.T) {
		a := mustEvent(t, "Project 1")
		b := mustEvent(t, "Lecture 2a")
		assert.True(t, a.Less(b))
		assert.False(t, b.Less(a))
	})

	t.Run("group id orders within a unit", func(t *testing.T) {
		a := mustEvent(t, "Homework 1a")
		b := mustEvent(t, "Lecture 1b")
		assert.True(t, a.Less(b))
	})

	t.Run("absent group sorts after present groups", func(t *testing.T) {
		grouped := mustEvent(t, "Homework 1z")
		project := mustEvent(t, "Project 1")
		assert.True(t, grouped.Less(project))
		assert.False(t, project.Less(grouped))
	})

	t.Run("type rank breaks ties", func(t *testing.T) {
		lecture := mustEvent(t, "Lecture 1a")
		lab := mustEvent(t, "Lab 1a")
		hw := mustEvent(t, "Homework 1a")
		assert.True(t, lecture.Less(lab))
		assert.True(t, lab.Less(hw))
		assert.True(t, lecture.Less(hw))
	})

	t.Run("equal slots compare as zero", func(t *testing.T) {
		a := mustEvent(t, "Lecture 1a - Intro")
		b := mustEvent(t, "Lecture 1a - Intro again")
		assert.Zero(t, a.Compare(b))
	})
}

func TestSideOf(t *testing.T) {
	l := &topic.Topic{Name: "loops"}
	v := &topic.Topic{Name: "variables"}
	ev, err := New("Lab 1a", topic.NewSet(l), topic.NewSet(v, l))
	require.NoError(t, err)
	assert.Equal(t, Taught, ev.SideOf(l))
	assert.Equal(t, Required, ev.SideOf(v))
}

func TestAllTopics(t *testing.T) {
	v := &topic.Topic{Name: "variables"}
	l := &topic.Topic{Name: "loops"}
	f := &topic.Topic{Name: "functions"}

	ev, err := New("Lab 1a", topic.NewSet(l, v), topic.NewSet(f, v))
	require.NoError(t, err)

	names := make([]string, 0, 3)
	for _, tp := range ev.AllTopics() {
		names = append(names, tp.Name)
	}
	// Taught topics come first in name order, then required ones that are
	// not also taught.
	assert.Equal(t, []string{"loops", "variables", "functions"}, names)
}

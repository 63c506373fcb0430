package resolver

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/courseflow/internal/event"
	"github.com/vk/courseflow/internal/report"
	"github.com/vk/courseflow/internal/topic"
)

// smallCourse registers topics A <- B <- C plus the standalone topic D and
// schedules a lecture teaching A and B, a lab requiring all of A, B, C, and
// a lecture teaching C.
func smallCourse(t *testing.T, w io.Writer) *Resolver {
	t.Helper()
	res := New(report.New(w, report.Info))
	reg := res.Topics()

	deps := map[string][]string{"B": {"A"}, "C": {"B"}}
	for _, name := range []string{"A", "B", "C", "D"} {
		_, err := reg.Register(name, "about "+name)
		require.NoError(t, err)
	}
	for name, depNames := range deps {
		require.NoError(t, reg.Link(name, depNames))
	}
	get := func(name string) *topic.Topic {
		tp, ok := reg.Get(name)
		require.True(t, ok)
		return tp
	}

	lecture, err := event.New("Lecture 1a - Basics", topic.NewSet(get("A"), get("B")), nil)
	require.NoError(t, err)
	teach, err := event.New("Lecture 1b - More", topic.NewSet(get("C")), nil)
	require.NoError(t, err)
	lab, err := event.New("Lab 1b - Practice", nil, topic.NewSet(get("A"), get("B"), get("C")))
	require.NoError(t, err)
	for _, ev := range []*event.Event{lecture, teach, lab} {
		require.NoError(t, res.Events().Add(ev))
	}
	return res
}

func TestFinalize(t *testing.T) {
	t.Run("simplifies required sets", func(t *testing.T) {
		res := smallCourse(t, io.Discard)
		require.NoError(t, res.Finalize())

		lab, ok := res.FindEvent("Lab 1b")
		require.True(t, ok)
		// C transitively implies both B and A, so only C remains.
		require.Equal(t, 1, lab.Required.Len())
		assert.Equal(t, "C", lab.Required.Sorted()[0].Name)
	})

	t.Run("warns about unused topics", func(t *testing.T) {
		var buf bytes.Buffer
		res := smallCourse(t, &buf)
		require.NoError(t, res.Finalize())
		assert.Contains(t, buf.String(), "DATA-WARNING: topic 'D' is not used in any event")
		assert.NotContains(t, buf.String(), "topic 'A' is not used")
	})

	t.Run("rejects dependency cycles", func(t *testing.T) {
		res := smallCourse(t, io.Discard)
		require.NoError(t, res.Topics().Link("A", []string{"C"}))
		err := res.Finalize()
		var cyc *topic.CyclicDependencyError
		assert.ErrorAs(t, err, &cyc)
	})

	t.Run("cannot finalize twice", func(t *testing.T) {
		res := smallCourse(t, io.Discard)
		require.NoError(t, res.Finalize())
		assert.ErrorContains(t, res.Finalize(), "already finalized")
	})
}

func TestTaughtDepth(t *testing.T) {
	res := smallCourse(t, io.Discard)
	require.NoError(t, res.Finalize())
	lecture, ok := res.FindEvent("Lecture 1a")
	require.True(t, ok)
	a, _ := res.Topics().Get("A")
	b, _ := res.Topics().Get("B")
	c, _ := res.Topics().Get("C")

	t.Run("root topic sits at depth zero", func(t *testing.T) {
		depth, err := res.TopicTaughtDepth(a, lecture)
		require.NoError(t, err)
		assert.Equal(t, 0, depth)
	})

	t.Run("dependent topic sits below its sibling", func(t *testing.T) {
		depth, err := res.TopicTaughtDepth(b, lecture)
		require.NoError(t, err)
		assert.Equal(t, 1, depth)
	})

	t.Run("topic not taught by the event fails", func(t *testing.T) {
		_, err := res.TopicTaughtDepth(c, lecture)
		assert.ErrorContains(t, err, "is not taught in")
	})

	t.Run("event depth counts layers", func(t *testing.T) {
		depth, err := res.TopicsTaughtDepth(lecture)
		require.NoError(t, err)
		assert.Equal(t, 2, depth)
	})

	t.Run("event teaching nothing fails", func(t *testing.T) {
		lab, ok := res.FindEvent("Lab 1b")
		require.True(t, ok)
		_, err := res.TopicsTaughtDepth(lab)
		assert.ErrorContains(t, err, "has no topics taught")
	})
}

func TestMostRecentTaught(t *testing.T) {
	res := smallCourse(t, io.Discard)
	require.NoError(t, res.Finalize())
	lab, ok := res.FindEvent("Lab 1b")
	require.True(t, ok)
	a, _ := res.Topics().Get("A")
	d, _ := res.Topics().Get("D")

	got, err := res.MostRecentTaught(lab, a, false)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Lecture 1a - Basics", got.Name)

	got, err = res.MostRecentTaught(lab, d, true)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindMatch(t *testing.T) {
	names := []string{"Lecture 1a - Loops", "Lab 1a - Loops", "lab 1a - loops"}

	t.Run("exact match wins over substring matches", func(t *testing.T) {
		got, ok := findMatch("Lab 1a - Loops", names)
		require.True(t, ok)
		assert.Equal(t, "Lab 1a - Loops", got)
	})

	t.Run("unique substring match", func(t *testing.T) {
		got, ok := findMatch("lecture", names)
		require.True(t, ok)
		assert.Equal(t, "Lecture 1a - Loops", got)
	})

	t.Run("ambiguous query fails", func(t *testing.T) {
		_, ok := findMatch("loops", names)
		assert.False(t, ok)
	})

	t.Run("unmatched query fails", func(t *testing.T) {
		_, ok := findMatch("recursion", names)
		assert.False(t, ok)
	})
}

func TestFindEventAndTopic(t *testing.T) {
	res := smallCourse(t, io.Discard)
	require.NoError(t, res.Finalize())

	ev, ok := res.FindEvent("lab 1b")
	require.True(t, ok)
	assert.Equal(t, "Lab 1b - Practice", ev.Name)

	tp, ok := res.FindTopic("d")
	require.True(t, ok)
	assert.Equal(t, "D", tp.Name)

	_, ok = res.FindEvent("seminar")
	assert.False(t, ok)
}

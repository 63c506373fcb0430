package topic

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/courseflow/internal/report"
)

func quietRegistry() *Registry {
	return NewRegistry(report.New(io.Discard, report.Silent))
}

// chain registers topics a <- b <- c <- ... where each depends on the
// previous one.
func chain(t *testing.T, r *Registry, names ...string) {
	t.Helper()
	for i, name := range names {
		_, err := r.Register(name, "")
		require.NoError(t, err)
		if i > 0 {
			require.NoError(t, r.Link(name, []string{names[i-1]}))
		}
	}
}

func TestRegister(t *testing.T) {
	t.Run("idempotent on identical data", func(t *testing.T) {
		r := quietRegistry()
		first, err := r.Register("loops", "iteration")
		require.NoError(t, err)
		again, err := r.Register("loops", "iteration")
		require.NoError(t, err)
		assert.Same(t, first, again)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("conflicting data fails", func(t *testing.T) {
		r := quietRegistry()
		_, err := r.Register("loops", "iteration")
		require.NoError(t, err)
		_, err = r.Register("loops", "something else")
		var dup *DuplicateTopicError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "loops", dup.Name)
	})
}

func TestLink(t *testing.T) {
	t.Run("resolves names to topics", func(t *testing.T) {
		r := quietRegistry()
		chain(t, r, "variables", "loops")
		loops, ok := r.Get("loops")
		require.True(t, ok)
		require.Equal(t, 1, loops.Dependencies().Len())
		assert.Equal(t, "variables", loops.Dependencies().Sorted()[0].Name)
	})

	t.Run("unknown dependency is warned and dropped", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRegistry(report.New(&buf, report.Warning))
		_, err := r.Register("loops", "")
		require.NoError(t, err)
		require.NoError(t, r.Link("loops", []string{"typo"}))
		loops, _ := r.Get("loops")
		assert.Equal(t, 0, loops.Dependencies().Len())
		assert.Contains(t, buf.String(), "DATA-WARNING: unknown topic 'typo'")
	})

	t.Run("unknown subject fails", func(t *testing.T) {
		r := quietRegistry()
		err := r.Link("missing", nil)
		var unknown *UnknownTopicError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "missing", unknown.Name)
	})
}

func TestDependencyDepth(t *testing.T) {
	t.Run("direct dependency has depth 1", func(t *testing.T) {
		r := quietRegistry()
		chain(t, r, "a", "b")
		a, _ := r.Get("a")
		b, _ := r.Get("b")
		depth, ok := r.DependencyDepth(b, a)
		require.True(t, ok)
		assert.Equal(t, 1, depth)
	})

	t.Run("depth grows along a chain", func(t *testing.T) {
		r := quietRegistry()
		chain(t, r, "a", "b", "c", "d")
		a, _ := r.Get("a")
		d, _ := r.Get("d")
		depth, ok := r.DependencyDepth(d, a)
		require.True(t, ok)
		assert.Equal(t, 3, depth)
	})

	t.Run("unrelated topics have no depth", func(t *testing.T) {
		r := quietRegistry()
		chain(t, r, "a", "b")
		a, _ := r.Get("a")
		b, _ := r.Get("b")
		_, ok := r.DependencyDepth(a, b)
		assert.False(t, ok)
		assert.False(t, r.IsDependentOn(a, b))
	})

	t.Run("minimum depth wins in a diamond", func(t *testing.T) {
		// d depends on a directly and through b -> c.
		r := quietRegistry()
		chain(t, r, "a", "b", "c")
		_, err := r.Register("d", "")
		require.NoError(t, err)
		require.NoError(t, r.Link("d", []string{"c", "a"}))
		a, _ := r.Get("a")
		d, _ := r.Get("d")
		depth, ok := r.DependencyDepth(d, a)
		require.True(t, ok)
		assert.Equal(t, 1, depth)
	})
}

func TestSimplify(t *testing.T) {
	t.Run("implied member is removed", func(t *testing.T) {
		// C depends on A and B while B already depends on A, so A is
		// redundant in C's set.
		var buf bytes.Buffer
		r := NewRegistry(report.New(&buf, report.Info))
		chain(t, r, "A", "B")
		_, err := r.Register("C", "")
		require.NoError(t, err)
		require.NoError(t, r.Link("C", []string{"A", "B"}))

		c, _ := r.Get("C")
		r.Simplify(c.Dependencies(), "C")

		require.Equal(t, 1, c.Dependencies().Len())
		assert.Equal(t, "B", c.Dependencies().Sorted()[0].Name)
		assert.Contains(t, buf.String(), "DATA-INFO: ignoring topic 'A' in 'C'")
	})

	t.Run("idempotent", func(t *testing.T) {
		r := quietRegistry()
		chain(t, r, "A", "B")
		_, err := r.Register("C", "")
		require.NoError(t, err)
		require.NoError(t, r.Link("C", []string{"A", "B"}))
		c, _ := r.Get("C")
		r.Simplify(c.Dependencies(), "C")
		before := c.Dependencies().Sorted()
		r.Simplify(c.Dependencies(), "C")
		assert.Equal(t, before, c.Dependencies().Sorted())
	})

	t.Run("unrelated members survive", func(t *testing.T) {
		r := quietRegistry()
		for _, name := range []string{"x", "y", "z"} {
			_, err := r.Register(name, "")
			require.NoError(t, err)
		}
		require.NoError(t, r.Link("z", []string{"x", "y"}))
		z, _ := r.Get("z")
		r.Simplify(z.Dependencies(), "z")
		assert.Equal(t, 2, z.Dependencies().Len())
	})
}

func TestCheckCycles(t *testing.T) {
	t.Run("acyclic graph passes", func(t *testing.T) {
		r := quietRegistry()
		chain(t, r, "a", "b", "c")
		assert.NoError(t, r.CheckCycles())
	})

	t.Run("direct cycle is rejected", func(t *testing.T) {
		r := quietRegistry()
		chain(t, r, "a", "b")
		require.NoError(t, r.Link("a", []string{"b"}))
		err := r.CheckCycles()
		var cyc *CyclicDependencyError
		require.ErrorAs(t, err, &cyc)
	})

	t.Run("longer cycle is rejected", func(t *testing.T) {
		r := quietRegistry()
		chain(t, r, "a", "b", "c", "d")
		require.NoError(t, r.Link("a", []string{"d"}))
		err := r.CheckCycles()
		assert.ErrorContains(t, err, "cyclic dependency")
	})

	t.Run("simplify does not loop on a defended cycle", func(t *testing.T) {
		// Cycles are fatal at finalize, but simplify must still terminate
		// if one slips through.
		r := quietRegistry()
		chain(t, r, "a", "b")
		require.NoError(t, r.Link("a", []string{"b"}))
		set := NewSet()
		a, _ := r.Get("a")
		b, _ := r.Get("b")
		set.Add(a)
		set.Add(b)
		r.Simplify(set, "cycle")
	})
}

func TestSetSorted(t *testing.T) {
	s := NewSet(&Topic{Name: "b"}, &Topic{Name: "a"}, &Topic{Name: "c"})
	names := make([]string, 0, s.Len())
	for _, tp := range s.Sorted() {
		names = append(names, tp.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

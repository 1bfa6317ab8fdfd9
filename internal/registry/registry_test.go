package registry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// explodingDescriptor fails the test if anything tries to run the function
// behind it; only metadata accessors are allowed.
type explodingDescriptor struct {
	t    *testing.T
	spec ArgSpec
}

func (d explodingDescriptor) Documentation() string { return "" }
func (d explodingDescriptor) ArgSpec() ArgSpec       { return d.spec }
func (d explodingDescriptor) Call() {
	d.t.Fatal("descriptor function was invoked")
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := New(Execution, map[string]Descriptor{
		"pkg.install": Function{Doc: "Install a package", Spec: ArgSpec{
			Args:     []string{"name", "refresh", "fromrepo"},
			Defaults: []any{false, nil},
			Kwargs:   "kwargs",
		}},
		"pkg.remove": Function{Doc: "Remove a package", Spec: ArgSpec{Args: []string{"name"}}},
		"user.info":  Function{Doc: "Return user info"},
		"orphan":     Function{},
	})
	require.NoError(t, err)
	return reg
}

func TestNew(t *testing.T) {
	t.Run("names are sorted", func(t *testing.T) {
		reg := newTestRegistry(t)
		assert.Equal(t, Execution, reg.Kind())
		assert.Equal(t, 4, reg.Len())
		assert.Equal(t, []string{"orphan", "pkg.install", "pkg.remove", "user.info"}, reg.Names())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := New(State, map[string]Descriptor{"": Function{}})
		assert.Error(t, err)
	})

	t.Run("rejects nil descriptor", func(t *testing.T) {
		_, err := New(State, map[string]Descriptor{"file.managed": nil})
		assert.Error(t, err)
	})

	t.Run("input map is copied", func(t *testing.T) {
		entries := map[string]Descriptor{"a.b": Function{}}
		reg, err := New(State, entries)
		require.NoError(t, err)
		entries["c.d"] = Function{}
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("names returns a copy", func(t *testing.T) {
		reg := newTestRegistry(t)
		names := reg.Names()
		names[0] = "MODIFIED"
		assert.Equal(t, "orphan", reg.Names()[0])
	})
}

func TestEachVisitsInOrder(t *testing.T) {
	reg := newTestRegistry(t)
	var seen []string
	reg.Each(func(name string, _ Descriptor) {
		seen = append(seen, name)
	})
	assert.Equal(t, reg.Names(), seen)
}

func TestArgspecReport(t *testing.T) {
	reg := newTestRegistry(t)

	t.Run("module filter", func(t *testing.T) {
		report := ArgspecReport(reg, "pkg")
		assert.Len(t, report, 2)
		assert.Equal(t, []string{"name", "refresh", "fromrepo"}, report["pkg.install"].Args)
		assert.Equal(t, "kwargs", report["pkg.install"].Kwargs)
	})

	t.Run("exact function", func(t *testing.T) {
		report := ArgspecReport(reg, "pkg.remove")
		assert.Len(t, report, 1)
		assert.Contains(t, report, "pkg.remove")
	})

	t.Run("empty filter reports everything", func(t *testing.T) {
		assert.Len(t, ArgspecReport(reg, ""), 4)
	})

	t.Run("no match is empty, not nil", func(t *testing.T) {
		report := ArgspecReport(reg, "sysctl")
		assert.NotNil(t, report)
		assert.Empty(t, report)
	})

	t.Run("never invokes the function", func(t *testing.T) {
		boom, err := New(Execution, map[string]Descriptor{
			"pkg.install": explodingDescriptor{t: t, spec: ArgSpec{Args: []string{"name"}}},
		})
		require.NoError(t, err)
		report := ArgspecReport(boom, "pkg")
		assert.Equal(t, []string{"name"}, report["pkg.install"].Args)
	})
}

func TestArgSpecDefault(t *testing.T) {
	spec := ArgSpec{Args: []string{"name", "refresh", "fromrepo"}, Defaults: []any{false, nil}}

	_, ok := spec.Default("name")
	assert.False(t, ok)

	v, ok := spec.Default("refresh")
	assert.True(t, ok)
	assert.Equal(t, false, v)

	v, ok = spec.Default("fromrepo")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestArgSpecJSON(t *testing.T) {
	data, err := json.Marshal(ArgSpec{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"args":[],"defaults":[],"varargs":null,"kwargs":null}`, string(data))

	spec := ArgSpec{Args: []string{"name"}, Defaults: []any{"x"}, Varargs: "names", Kwargs: "kwargs"}
	data, err = json.Marshal(spec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"args":["name"],"defaults":["x"],"varargs":"names","kwargs":"kwargs"}`, string(data))

	var back ArgSpec
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, spec, back)
}

func TestArgSpecCloneDoesNotAlias(t *testing.T) {
	fn := Function{Spec: ArgSpec{Args: []string{"name"}}}
	spec := fn.ArgSpec()
	spec.Args[0] = "MODIFIED"
	assert.Equal(t, "name", fn.Spec.Args[0])
}

func TestUnavailableError(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(Unavailable(State, "redis", cause))

	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "state registry unavailable: redis: connection refused", err.Error())

	var unavailable *UnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, State, unavailable.Kind)
}

func TestStaticProvider(t *testing.T) {
	reg := newTestRegistry(t)

	got, err := Static(Execution, reg).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, reg, got)

	_, err = Static(State, nil).Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

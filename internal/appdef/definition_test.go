package appdef

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func propertyNames(props []*PropertyDefinition) []string {
	names := make([]string, 0, len(props))
	for _, p := range props {
		names = append(names, p.Name())
	}
	return names
}

func TestDefineProperty(t *testing.T) {
	t.Parallel()

	t.Run("Success: stores every attribute", func(t *testing.T) {
		t.Parallel()
		def := New("ping")

		prop, err := def.DefineProperty("count", "number of probes", "-n",
			Typed(TypeInteger), Dynamic(true), Ordered(3))
		require.NoError(t, err)

		assert.Equal(t, "count", prop.Name())
		assert.Equal(t, "number of probes", prop.Description())
		assert.Equal(t, "-n", prop.Parameter())
		assert.Equal(t, TypeInteger, prop.Type())
		assert.True(t, prop.IsDynamic())
		order, ok := prop.Order()
		assert.True(t, ok)
		assert.Equal(t, 3, order)

		got, ok := def.Property("count")
		require.True(t, ok)
		assert.Same(t, prop, got)
	})

	t.Run("Success: defaults to untyped, static and unordered", func(t *testing.T) {
		t.Parallel()
		def := New("ping")

		prop, err := def.DefineProperty("target", "", "-t")
		require.NoError(t, err)
		assert.Equal(t, TypeUntyped, prop.Type())
		assert.False(t, prop.IsDynamic())
		_, ok := prop.Order()
		assert.False(t, ok)
	})

	t.Run("Failure: duplicate name", func(t *testing.T) {
		t.Parallel()
		def := New("ping")

		_, err := def.DefineProperty("target", "", "-t")
		require.NoError(t, err)
		_, err = def.DefineProperty("target", "again", "--target")
		require.ErrorIs(t, err, ErrDuplicateProperty)

		prop, _ := def.Property("target")
		assert.Equal(t, "-t", prop.Parameter(), "the original definition must be kept")
	})

	t.Run("Failure: empty name", func(t *testing.T) {
		t.Parallel()
		_, err := New("ping").DefineProperty("", "", "-x")
		require.ErrorIs(t, err, ErrMissingArgument)
	})
}

func TestProperties_Order(t *testing.T) {
	t.Parallel()

	def := New("app")
	_, err := def.DefineProperty("two", "", "-2", Ordered(2))
	require.NoError(t, err)
	_, err = def.DefineProperty("zero", "", "-0", Ordered(0))
	require.NoError(t, err)
	_, err = def.DefineProperty("unsetA", "", "-a")
	require.NoError(t, err)
	_, err = def.DefineProperty("one", "", "-1", Ordered(1))
	require.NoError(t, err)
	_, err = def.DefineProperty("unsetB", "", "-b")
	require.NoError(t, err)
	_, err = def.DefineProperty("oneAgain", "", "-1b", Ordered(1))
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"zero", "one", "oneAgain", "two", "unsetA", "unsetB"},
		propertyNames(def.Properties()),
	)
}

func TestDefinition_Metadata(t *testing.T) {
	t.Parallel()

	def := New("test:app:ping")
	assert.Equal(t, "test:app:ping", def.ID())
	assert.Equal(t, def.ID(), def.URI())
	assert.Equal(t, "test:app:ping", def.DisplayName())

	def.Name = "ping"
	assert.Equal(t, "ping", def.DisplayName())

	_, ok := def.Version()
	assert.False(t, ok)
	def.SetVersion(1, 2, 3)
	v, ok := def.Version()
	require.True(t, ok)
	assert.Equal(t, "1.2.3", v.String())

	def.SetRepository("http://repo/ping.tar", "git://dev/ping")
	assert.Equal(t, "http://repo/ping.tar", def.AppPackage)
	assert.Equal(t, "git://dev/ping", def.DevelopmentRepository)

	def.SetEnv("LD_LIBRARY_PATH", "/opt/lib")
	env := def.Environment()
	assert.Equal(t, map[string]string{"LD_LIBRARY_PATH": "/opt/lib"}, env)
	env["MUTATED"] = "x"
	assert.Len(t, def.Environment(), 1, "Environment must return a copy")
}

func TestDefineMeasurement(t *testing.T) {
	t.Parallel()

	def := New("iperf")
	def.DefineMeasurement("throughput", "bytes per second", map[string]string{"table": "tp"})
	def.DefineMeasurement("jitter", "", nil)
	replaced := def.DefineMeasurement("throughput", "replaced", nil)

	mps := def.Measurements()
	require.Len(t, mps, 2)
	assert.Equal(t, "throughput", mps[0].ID)
	assert.Same(t, replaced, mps[0])
	assert.Equal(t, "jitter", mps[1].ID)

	got, ok := def.Measurement("jitter")
	require.True(t, ok)
	assert.Equal(t, "jitter", got.ID)
}

func TestAddInstance_Concurrent(t *testing.T) {
	t.Parallel()

	def := New("app")
	const workers = 50
	var wg sync.WaitGroup
	seen := make(chan int64, workers)

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			seen <- def.AddInstance()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int64]bool)
	for n := range seen {
		unique[n] = true
	}
	assert.Len(t, unique, workers, "every instance number must be distinct")
	assert.Equal(t, int64(workers+1), def.AddInstance())
}

func TestDeprecatedOperations(t *testing.T) {
	t.Parallel()

	def := New("app")
	require.ErrorIs(t, def.AddProperty("a", "", "-a", TypeString, false), ErrDeprecatedOperation)
	require.ErrorIs(t, def.AddMeasurement("m", "", nil), ErrDeprecatedOperation)
}

func TestParsePropertyType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in    string
		want  PropertyType
		known bool
	}{
		{"integer", TypeInteger, true},
		{"int", TypeInteger, true},
		{"String", TypeString, true},
		{"bool", TypeBoolean, true},
		{"boolean", TypeBoolean, true},
		{"", TypeUntyped, true},
		{"float", PropertyType("float"), false},
	}
	for _, tc := range cases {
		got := ParsePropertyType(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, tc.known, got.Known(), "input %q", tc.in)
	}
}

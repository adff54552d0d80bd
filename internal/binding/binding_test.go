package binding

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestFromGo(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      any
		want    cty.Value
		present bool
	}{
		{"string", "10.0.0.1", cty.StringVal("10.0.0.1"), true},
		{"int", 5, cty.NumberIntVal(5), true},
		{"bool", true, cty.True, true},
		{"nil", nil, cty.NilVal, false},
		{"cty passthrough", cty.StringVal("x"), cty.StringVal("x"), true},
		{"null", cty.NullVal(cty.String), cty.NullVal(cty.String), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			b, err := FromGo(tc.in)
			require.NoError(t, err)
			got, present := b.Value()
			assert.Equal(t, tc.present, present)
			if tc.present {
				assert.True(t, tc.want.RawEquals(got), "want %#v, got %#v", tc.want, got)
			}
		})
	}
}

func TestFromGo_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := FromGo(make(chan int))
	require.Error(t, err)
	require.Panics(t, func() { MustFromGo(make(chan int)) })
}

func TestVariable_NotifiesInOrder(t *testing.T) {
	t.Parallel()

	v := NewVariable("rate", cty.NilVal)
	_, present := v.Value()
	require.False(t, present)

	var got []int64
	sub := v.OnChange(func(val cty.Value, present bool) {
		if !present {
			got = append(got, -1)
			return
		}
		n, _ := val.AsBigFloat().Int64()
		got = append(got, n)
	})

	v.Set(cty.NumberIntVal(1))
	require.NoError(t, v.SetGo(2))
	v.Clear()
	v.Set(cty.NumberIntVal(3))

	assert.Equal(t, []int64{1, 2, -1, 3}, got)

	cur, present := v.Value()
	require.True(t, present)
	assert.True(t, cur.RawEquals(cty.NumberIntVal(3)))

	sub.Unsubscribe()
	sub.Unsubscribe()
	v.Set(cty.NumberIntVal(4))
	assert.Len(t, got, 4, "no delivery after Unsubscribe")
	assert.Equal(t, 0, v.Subscribers())
}

func TestVariable_SerializesConcurrentSetters(t *testing.T) {
	t.Parallel()

	v := NewVariable("x", cty.NilVal)
	var (
		mu      sync.Mutex
		active  int
		overlap bool
		count   int
	)
	v.OnChange(func(cty.Value, bool) {
		mu.Lock()
		active++
		if active > 1 {
			overlap = true
		}
		mu.Unlock()

		mu.Lock()
		active--
		count++
		mu.Unlock()
	})

	const setters = 20
	var wg sync.WaitGroup
	wg.Add(setters)
	for i := 0; i < setters; i++ {
		go func(i int) {
			defer wg.Done()
			v.Set(cty.NumberIntVal(int64(i)))
		}(i)
	}
	wg.Wait()

	assert.False(t, overlap, "handlers must never run concurrently")
	assert.Equal(t, setters, count)
}

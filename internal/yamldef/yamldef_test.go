package yamldef

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/appgrid/internal/appdef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pingYAML = `
id: test:app:ping
name: PING
path: /bin/ping
version:
  major: 1
  minor: 0
  revision: 4
environment:
  LANG: C
properties:
  - name: target
    description: host to ping
    type: string
  - name: count
    parameter: "-c"
    type: int
    dynamic: true
    order: 1
measurements:
  - id: rtt
    options:
      unit: ms
`

func TestDecode(t *testing.T) {
	t.Parallel()

	def, err := Decode(context.Background(), []byte(pingYAML))
	require.NoError(t, err)

	assert.Equal(t, "test:app:ping", def.ID())
	assert.Equal(t, "PING", def.Name)
	v, ok := def.Version()
	require.True(t, ok)
	assert.Equal(t, "1.0.4", v.String())

	props := def.Properties()
	require.Len(t, props, 2)
	assert.Equal(t, "count", props[0].Name())
	assert.Equal(t, appdef.TypeInteger, props[0].Type())
	assert.True(t, props[0].IsDynamic())
	assert.Equal(t, "target", props[1].Name())

	mp, ok := def.Measurement("rtt")
	require.True(t, ok)
	assert.Equal(t, "ms", mp.Options["unit"])
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		src  string
	}{
		{name: "not yaml", src: "id: [unterminated"},
		{name: "missing id", src: "name: x"},
		{name: "unknown field", src: "id: a\ncolour: red"},
		{name: "duplicate property", src: "id: a\nproperties:\n  - name: p\n  - name: p"},
		{name: "measurement without id", src: "id: a\nmeasurements:\n  - description: x"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(context.Background(), []byte(tc.src))
			require.ErrorIs(t, err, appdef.ErrMalformedDocument)
		})
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	def, err := Decode(context.Background(), []byte(pingYAML))
	require.NoError(t, err)

	encoded, err := Encode(def)
	require.NoError(t, err)
	decoded, err := Decoder{}.Decode(context.Background(), encoded)
	require.NoError(t, err, "encoded form:\n%s", encoded)

	summary := func(d *appdef.Definition) []string {
		out := []string{d.ID(), d.DisplayName(), d.Path}
		for _, p := range d.Properties() {
			out = append(out, p.String(), p.Description())
		}
		for _, m := range d.Measurements() {
			out = append(out, m.ID)
		}
		return out
	}
	if diff := cmp.Diff(summary(def), summary(decoded)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, def.Environment(), decoded.Environment())
}

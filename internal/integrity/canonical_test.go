package integrity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeMatchesClientSerializer(t *testing.T) {
	compact := `[{"name":"A","x":0,"y":0},{"name":"B","x":0,"y":10},{"name":"C","x":10,"y":10},{"name":"D","x":10,"y":0}]`

	got, err := Canonicalize([]byte(compact))
	require.NoError(t, err)

	want := `[{"name": "A", "x": 0, "y": 0}, {"name": "B", "x": 0, "y": 10}, {"name": "C", "x": 10, "y": 10}, {"name": "D", "x": 10, "y": 0}]`
	assert.Equal(t, want, got)
	assert.Equal(t, "038c25bb", Digest(got, ""))
}

func TestCanonicalizeEscapesAndNumbers(t *testing.T) {
	raw := `[{"name":"Zürich \"q\"\n😀\u007f\u0001","x":1.50,"y":-0,"extra":[true,null,1e2,1E-7,123456789012345678901234567890,{"k":"v"}]}]`

	got, err := Canonicalize([]byte(raw))
	require.NoError(t, err)

	want := `[{"name": "Z\u00fcrich \"q\"\n\ud83d\ude00\u007f\u0001", "x": 1.5, "y": 0, "extra": [true, null, 100.0, 1e-07, 123456789012345678901234567890, {"k": "v"}]}]`
	assert.Equal(t, want, got)
	assert.Equal(t, "05c7a616", Digest(got, ""))
}

func TestFormatNumber(t *testing.T) {
	tests := map[string]string{
		"10":                   "10",
		"-0":                   "0",
		"10.0":                 "10.0",
		"1e16":                 "1e+16",
		"0.00001":              "1e-05",
		"0.0001":               "0.0001",
		"1e15":                 "1000000000000000.0",
		"-0.0":                 "-0.0",
		"123456789012345680.0": "1.2345678901234568e+17",
		"2.5E-7":               "2.5e-07",
		"3.14159":              "3.14159",
	}

	for in, want := range tests {
		got, err := Canonicalize([]byte(in))
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestCanonicalizeRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{``, `[`, `{"a":}`, `[1] [2]`, `[1,]`} {
		_, err := Canonicalize([]byte(raw))
		assert.Error(t, err, raw)
	}
}

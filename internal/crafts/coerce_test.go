package crafts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestAsInt(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{`1`, 1, true},
		{`-12`, -12, true},
		{`2.0`, 2, true},
		{`2.7`, 2, true},
		{`-2.7`, -2, true},
		{`1e3`, 1000, true},
		{`"3"`, 3, true},
		{`" 7 "`, 7, true},
		{`"+5"`, 5, true},
		{`true`, 1, true},
		{`false`, 0, true},
		{`"3.0"`, 0, false},
		{`"abc"`, 0, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`[1]`, 0, false},
		{`{"id":1}`, 0, false},
	}
	for _, tc := range cases {
		got, ok := AsInt(gjson.Parse(tc.raw))
		assert.Equal(t, tc.ok, ok, "ok for %s", tc.raw)
		assert.Equal(t, tc.want, got, "value for %s", tc.raw)
	}

	_, ok := AsInt(gjson.Result{})
	assert.False(t, ok, "missing value")
}

func TestAsFloat(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{`50`, 50, true},
		{`12.5`, 12.5, true},
		{`"12.5"`, 12.5, true},
		{`" 1e2 "`, 100, true},
		{`true`, 1, true},
		{`"x"`, 0, false},
		{`null`, 0, false},
		{`[50]`, 0, false},
	}
	for _, tc := range cases {
		got, ok := AsFloat(gjson.Parse(tc.raw))
		assert.Equal(t, tc.ok, ok, "ok for %s", tc.raw)
		assert.Equal(t, tc.want, got, "value for %s", tc.raw)
	}
}

func TestTruthy(t *testing.T) {
	falsy := []string{`null`, `false`, `0`, `0.0`, `""`, `[]`, `{}`}
	for _, raw := range falsy {
		assert.False(t, Truthy(gjson.Parse(raw)), raw)
	}
	truthy := []string{`true`, `1`, `-1`, `0.5`, `"0"`, `"false"`, `[0]`, `{"a":null}`}
	for _, raw := range truthy {
		assert.True(t, Truthy(gjson.Parse(raw)), raw)
	}
	assert.False(t, Truthy(gjson.Result{}))
}

func TestIntOrDefault_FailsOnNonNumeric(t *testing.T) {
	n, err := intOrDefault("k", "time", gjson.Parse(`0`), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	_, err = intOrDefault("k", "time", gjson.Parse(`"soon"`), 7)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "time", fe.Field)
	assert.Equal(t, `"soon"`, fe.Raw)
}

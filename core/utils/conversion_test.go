package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt64(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want *int64
	}{
		{"int64", int64(42), ptr(42)},
		{"uint64", uint64(1024), ptr(1024)},
		{"uint64 max int64", uint64(math.MaxInt64), ptr(math.MaxInt64)},
		{"uint64 overflow", uint64(math.MaxInt64) + 1, nil},
		{"numeric string", "1999", ptr(1999)},
		{"padded string", " 12 ", ptr(12)},
		{"negative string", "-3", ptr(-3)},
		{"garbage string", "n/a", nil},
		{"empty string", "", nil},
		{"nil", nil, nil},
		{"bool", true, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseInt64(tc.in)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func TestParseInt(t *testing.T) {
	got := ParseInt("2004")
	require.NotNil(t, got)
	assert.Equal(t, 2004, *got)
	assert.Nil(t, ParseInt("unknown"))
}

func ptr(v int64) *int64 { return &v }

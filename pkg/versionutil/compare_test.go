package versionutil

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(i int) int {
	switch {
	case i > 0:
		return 1
	case i < 0:
		return -1
	default:
		return 0
	}
}

func TestString(t *testing.T) {
	assert.EqualValues(t, "0:1.2", String(0, "1.2"))
	assert.EqualValues(t, "3:2.0.1", String(3, "2.0.1"))
}

func TestRPM_Compare(t *testing.T) {
	var cases = []struct {
		a, b string
		out  int
	}{
		{"0:1.2", "0:1.1", 1},
		{"0:1.1", "0:1.2", -1},
		{"0:1.2", "0:1.2", 0},
		{"1:1.0", "0:9.9", 1},
		{"0:9.9", "1:1.0", -1},
		{"10:1.0", "9:1.0", 1},
		{"0:1.10", "0:1.9", 1},
		{"0:2.0", "0:2.0.1", -1},
		{"1.2", "0:1.2", 0},
	}

	for _, tt := range cases {
		t.Run(tt.a+" "+tt.b, func(t *testing.T) {
			assert.EqualValues(t, tt.out, sign(RPM{}.Compare(tt.a, tt.b)))
			// the order must be antisymmetric
			assert.EqualValues(t, -tt.out, sign(RPM{}.Compare(tt.b, tt.a)))
		})
	}
}

func TestDebian_Compare(t *testing.T) {
	var cases = []struct {
		a, b string
		out  int
	}{
		{"0:1.2", "0:1.1", 1},
		{"1:1.0", "0:9.9", 1},
		{"0:1.0~rc1", "0:1.0", -1},
		{"0:0.0.23.1-5", "0:0.0.23.1-1.1", 1},
		{"0:2.0", "0:2.0", 0},
	}

	for _, tt := range cases {
		t.Run(tt.a+" "+tt.b, func(t *testing.T) {
			assert.EqualValues(t, tt.out, sign(Debian{}.Compare(tt.a, tt.b)))
		})
	}
}

func TestDebian_CompareInvalid(t *testing.T) {
	// "0:" and "0:a" don't start with a digit
	// so they can't be parsed
	var cases = []struct {
		a, b string
		out  int
	}{
		{"0:", "0:1.0", -1},
		{"0:1.0", "0:", 1},
		{"0:a", "0:0.1", -1},
		{"0:", "0:a", -1},
		{"0:a", "0:a", 0},
	}

	for _, tt := range cases {
		t.Run(tt.a+" "+tt.b, func(t *testing.T) {
			assert.EqualValues(t, tt.out, sign(Debian{}.Compare(tt.a, tt.b)))
			assert.EqualValues(t, -tt.out, sign(Debian{}.Compare(tt.b, tt.a)))
		})
	}

	// mixing valid and invalid versions must stay transitive
	versions := []string{"0:a", "0:2.0", "0:", "0:1.0"}
	slices.SortFunc(versions, Debian{}.Compare)
	assert.EqualValues(t, []string{"0:", "0:a", "0:1.0", "0:2.0"}, versions)
}

func TestLookup(t *testing.T) {
	var cases = []struct {
		scheme string
		out    Comparator
		ok     bool
	}{
		{"", RPM{}, true},
		{"rpm", RPM{}, true},
		{"RPM", RPM{}, true},
		{"deb", Debian{}, true},
		{"apk", nil, false},
	}

	for _, tt := range cases {
		t.Run(tt.scheme, func(t *testing.T) {
			out, err := Lookup(tt.scheme)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.out, out)
		})
	}
}

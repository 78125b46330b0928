package distro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifyReturnsKnownValue(t *testing.T) {
	// Environment-dependent: only assert the answer is one of the closed set.
	d := Identify()
	assert.Contains(t, []Distribution{Ubuntu, ArchLinux, Unknown}, d)
}

func TestShouldSkipWithoutRestriction(t *testing.T) {
	// No restriction applies everywhere, whatever the host is.
	assert.False(t, ShouldSkip(""))
}

func TestShouldSkipMismatch(t *testing.T) {
	host := Identify()
	if host == Unknown {
		// Unknown hosts skip every restricted unit, conservatively.
		assert.True(t, ShouldSkip(Ubuntu))
		assert.True(t, ShouldSkip(ArchLinux))
		return
	}

	assert.False(t, ShouldSkip(host))
	for _, other := range []Distribution{Ubuntu, ArchLinux} {
		if other != host {
			assert.True(t, ShouldSkip(other))
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Distribution
	}{
		{"", ""},
		{"ubuntu", Ubuntu},
		{"Ubuntu", Ubuntu},
		{"archlinux", ArchLinux},
		{"arch", ArchLinux},
		{"Arch Linux", ArchLinux},
		{"  ubuntu  ", Ubuntu},
		{"debian", Unknown},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, Parse(tt.in), "Parse(%q)", tt.in)
	}
}

func TestDistributionString(t *testing.T) {
	assert.Equal(t, "Ubuntu", Ubuntu.String())
	assert.Equal(t, "Arch Linux", ArchLinux.String())
	assert.Equal(t, "Unknown", Unknown.String())
}

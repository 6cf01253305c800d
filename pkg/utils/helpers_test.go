package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Millisecond, "500ms"},
		{12*time.Second + 300*time.Millisecond, "12.30s"},
		{90 * time.Second, "1.5m"},
		{90 * time.Minute, "1.5h"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDuration(tc.in))
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "acme-corp", Slugify("Acme Corp"))
	assert.Equal(t, "cafe-munchen", Slugify("Café München"))
}

func TestRandomTokenLengthAndUniqueness(t *testing.T) {
	a := RandomToken(3)
	b := RandomToken(3)
	assert.Len(t, a, 6)
	assert.NotEqual(t, a, b)
}

package slug

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Loft A":                 "loft-a",
		"  Sunny   2BR -- Unit ": "sunny-2br-unit",
		"Café Über Loft":         "cafe-uber-loft",
		"Tom & Jerry":            "tom-and-jerry",
		"!!!":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in), in)
	}
}

func TestMake_TransliteratesToASCII(t *testing.T) {
	got := Make("東京 Loft")
	assert.Regexp(t, `^[a-z0-9]+(-[a-z0-9]+)*$`, got)
	assert.True(t, strings.HasSuffix(got, "-loft"), got)
	assert.True(t, Valid(got))
}

func TestWithTime(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	want := "loft-a-" + strconv.FormatInt(1700000000000, 36)
	assert.Equal(t, want, WithTime("Loft A", at))
	assert.Equal(t, strconv.FormatInt(1700000000000, 36), WithTime("***", at))
	assert.Equal(t, "cafe-uber-loft-0", WithTime("Café Über Loft", time.UnixMilli(0)))
}

func TestNumberedAndValid(t *testing.T) {
	assert.Equal(t, "acme", Numbered("acme", 1))
	assert.Equal(t, "acme-3", Numbered("acme", 3))
	assert.True(t, Valid("acme-3"))
	assert.False(t, Valid("Acme"))
	assert.False(t, Valid(""))
}

package id

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validPattern = regexp.MustCompile(`^[0-9a-z]{8}$`)

func TestNew_Format(t *testing.T) {
	id, err := New()
	require.NoError(t, err)
	assert.Regexp(t, validPattern, id)
}

func TestNew_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := New()
		require.NoError(t, err)
		assert.False(t, seen[id], "collision: %s", id)
		seen[id] = true
	}
}

func TestNew_SkipsBiasedBytes(t *testing.T) {
	prev := random
	t.Cleanup(func() { random = prev })

	src := bytes.Repeat([]byte{252, 253, 254, 255}, 4)
	src = append(src, 0, 35, 36, 71, 251, 1, 2, 3)
	src = append(src, make([]byte, 8)...)
	random = bytes.NewReader(src)

	id, err := New()
	require.NoError(t, err)
	assert.Equal(t, "0z0zz123", id)
}

func TestNew_ReadFails(t *testing.T) {
	prev := random
	t.Cleanup(func() { random = prev })
	random = bytes.NewReader(nil)

	_, err := New()
	assert.Error(t, err)
}

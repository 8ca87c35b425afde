package trackingcode

import (
	"bytes"
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomGenerator_Format(t *testing.T) {
	g := NewRandom(rand.Reader)

	for i := 0; i < 100; i++ {
		code, err := g.Generate()
		require.NoError(t, err)
		assert.Len(t, code, Length)
		assert.True(t, Valid(code), "unexpected code %q", code)
	}
}

func TestRandomGenerator_NoCollisions(t *testing.T) {
	g := NewRandom(rand.Reader)
	seen := make(map[string]struct{}, 10000)

	for i := 0; i < 10000; i++ {
		code, err := g.Generate()
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup, "collision on %s after %d codes", code, i)
		seen[code] = struct{}{}
	}
}

func TestRandomGenerator_SourceError(t *testing.T) {
	g := NewRandom(bytes.NewReader(nil))

	_, err := g.Generate()
	assert.Error(t, err)
}

func TestTimeGenerator(t *testing.T) {
	fixed := time.Unix(1712345678, 0)
	g := NewTimeDerived(func() time.Time { return fixed })

	code, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "QS-12345678", code)
	assert.True(t, Valid(code))

	t.Run("pads short timestamps", func(t *testing.T) {
		g := NewTimeDerived(func() time.Time { return time.Unix(4242, 0) })
		code, err := g.Generate()
		require.NoError(t, err)
		assert.Equal(t, "QS-00004242", code)
	})
}

func TestNew(t *testing.T) {
	g, err := New(ModeRandom)
	require.NoError(t, err)
	assert.NotNil(t, g)

	g, err = New(ModeTime)
	require.NoError(t, err)
	assert.NotNil(t, g)

	_, err = New("uuid")
	assert.Error(t, err)
}

func TestValid(t *testing.T) {
	cases := map[string]bool{
		"QS-A7K9M2P5":  true,
		"QS-00000000":  true,
		"QS-a7k9m2p5":  false,
		"QS-A7K9M2P":   false,
		"QS-A7K9M2P55": false,
		"XX-A7K9M2P5":  false,
		"QS-A7K9-2P5":  false,
		"":             false,
		" QS-A7K9M2P5": false,
	}
	for code, want := range cases {
		assert.Equal(t, want, Valid(code), code)
	}
}

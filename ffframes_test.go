//go:build !ios && !android && (amd64 || arm64)

package ffframes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Skipf("FFmpeg not available: %v", err)
	}

	require.True(t, IsLoaded())
	// Repeated calls are no-ops.
	require.NoError(t, Init())

	u, c, f, s := Version()
	assert.NotZero(t, u)
	assert.NotZero(t, c)
	assert.NotZero(t, f)
	assert.NotZero(t, s)
	t.Logf("avutil %d.%d, avcodec %d.%d, avformat %d.%d, swscale %d.%d",
		u>>16, (u>>8)&0xff, c>>16, (c>>8)&0xff, f>>16, (f>>8)&0xff, s>>16, (s>>8)&0xff)

	libs := Libraries()
	for _, name := range []string{"avutil", "avcodec", "avformat", "swscale"} {
		assert.NotEmpty(t, libs[name], "load path for %s", name)
	}
}

package compose

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeMissingMusicReturnsOriginal(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(video, []byte("not a real video"), 0644))

	c := New(0.3, 0.7)
	got := c.Compose(context.Background(), video, filepath.Join(dir, "missing.mp3"), filepath.Join(dir, "out.mp4"))

	assert.Equal(t, video, got)
	_, err := os.Stat(filepath.Join(dir, "out.mp4"))
	assert.True(t, os.IsNotExist(err), "no output file should be produced")
}

func TestComposeUnreadableVideoReturnsOriginal(t *testing.T) {
	dir := t.TempDir()
	music := filepath.Join(dir, "track.mp3")
	require.NoError(t, os.WriteFile(music, []byte("not real audio"), 0644))
	video := filepath.Join(dir, "missing.mp4")

	c := New(0.3, 0.7)
	got := c.Compose(context.Background(), video, music, filepath.Join(dir, "out.mp4"))

	assert.Equal(t, video, got)
}

func TestBuildFilterWithOriginalAudio(t *testing.T) {
	c := New(0.3, 0.7)
	filter := c.buildFilter(8.0, true)

	assert.Contains(t, filter, "atrim=0:8.000")
	assert.Contains(t, filter, "volume=0.30")
	assert.Contains(t, filter, "volume=0.70")
	assert.Contains(t, filter, "amix=inputs=2:duration=first")
}

func TestBuildFilterMusicOnly(t *testing.T) {
	c := New(0.3, 0.7)
	filter := c.buildFilter(8.0, false)

	assert.Equal(t, "[1:a]atrim=0:8.000,volume=0.30[aout]", filter)
}

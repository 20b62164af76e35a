package hide

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGrabber struct {
	grabbed bool
	failGrab bool
}

func (g *fakeGrabber) Grab() error {
	if g.failGrab {
		return assert.AnError
	}
	g.grabbed = true
	return nil
}

func (g *fakeGrabber) Release() error {
	g.grabbed = false
	return nil
}

// System narrows a node's mode, and restores the original mode on
// release, regardless of how Acquire's caller later exits.
func TestSystemAcquireRestoresOriginalMode(t *testing.T) {
	dir := t.TempDir()
	node := filepath.Join(dir, "eventX")
	require.NoError(t, os.WriteFile(node, []byte("x"), 0o664))

	strategy := systemStrategy{}
	release, err := strategy.Acquire([]string{node}, nil)
	require.NoError(t, err)

	info, err := os.Stat(node)
	require.NoError(t, err)
	assert.Equal(t, hiddenMode, info.Mode().Perm())

	require.NoError(t, release())

	info, err = os.Stat(node)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o664), info.Mode().Perm())
}

func TestSystemAcquireReleaseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	node := filepath.Join(dir, "eventX")
	require.NoError(t, os.WriteFile(node, []byte("x"), 0o664))

	strategy := systemStrategy{}
	release, err := strategy.Acquire([]string{node}, nil)
	require.NoError(t, err)

	require.NoError(t, release())
	require.NoError(t, release())
}

func TestSystemAcquireGrabsGrabbers(t *testing.T) {
	strategy := systemStrategy{}
	g := &fakeGrabber{}

	release, err := strategy.Acquire(nil, []Grabber{g})
	require.NoError(t, err)
	assert.True(t, g.grabbed)

	require.NoError(t, release())
	assert.False(t, g.grabbed)
}

func TestSystemAcquireUnwindsOnGrabFailure(t *testing.T) {
	dir := t.TempDir()
	node := filepath.Join(dir, "eventX")
	require.NoError(t, os.WriteFile(node, []byte("x"), 0o664))

	strategy := systemStrategy{}
	g := &fakeGrabber{failGrab: true}

	_, err := strategy.Acquire([]string{node}, []Grabber{g})
	require.Error(t, err)

	info, err := os.Stat(node)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o664), info.Mode().Perm(), "mode must be restored after a failed grab")
}

func TestNoneStrategyIsNoop(t *testing.T) {
	release, err := noneStrategy{}.Acquire([]string{"/does/not/exist"}, nil)
	require.NoError(t, err)
	require.NoError(t, release())
}

package scan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource drives decode callbacks synchronously from the test.
type fakeSource struct {
	cameras  []Camera
	decodes  []string
	stops    int
	onDecode func(string)
}

func (f *fakeSource) EnumerateCameras() ([]Camera, error) {
	return f.cameras, nil
}

func (f *fakeSource) Start(ctx context.Context, deviceID string, onDecode func(string), onError func(error)) error {
	f.onDecode = onDecode
	for _, text := range f.decodes {
		onDecode(text)
	}
	return nil
}

func (f *fakeSource) Stop() {
	f.stops++
}

func TestSessionForwardsFirstDecodeAndStops(t *testing.T) {
	src := &fakeSource{decodes: []string{"  P1  ", "P2", "P3"}}
	session := NewSession(src)

	var got []string
	err := session.Run(context.Background(), "cam0", func(text string) {
		got = append(got, text)
	})
	require.NoError(t, err)

	// Only the first decode is forwarded, trimmed, and the source is
	// stopped right after it.
	assert.Equal(t, []string{"P1"}, got)
	assert.Equal(t, 1, src.stops)
}

func TestSessionIgnoresEmptyDecodes(t *testing.T) {
	src := &fakeSource{decodes: []string{"", "   ", "P7"}}
	session := NewSession(src)

	var got []string
	err := session.Run(context.Background(), "cam0", func(text string) {
		got = append(got, text)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"P7"}, got)
}

func TestSessionDropsDecodesAfterStop(t *testing.T) {
	src := &fakeSource{}
	session := NewSession(src)

	var got []string
	err := session.Run(context.Background(), "cam0", func(text string) {
		got = append(got, text)
	})
	require.NoError(t, err)
	require.Empty(t, got)

	session.Stop()
	// A decode callback firing after Stop is a late delivery and must
	// be ignored.
	src.onDecode("LATE")
	assert.Empty(t, got)
	assert.Equal(t, 1, src.stops)
}

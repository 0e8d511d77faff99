package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCapturedImage_ReleaseOnce(t *testing.T) {
	calls := 0
	img := NewCapturedImage([]byte("leaf"), EncodingJPEG, "/tmp/leaf.jpg", func() error {
		calls++
		return nil
	})

	encoded, ok := img.Base64()
	require.True(t, ok)
	require.Equal(t, "bGVhZg==", encoded)
	require.False(t, img.Released())

	require.NoError(t, img.Release())
	require.NoError(t, img.Release())
	require.Equal(t, 1, calls)
	require.True(t, img.Released())
	require.Nil(t, img.Data)

	encoded, ok = img.Base64()
	require.False(t, ok)
	require.Empty(t, encoded)
}

func TestImageEncoding_MIMEType(t *testing.T) {
	require.Equal(t, "image/jpeg", EncodingJPEG.MIMEType())
	require.Equal(t, "image/png", EncodingPNG.MIMEType())
	require.Equal(t, "image/jpeg", ImageEncoding("").MIMEType())
}

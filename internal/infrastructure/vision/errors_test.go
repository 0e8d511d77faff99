package vision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQualityError_Message(t *testing.T) {
	small := &QualityError{Reason: ReasonTooSmall, Width: 100, Height: 80}
	require.Equal(t, "quality gate failed: image is too small (100x80)", small.Error())
	require.Contains(t, small.Hint(), "Move closer")

	blurry := &QualityError{Reason: ReasonBlurry, Ratio: 0.0012}
	require.Equal(t, "quality gate failed: blurry image (ratio=0.0012)", blurry.Error())
	require.Contains(t, blurry.Hint(), "blurry")

	require.Contains(t, (&QualityError{Reason: ReasonUndecodable}).Hint(), "JPEG or PNG")
}

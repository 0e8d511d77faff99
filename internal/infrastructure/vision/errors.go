package vision

import (
	"fmt"

	"leafdoctor-bot/internal/domain/port"
)

// DefaultMinImageSide минимальная сторона кадра в пикселях
const DefaultMinImageSide = 224

// Reason причина отказа проверки качества
type Reason string

const (
	ReasonUndecodable  Reason = "undecodable"
	ReasonTooSmall     Reason = "too_small"
	ReasonBlurry       Reason = "blurry"
	ReasonOverexposed  Reason = "overexposed"
	ReasonUnderexposed Reason = "underexposed"
	ReasonGlare        Reason = "glare"
)

// QualityError кадр не прошёл проверку качества
type QualityError struct {
	Reason Reason
	Width  int
	Height int
	Ratio  float64
}

func (e *QualityError) Error() string {
	switch e.Reason {
	case ReasonTooSmall:
		return fmt.Sprintf("quality gate failed: image is too small (%dx%d)", e.Width, e.Height)
	case ReasonUndecodable:
		return "quality gate failed: failed to decode image"
	default:
		return fmt.Sprintf("quality gate failed: %s image (ratio=%.4f)", e.Reason, e.Ratio)
	}
}

// Hint подсказка пользователю, как переснять лист
func (e *QualityError) Hint() string {
	switch e.Reason {
	case ReasonTooSmall:
		return "The photo is too small. Move closer so the leaf fills the frame."
	case ReasonBlurry:
		return "The photo is blurry. Hold the camera still and focus on the leaf."
	case ReasonOverexposed:
		return "The photo is too bright. Avoid direct sunlight on the leaf."
	case ReasonUnderexposed:
		return "The photo is too dark. Take it in better light."
	case ReasonGlare:
		return "There is too much glare. Change the angle or shade the leaf."
	default:
		return "The photo could not be read. Send a JPEG or PNG photo."
	}
}

var _ port.FrameInspector = (*QualityGate)(nil)

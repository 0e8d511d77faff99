//go:build gocv
// +build gocv

package vision

import (
	"context"

	"gocv.io/x/gocv"
)

// QualityGate отсекает кадры, по которым нельзя поставить диагноз:
// слишком маленькие, размытые, пересвеченные, тёмные или с бликами.
type QualityGate struct {
	MinImageSide          int
	MinSharpnessEdgeRatio float64
	MaxOverexposedRatio   float64
	MaxUnderexposedRatio  float64
	MaxGlareRatio         float64
}

// NewQualityGate создаёт проверку с порогами по умолчанию.
func NewQualityGate() *QualityGate {
	return &QualityGate{
		MinImageSide:          DefaultMinImageSide,
		MinSharpnessEdgeRatio: 0.008,
		MaxOverexposedRatio:   0.35,
		MaxUnderexposedRatio:  0.45,
		MaxGlareRatio:         0.08,
	}
}

// Inspect декодирует кадр и проверяет его качество.
func (g *QualityGate) Inspect(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil || mat.Empty() {
		if err == nil {
			mat.Close()
		}
		return &QualityError{Reason: ReasonUndecodable}
	}
	defer mat.Close()

	return g.check(mat)
}

func (g *QualityGate) check(mat gocv.Mat) error {
	if mat.Cols() < g.MinImageSide || mat.Rows() < g.MinImageSide {
		return &QualityError{Reason: ReasonTooSmall, Width: mat.Cols(), Height: mat.Rows()}
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 80, 160)
	if ratio := ratioOfMask(edges); ratio < g.MinSharpnessEdgeRatio {
		return &QualityError{Reason: ReasonBlurry, Ratio: ratio}
	}

	bright := gocv.NewMat()
	defer bright.Close()
	gocv.Threshold(gray, &bright, 250, 255, gocv.ThresholdBinary)
	if ratio := ratioOfMask(bright); ratio > g.MaxOverexposedRatio {
		return &QualityError{Reason: ReasonOverexposed, Ratio: ratio}
	}

	dark := gocv.NewMat()
	defer dark.Close()
	gocv.Threshold(gray, &dark, 20, 255, gocv.ThresholdBinaryInv)
	if ratio := ratioOfMask(dark); ratio > g.MaxUnderexposedRatio {
		return &QualityError{Reason: ReasonUnderexposed, Ratio: ratio}
	}

	// Блик: низкая насыщенность при высокой яркости (мокрый или глянцевый лист)
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(mat, &hsv, gocv.ColorBGRToHSV)
	channels := gocv.Split(hsv)
	for i := range channels {
		defer channels[i].Close()
	}
	if len(channels) < 3 {
		return &QualityError{Reason: ReasonUndecodable}
	}

	lowSat := gocv.NewMat()
	defer lowSat.Close()
	gocv.Threshold(channels[1], &lowSat, 40, 255, gocv.ThresholdBinaryInv)

	highVal := gocv.NewMat()
	defer highVal.Close()
	gocv.Threshold(channels[2], &highVal, 245, 255, gocv.ThresholdBinary)

	glare := gocv.NewMat()
	defer glare.Close()
	gocv.BitwiseAnd(lowSat, highVal, &glare)
	if ratio := ratioOfMask(glare); ratio > g.MaxGlareRatio {
		return &QualityError{Reason: ReasonGlare, Ratio: ratio}
	}

	return nil
}

func ratioOfMask(mask gocv.Mat) float64 {
	total := mask.Cols() * mask.Rows()
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total)
}

package app

import (
	"image"

	"tower-vision/internal/domain/entity"
)

type fakeLineDetector struct {
	results [][]entity.Segment
	err     error
	calls   int
	angles  entity.AngleRange
}

func (f *fakeLineDetector) Type() string { return "FAKE" }

func (f *fakeLineDetector) Run(img *image.Gray) ([]entity.Segment, error) {
	_ = img
	i := f.calls
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) == 0 {
		return nil, nil
	}
	return f.results[i%len(f.results)], nil
}

func (f *fakeLineDetector) RunWithAngleRange(img *image.Gray, center, tolerance float64) ([]entity.Segment, error) {
	saved := f.angles
	f.angles = entity.NewAngleRange(center, tolerance)
	defer func() { f.angles = saved }()
	return f.Run(img)
}

func (f *fakeLineDetector) Lines() []entity.Segment { return nil }

func (f *fakeLineDetector) SetAngleRange(center, tolerance float64) {
	f.angles = entity.NewAngleRange(center, tolerance)
}

func (f *fakeLineDetector) AngleRange() entity.AngleRange { return f.angles }

type fakeFlow struct {
	field *entity.FlowField
	err   error
	calls int
}

func (f *fakeFlow) Calc(prev, next *image.Gray) (*entity.FlowField, error) {
	_, _ = prev, next
	f.calls++
	return f.field, f.err
}

type fakeStep struct {
	err   error
	calls int
}

func (s *fakeStep) Name() string { return "fake" }

func (s *fakeStep) Execute(img *image.Gray) (*image.Gray, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return img, nil
}

type recordedProfile struct {
	frame               int
	profile, simplified []image.Point
}

type fakeProfiles struct {
	records []recordedProfile
}

func (f *fakeProfiles) Record(frame int, profile, simplified []image.Point) error {
	f.records = append(f.records, recordedProfile{frame: frame, profile: profile, simplified: simplified})
	return nil
}

// towerSegments шесть вертикальных отрезков с шагом 4 пикселя, начиная со столбца x0.
func towerSegments(x0, top, bottom int) []entity.Segment {
	segs := make([]entity.Segment, 0, 6)
	for k := 0; k < 6; k++ {
		segs = append(segs, entity.NewSegment(x0+4*k, top, x0+4*k, bottom))
	}
	return segs
}

// bandFlow единичный горизонтальный поток в столбцах [lo, hi] каждой полосы.
func bandFlow(w, h int, bands ...[2]int) *entity.FlowField {
	f := entity.NewFlowField(w, h)
	for _, b := range bands {
		for y := 0; y < h; y++ {
			for x := b[0]; x <= b[1]; x++ {
				f.Set(x, y, 1, 0)
			}
		}
	}
	return f
}

// diagonalFlow единичный поток в полосе |x-y| <= 40 квадрата 100x100.
func diagonalFlow(w, h int) *entity.FlowField {
	f := entity.NewFlowField(w, h)
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if x-y <= 40 && y-x <= 40 {
				f.Set(x, y, 1, 0)
			}
		}
	}
	return f
}

func diagonalSegments() []entity.Segment {
	segs := make([]entity.Segment, 0, 6)
	for k := 0; k <= 10; k += 2 {
		segs = append(segs, entity.NewSegment(k, 0, 99, 99-k))
	}
	return segs
}

func grayPair(w, h int) entity.FramePair {
	return entity.FramePair{
		Index:  7,
		First:  image.NewGray(image.Rect(0, 0, w, h)),
		Second: image.NewGray(image.Rect(0, 0, w, h)),
	}
}

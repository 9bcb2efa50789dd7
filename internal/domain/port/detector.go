package port

import (
	"image"

	"tower-vision/internal/domain/entity"
)

// LineDetector интерфейс детектора линий на одноканальном изображении
type LineDetector interface {
	// Type возвращает имя алгоритма (HOUGH, HOUGHP, HOUGH_FAST, LSD, ...)
	Type() string

	// Run ищет отрезки на изображении; найденные отрезки также доступны через Lines
	Run(img *image.Gray) ([]entity.Segment, error)

	// RunWithAngleRange выполняет Run с временным диапазоном углов; прежний диапазон
	// восстанавливается при любом выходе
	RunWithAngleRange(img *image.Gray, center, tolerance float64) ([]entity.Segment, error)

	// Lines возвращает отрезки последнего запуска
	Lines() []entity.Segment

	// SetAngleRange задаёт диапазон углов относительно вертикали
	SetAngleRange(center, tolerance float64)

	// AngleRange возвращает текущий диапазон углов
	AngleRange() entity.AngleRange
}

// ImageProcessor шаг предварительной обработки: серое изображение на входе и выходе
type ImageProcessor interface {
	// Name возвращает имя шага для журналов
	Name() string

	// Execute применяет шаг к изображению
	Execute(img *image.Gray) (*image.Gray, error)
}

// OpticalFlow интерфейс алгоритма плотного оптического потока
type OpticalFlow interface {
	// Calc вычисляет поток между двумя серыми кадрами одного размера
	Calc(prev, next *image.Gray) (*entity.FlowField, error)
}

// ProfileRecorder получает профиль модуля потока вдоль линии регрессии кандидата
type ProfileRecorder interface {
	// Record сохраняет исходный и упрощённый профиль; точка профиля (модуль, строка)
	Record(frame int, profile, simplified []image.Point) error
}

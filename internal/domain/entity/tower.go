package entity

import (
	"image"
	"time"
)

// Frame кадр видео с его номером и, если известен, путём к файлу.
type Frame struct {
	Index int
	Path  string
	Image image.Image
}

// FramePair два последовательных кадра видео. Index это номер первого кадра,
// используется только для журналов и отчётов.
type FramePair struct {
	Index  int
	First  image.Image
	Second image.Image
}

// TowerResult итог анализа пары кадров.
type TowerResult struct {
	Found     bool        // найдена ли опора
	Window    Window      // окно опоры, имеет смысл только при Found
	Annotated *image.RGBA // копия первого кадра с разметкой
	Groups1   int         // число групп линий в первом кадре
	Groups2   int         // число групп линий во втором кадре
}

// Detection запись о найденной опоре для отчёта и хранилища.
type Detection struct {
	RunID      string    // идентификатор прогона
	Frame      int       // номер кадра
	ImagePath  string    // путь к сохранённому кадру (может быть пустым)
	Window     Window    // окно опоры
	DetectedAt time.Time // время обнаружения
}

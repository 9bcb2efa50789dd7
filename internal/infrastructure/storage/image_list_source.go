package storage

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	"tower-vision/internal/domain/entity"
	"tower-vision/internal/domain/port"
)

// ImageListSource источник кадров из набора файлов изображений
type ImageListSource struct {
	paths []string
	next  int
}

// NewImageListSource принимает каталог или файл-список. В каталоге берутся
// изображения в порядке имён, в списке по строке на кадр, путь относительно списка.
func NewImageListSource(path string) (*ImageListSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return imageDirSource(path)
	}
	return imageListFileSource(path)
}

// NewImagePathsSource источник из готового списка путей.
func NewImagePathsSource(paths ...string) *ImageListSource {
	return &ImageListSource{paths: paths}
}

func imageDirSource(dir string) (*ImageListSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := imaging.FormatFromFilename(e.Name()); err != nil {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return &ImageListSource{paths: paths}, nil
}

func imageListFileSource(list string) (*ImageListSource, error) {
	f, err := os.Open(list)
	if err != nil {
		return nil, fmt.Errorf("open list: %w", err)
	}
	defer f.Close()

	base := filepath.Dir(list)
	paths := make([]string, 0)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}
		paths = append(paths, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read list: %w", err)
	}
	return &ImageListSource{paths: paths}, nil
}

// Len количество кадров.
func (s *ImageListSource) Len() int { return len(s.paths) }

// Next читает следующий кадр
func (s *ImageListSource) Next(ctx context.Context) (entity.Frame, bool, error) {
	if err := ctx.Err(); err != nil {
		return entity.Frame{}, false, err
	}
	if s.next >= len(s.paths) {
		return entity.Frame{}, false, nil
	}
	i := s.next
	s.next++
	img, err := imaging.Open(s.paths[i])
	if err != nil {
		return entity.Frame{}, false, fmt.Errorf("frame %d: %w", i, err)
	}
	return entity.Frame{Index: i, Path: s.paths[i], Image: img}, true, nil
}

// Close ничего не освобождает, файлы открываются по одному
func (s *ImageListSource) Close() error { return nil }

var _ port.FrameSource = (*ImageListSource)(nil)

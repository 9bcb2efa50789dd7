package storage

import (
	"bufio"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"tower-vision/internal/domain/entity"
)

// ReportEntry строка отчёта: путь к кадру и окно опоры.
type ReportEntry struct {
	Path   string
	Window entity.Window
}

// WriteReport перезаписывает отчёт: по строке "путь|x1;y1;x2;y2" на каждое обнаружение.
func WriteReport(path string, detections []entity.Detection) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, d := range detections {
		fmt.Fprintf(w, "%s|%d;%d;%d;%d\n", d.ImagePath,
			d.Window.Pt1.X, d.Window.Pt1.Y, d.Window.Pt2.X, d.Window.Pt2.Y)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}

// ReadReport читает отчёт, записанный WriteReport. Пустые строки пропускаются.
func ReadReport(path string) ([]ReportEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	entries := make([]ReportEntry, 0)
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		e, err := parseReportLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, n, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return entries, nil
}

func parseReportLine(line string) (ReportEntry, error) {
	i := strings.LastIndex(line, "|")
	if i < 0 {
		return ReportEntry{}, fmt.Errorf("missing '|' in %q", line)
	}
	parts := strings.Split(line[i+1:], ";")
	if len(parts) != 4 {
		return ReportEntry{}, fmt.Errorf("want 4 coordinates, got %d", len(parts))
	}
	var c [4]int
	for k, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return ReportEntry{}, fmt.Errorf("coordinate %d: %w", k+1, err)
		}
		c[k] = v
	}
	return ReportEntry{
		Path:   line[:i],
		Window: entity.NewWindow(image.Pt(c[0], c[1]), image.Pt(c[2], c[3])),
	}, nil
}

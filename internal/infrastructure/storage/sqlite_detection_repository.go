package storage

import (
	"context"
	"database/sql"
	"fmt"
	"image"
	"time"

	_ "modernc.org/sqlite"

	"tower-vision/internal/domain/entity"
	"tower-vision/internal/domain/port"
)

const detectionSchema = `
	CREATE TABLE IF NOT EXISTS detections (
		detection_id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		frame INTEGER NOT NULL,
		image_path TEXT,
		x1 INTEGER, y1 INTEGER, x2 INTEGER, y2 INTEGER,
		detected_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_detections_run ON detections (run_id, frame);
`

// SQLiteDetectionRepository хранилище обнаружений в файле SQLite
type SQLiteDetectionRepository struct {
	db *sql.DB
}

// NewSQLiteDetectionRepository открывает базу и создаёт таблицы. Путь ":memory:" открывает базу в памяти.
func NewSQLiteDetectionRepository(path string) (*SQLiteDetectionRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// у каждого соединения ":memory:" своя база
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(detectionSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteDetectionRepository{db: db}, nil
}

// Save сохраняет обнаружение
func (r *SQLiteDetectionRepository) Save(ctx context.Context, d entity.Detection) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO detections (run_id, frame, image_path, x1, y1, x2, y2, detected_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.RunID, d.Frame, d.ImagePath,
		d.Window.Pt1.X, d.Window.Pt1.Y, d.Window.Pt2.X, d.Window.Pt2.Y,
		d.DetectedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert detection: %w", err)
	}
	return nil
}

// ListByRun возвращает обнаружения прогона в порядке кадров
func (r *SQLiteDetectionRepository) ListByRun(ctx context.Context, runID string) ([]entity.Detection, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT run_id, frame, image_path, x1, y1, x2, y2, detected_at
		 FROM detections WHERE run_id = ? ORDER BY frame, detection_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query detections: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Detection, 0)
	for rows.Next() {
		var (
			d              entity.Detection
			x1, y1, x2, y2 int
			at             int64
		)
		if err := rows.Scan(&d.RunID, &d.Frame, &d.ImagePath, &x1, &y1, &x2, &y2, &at); err != nil {
			return nil, fmt.Errorf("scan detection: %w", err)
		}
		d.Window = entity.Window{Pt1: image.Pt(x1, y1), Pt2: image.Pt(x2, y2)}
		d.DetectedAt = time.Unix(0, at)
		out = append(out, d)
	}
	return out, rows.Err()
}

// Close закрывает базу
func (r *SQLiteDetectionRepository) Close() error {
	return r.db.Close()
}

var _ port.DetectionRepository = (*SQLiteDetectionRepository)(nil)

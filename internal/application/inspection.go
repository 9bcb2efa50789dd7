package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"

	"tower-vision/internal/domain/entity"
)

// ErrNoFirstFrame второй кадр пришёл раньше первого.
var ErrNoFirstFrame = errors.New("first frame is not found")

// InspectionService проверка пары фотографий, присланных пользователем.
type InspectionService struct {
	users    *UserService
	detector *TowerDetector
	firsts   map[int64]image.Image
	mu       sync.RWMutex
	runMu    sync.Mutex
	next     int
}

// InspectionOutput результат поиска опоры и размеченный первый кадр в PNG.
type InspectionOutput struct {
	Result    *entity.TowerResult
	Annotated []byte
}

// NewInspectionService создаёт сервис, который ведёт пользователя от первого кадра к результату.
func NewInspectionService(users *UserService, detector *TowerDetector) *InspectionService {
	return &InspectionService{
		users:    users,
		detector: detector,
		firsts:   make(map[int64]image.Image),
	}
}

// DetectorType имя алгоритма поиска линий.
func (s *InspectionService) DetectorType() string {
	if s.detector == nil {
		return ""
	}
	return s.detector.LineDetector().Type()
}

// AcceptFirstFrame запоминает первый кадр и ждёт второй.
func (s *InspectionService) AcceptFirstFrame(ctx context.Context, userID, chatID int64, photo []byte) (*entity.User, error) {
	img, err := decodePhoto(photo)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.firsts[userID] = img
	s.mu.Unlock()
	return s.users.SetState(ctx, userID, chatID, entity.StateAwaitingSecondFrame)
}

// AcceptSecondFrame запускает детектор на паре и возвращает пользователя в главное меню.
// Второй кадр другого размера приводится к размеру первого.
func (s *InspectionService) AcceptSecondFrame(ctx context.Context, userID, chatID int64, photo []byte) (*InspectionOutput, error) {
	if s.detector == nil {
		return nil, errors.New("detector is not configured")
	}
	s.mu.RLock()
	first, ok := s.firsts[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNoFirstFrame
	}
	second, err := decodePhoto(photo)
	if err != nil {
		return nil, err
	}
	if second.Bounds().Size() != first.Bounds().Size() {
		second = imaging.Resize(second, first.Bounds().Dx(), first.Bounds().Dy(), imaging.Linear)
	}

	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateProcessing); err != nil {
		return nil, err
	}
	res, err := s.run(ctx, first, second)
	s.mu.Lock()
	delete(s.firsts, userID)
	s.mu.Unlock()
	if _, stateErr := s.users.SetState(ctx, userID, chatID, entity.StateMainMenu); stateErr != nil && err == nil {
		err = stateErr
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, res.Annotated, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return &InspectionOutput{Result: res, Annotated: buf.Bytes()}, nil
}

// Cancel забывает первый кадр пользователя.
func (s *InspectionService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	s.mu.Lock()
	delete(s.firsts, userID)
	s.mu.Unlock()
	return s.users.Cancel(ctx, userID, chatID)
}

func (s *InspectionService) run(ctx context.Context, first, second image.Image) (*entity.TowerResult, error) {
	// детектор рассчитан на один поток
	s.runMu.Lock()
	defer s.runMu.Unlock()
	s.next++
	return s.detector.Run(ctx, entity.FramePair{Index: s.next, First: first, Second: second})
}

func decodePhoto(photo []byte) (image.Image, error) {
	if len(photo) == 0 {
		return nil, entity.ErrEmptyFrame
	}
	img, err := imaging.Decode(bytes.NewReader(photo), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}
	return img, nil
}

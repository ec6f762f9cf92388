//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gocv.io/x/gocv"

	"station-inspector/internal/domain/entity"
	"station-inspector/internal/domain/port"
)

// Camera открывает локальные камеры через OpenCV
type Camera struct{}

// NewCamera создаёт источник камер
func NewCamera() *Camera {
	return &Camera{}
}

// Open открывает устройство index; кадры приводятся к ширине width
func (c *Camera) Open(ctx context.Context, index int, width int) (port.FrameSource, error) {
	vc, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", index, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("camera %d is not available", index)
	}

	slog.Info("video stream started", "camera", index, "width", width)
	return &videoSource{
		index: index,
		width: width,
		vc:    vc,
		raw:   gocv.NewMat(),
	}, nil
}

type videoSource struct {
	index int
	width int
	vc    *gocv.VideoCapture
	raw   gocv.Mat
}

// Read читает кадр, масштабирует и копирует его в память Go
func (s *videoSource) Read(ctx context.Context) (entity.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ok := s.vc.Read(&s.raw); !ok || s.raw.Empty() {
		return nil, fmt.Errorf("camera %d: failed to read frame", s.index)
	}

	size := scaledSize(s.raw.Cols(), s.raw.Rows(), s.width)
	if size.X == s.raw.Cols() && size.Y == s.raw.Rows() {
		return matToFrame(s.raw)
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(s.raw, &resized, size, 0, 0, gocv.InterpolationArea)
	return matToFrame(resized)
}

func (s *videoSource) Close() error {
	s.raw.Close()
	if err := s.vc.Close(); err != nil {
		return fmt.Errorf("close camera %d: %w", s.index, err)
	}
	slog.Info("video stream stopped", "camera", s.index)
	return nil
}

// matToFrame копирует BGR-кадр из OpenCV
func matToFrame(mat gocv.Mat) (entity.Frame, error) {
	if mat.Type() != gocv.MatTypeCV8UC3 {
		return nil, errors.New("unsupported frame type, want 8UC3")
	}
	return entity.RasterFrameFromBytes(mat.Cols(), mat.Rows(), mat.ToBytes())
}

var _ port.Camera = (*Camera)(nil)

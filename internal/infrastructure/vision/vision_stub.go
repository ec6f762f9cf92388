//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"station-inspector/internal/domain/entity"
	"station-inspector/internal/domain/port"
)

var errNoGoCV = errors.New("gocv build tag is not enabled")

// Camera заглушка камеры (без OpenCV)
type Camera struct{}

// NewCamera создаёт камеру-заглушку
func NewCamera() *Camera {
	return &Camera{}
}

// Open возвращает ошибку, если сборка без тега gocv.
func (c *Camera) Open(ctx context.Context, index int, width int) (port.FrameSource, error) {
	_ = ctx
	_ = index
	_ = width
	return nil, errNoGoCV
}

// QRDecoder заглушка декодера (без OpenCV). Со сборкой gocv распознаёт только QR-коды.
type QRDecoder struct{}

// NewQRDecoder создаёт декодер-заглушку
func NewQRDecoder() *QRDecoder {
	return &QRDecoder{}
}

// Decode возвращает ошибку, если сборка без тега gocv.
func (d *QRDecoder) Decode(ctx context.Context, frame entity.Frame) ([]entity.Barcode, error) {
	_ = ctx
	_ = frame
	return nil, errNoGoCV
}

// Close ничего не делает
func (d *QRDecoder) Close() error {
	return nil
}

var (
	_ port.Camera         = (*Camera)(nil)
	_ port.BarcodeDecoder = (*QRDecoder)(nil)
)

//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"station-inspector/internal/domain/entity"
	"station-inspector/internal/domain/port"
)

// QRDecoder декодер QR-кодов на базе OpenCV QRCodeDetector.
// Линейные штрихкоды (EAN, Code128 и т.п.) он не распознаёт.
type QRDecoder struct {
	mu       sync.Mutex
	detector gocv.QRCodeDetector
}

// NewQRDecoder создаёт декодер
func NewQRDecoder() *QRDecoder {
	return &QRDecoder{detector: gocv.NewQRCodeDetector()}
}

// Decode ищет QR-код на кадре
func (d *QRDecoder) Decode(ctx context.Context, frame entity.Frame) ([]entity.Barcode, error) {
	_ = ctx
	mat, err := frameToMat(frame)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	points := gocv.NewMat()
	defer points.Close()
	straight := gocv.NewMat()
	defer straight.Close()

	d.mu.Lock()
	payload := d.detector.DetectAndDecode(mat, &points, &straight)
	d.mu.Unlock()

	if payload == "" || points.Empty() {
		return nil, nil
	}

	corners, err := points.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read qr corners: %w", err)
	}
	bounds, ok := boundsFromCorners(corners)
	if !ok {
		return nil, nil
	}

	return []entity.Barcode{{Payload: []byte(payload), Bounds: bounds}}, nil
}

// Close освобождает детектор
func (d *QRDecoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.detector.Close()
}

// frameToMat создаёт gocv.Mat из кадра
func frameToMat(frame entity.Frame) (gocv.Mat, error) {
	var pix []byte
	if rf, ok := frame.(*entity.RasterFrame); ok {
		pix = rf.Pix
	} else {
		pix = make([]byte, 0, frame.Width()*frame.Height()*3)
		for y := 0; y < frame.Height(); y++ {
			for x := 0; x < frame.Width(); x++ {
				b, g, r := frame.BGRAt(x, y)
				pix = append(pix, b, g, r)
			}
		}
	}

	mat, err := gocv.NewMatFromBytes(frame.Height(), frame.Width(), gocv.MatTypeCV8UC3, pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to build mat from frame: %w", err)
	}
	return mat, nil
}

var _ port.BarcodeDecoder = (*QRDecoder)(nil)

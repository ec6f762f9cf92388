package entity

import "fmt"

// Frame кадр, доступный для попиксельного чтения в порядке BGR
type Frame interface {
	Width() int
	Height() int
	// BGRAt возвращает каналы пикселя (x: столбец, y: строка)
	BGRAt(x, y int) (b, g, r uint8)
}

// RasterFrame кадр в памяти: упакованные пиксели BGR, строка за строкой
type RasterFrame struct {
	W   int
	H   int
	Pix []byte
}

// NewRasterFrame создаёт чёрный кадр заданного размера
func NewRasterFrame(width, height int) *RasterFrame {
	return &RasterFrame{
		W:   width,
		H:   height,
		Pix: make([]byte, width*height*3),
	}
}

// RasterFrameFromBytes оборачивает готовый буфер BGR без копирования
func RasterFrameFromBytes(width, height int, pix []byte) (*RasterFrame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if len(pix) != width*height*3 {
		return nil, fmt.Errorf("frame buffer has %d bytes, want %d", len(pix), width*height*3)
	}
	return &RasterFrame{W: width, H: height, Pix: pix}, nil
}

func (f *RasterFrame) Width() int  { return f.W }
func (f *RasterFrame) Height() int { return f.H }

func (f *RasterFrame) BGRAt(x, y int) (b, g, r uint8) {
	i := (y*f.W + x) * 3
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// SetBGR записывает пиксель
func (f *RasterFrame) SetBGR(x, y int, b, g, r uint8) {
	i := (y*f.W + x) * 3
	f.Pix[i], f.Pix[i+1], f.Pix[i+2] = b, g, r
}

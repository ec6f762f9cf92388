package vision

import (
	"image"
	"math"
)

// boundsFromCorners строит ограничивающий прямоугольник по углам кода (x0,y0,x1,y1,...)
func boundsFromCorners(pts []float32) (image.Rectangle, bool) {
	if len(pts) < 4 || len(pts)%2 != 0 {
		return image.Rectangle{}, false
	}

	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for i := 0; i < len(pts); i += 2 {
		x, y := float64(pts[i]), float64(pts[i+1])
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}

	return image.Rect(
		int(math.Floor(minX)),
		int(math.Floor(minY)),
		int(math.Ceil(maxX)),
		int(math.Ceil(maxY)),
	), true
}

// scaledSize размер кадра при масштабировании до ширины width с сохранением пропорций
func scaledSize(cols, rows, width int) image.Point {
	if width <= 0 || cols <= 0 || cols == width {
		return image.Pt(cols, rows)
	}
	h := int(float64(rows) * float64(width) / float64(cols))
	if h < 1 {
		h = 1
	}
	return image.Pt(width, h)
}

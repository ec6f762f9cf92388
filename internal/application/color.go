package app

import (
	"github.com/samber/lo"

	"station-inspector/internal/domain/entity"
)

// ClassifyPixel выбирает канал с наибольшим значением.
// При равенстве приоритет blue -> green -> red.
func ClassifyPixel(b, g, r uint8) entity.Color {
	switch max(b, g, r) {
	case b:
		return entity.ColorBlue
	case g:
		return entity.ColorGreen
	default:
		return entity.ColorRed
	}
}

// MajorityColor возвращает самый частый цвет. При равенстве счётчиков
// побеждает цвет, встретившийся в выборке раньше.
func MajorityColor(colors []entity.Color) (entity.Color, bool) {
	if len(colors) == 0 {
		return "", false
	}

	counts := lo.CountValues(colors)
	winner := lo.MaxBy(lo.Uniq(colors), func(a, b entity.Color) bool {
		return counts[a] > counts[b]
	})
	return winner, true
}

// ColorClassifier оценивает цвет детали по полосе пикселей слева от кода
type ColorClassifier struct {
	// Полоса: столбцы [x-StripFrom, x-StripTo) в строке y
	StripFrom int
	StripTo   int
}

// DefaultColorClassifier полоса 25..10 пикселей левее кода
func DefaultColorClassifier() ColorClassifier {
	return ColorClassifier{StripFrom: 25, StripTo: 10}
}

// Sample возвращает цвета пикселей полосы. Координаты за краем кадра
// прижимаются к ближайшему пикселю.
func (c ColorClassifier) Sample(frame entity.Frame, x, y int) []entity.Color {
	if frame.Width() == 0 || frame.Height() == 0 {
		return nil
	}

	row := clamp(y, 0, frame.Height()-1)
	colors := make([]entity.Color, 0, max(c.StripFrom-c.StripTo, 0))
	for i := x - c.StripFrom; i < x-c.StripTo; i++ {
		b, g, r := frame.BGRAt(clamp(i, 0, frame.Width()-1), row)
		colors = append(colors, ClassifyPixel(b, g, r))
	}
	return colors
}

// Classify цвет области по большинству голосов в полосе
func (c ColorClassifier) Classify(frame entity.Frame, x, y int) (entity.Color, bool) {
	return MajorityColor(c.Sample(frame, x, y))
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

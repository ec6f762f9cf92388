package entity

import "image"

// ShapeRectangle единственная форма, которую сообщает станция
const ShapeRectangle = "rectangle"

// Barcode область со штрихкодом, найденная декодером
type Barcode struct {
	Payload []byte          // сырые данные кода
	Bounds  image.Rectangle // ограничивающий прямоугольник в координатах кадра
}

// Left возвращает X левой границы области
func (b Barcode) Left() int {
	return b.Bounds.Min.X
}

// Top возвращает Y верхней границы области
func (b Barcode) Top() int {
	return b.Bounds.Min.Y
}

// DetectionResult результат успешного анализа одного кадра
type DetectionResult struct {
	Payload string // расшифрованный текст кода
	Color   Color  // цвет детали рядом с кодом
}

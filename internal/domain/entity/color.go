package entity

// Color цвет, который распознаёт классификатор или включает лампа
type Color string

const (
	ColorRed    Color = "red"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorYellow Color = "yellow" // только для индикатора
)

// String возвращает имя цвета
func (c Color) String() string {
	return string(c)
}

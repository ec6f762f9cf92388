package entity

// Report отчёт о детали для MES
type Report struct {
	StationIndex Signal
	StationLabel string
	QRCode       string
	Color        Color
	Shape        string
}

// NewReport собирает отчёт по результату детекции на станции
func NewReport(sig Signal, station string, result DetectionResult) Report {
	return Report{
		StationIndex: sig,
		StationLabel: station,
		QRCode:       result.Payload,
		Color:        result.Color,
		Shape:        ShapeRectangle,
	}
}

// IndicatorCommand команда лампе на соседнем узле
type IndicatorCommand struct {
	Color Color
	Index *int // nil: без привязки к конкретной станции
}

// Broadcast команда без индекса станции
func Broadcast(c Color) IndicatorCommand {
	return IndicatorCommand{Color: c}
}

// ForStation команда для лампы конкретной станции
func ForStation(c Color, sig Signal) IndicatorCommand {
	idx := int(sig)
	return IndicatorCommand{Color: c, Index: &idx}
}

package wire

import (
	"station-inspector/internal/domain/entity"
)

// SensorKey ключ сообщения датчика: {"sensor": <int>}
const SensorKey = "sensor"

// IndicatorMessage команда лампе: {"color": str, "index": int|nil}
type IndicatorMessage struct {
	Color string `msgpack:"color"`
	Index *int   `msgpack:"index"`
}

// ReportMessage отчёт в MES: {"header": int, "data": {...}}
type ReportMessage struct {
	Header int        `msgpack:"header"`
	Data   ReportData `msgpack:"data"`
}

// ReportData тело отчёта
type ReportData struct {
	QRCode  string `msgpack:"qrcode"`
	Color   string `msgpack:"color"`
	Shape   string `msgpack:"shape"`
	Station string `msgpack:"station"`
}

// NewIndicatorMessage переводит команду в формат протокола
func NewIndicatorMessage(cmd entity.IndicatorCommand) IndicatorMessage {
	return IndicatorMessage{Color: cmd.Color.String(), Index: cmd.Index}
}

// NewReportMessage переводит отчёт в формат протокола
func NewReportMessage(r entity.Report) ReportMessage {
	return ReportMessage{
		Header: int(r.StationIndex),
		Data: ReportData{
			QRCode:  r.QRCode,
			Color:   r.Color.String(),
			Shape:   r.Shape,
			Station: r.StationLabel,
		},
	}
}

// SensorSignal достаёт сигнал из произвольного сообщения.
// ok == false для любой нераспознанной формы.
func SensorSignal(msg interface{}) (entity.Signal, bool) {
	var value interface{}
	switch m := msg.(type) {
	case map[string]interface{}:
		v, found := m[SensorKey]
		if !found {
			return 0, false
		}
		value = v
	case map[interface{}]interface{}:
		v, found := m[SensorKey]
		if !found {
			return 0, false
		}
		value = v
	default:
		return 0, false
	}

	n, ok := asInt(value)
	if !ok {
		return 0, false
	}
	return entity.Signal(n), true
}

func asInt(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > 1<<62 {
			return 0, false
		}
		return int64(n), true
	case uint:
		return int64(n), true
	default:
		return 0, false
	}
}

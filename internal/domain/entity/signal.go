package entity

import (
	"fmt"
	"strconv"
)

// Signal номер станции/камеры, пришедший от датчика
type Signal int

// String возвращает десятичное представление сигнала
func (s Signal) String() string {
	return strconv.Itoa(int(s))
}

// StationMap неизменяемое соответствие сигнала и метки станции
type StationMap struct {
	labels []string
}

// DefaultStationLabels метки станций линии по умолчанию (индекс = сигнал)
var DefaultStationLabels = []string{"X", "A1", "A2", "A3", "B1", "B2", "B3"}

// NewStationMap создаёт карту станций. Индекс метки совпадает со значением сигнала.
func NewStationMap(labels []string) (StationMap, error) {
	if len(labels) == 0 {
		return StationMap{}, fmt.Errorf("station map is empty")
	}
	for i, l := range labels {
		if l == "" {
			return StationMap{}, fmt.Errorf("station %d has empty label", i)
		}
	}

	cp := make([]string, len(labels))
	copy(cp, labels)
	return StationMap{labels: cp}, nil
}

// Contains сообщает, входит ли сигнал в известный диапазон станций
func (m StationMap) Contains(s Signal) bool {
	return s >= 0 && int(s) < len(m.labels)
}

// Label возвращает метку станции для сигнала
func (m StationMap) Label(s Signal) (string, bool) {
	if !m.Contains(s) {
		return "", false
	}
	return m.labels[s], true
}

// Len количество станций
func (m StationMap) Len() int {
	return len(m.labels)
}

// Labels возвращает копию меток
func (m StationMap) Labels() []string {
	cp := make([]string, len(m.labels))
	copy(cp, m.labels)
	return cp
}

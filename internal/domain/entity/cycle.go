package entity

import "time"

// CycleState состояние обработки сигнала
type CycleState string

const (
	StateIdle       CycleState = "idle"       // Ожидание сигнала
	StateAttempting CycleState = "attempting" // Идут попытки детекции
	StateSuccess    CycleState = "success"    // Код найден, отчёт отправлен
	StateExhausted  CycleState = "exhausted"  // Все попытки исчерпаны
	StateRejected   CycleState = "rejected"   // Сигнал вне диапазона станций
)

// CycleOutcome итог обработки одного сигнала
type CycleOutcome struct {
	TraceID    string
	Signal     Signal
	Station    string
	State      CycleState
	Attempts   int
	Result     *DetectionResult
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration длительность цикла
func (o CycleOutcome) Duration() time.Duration {
	return o.FinishedAt.Sub(o.StartedAt)
}

// StationStatus снимок состояния станции для оператора и health-проверок
type StationStatus struct {
	State       CycleState
	Current     *Signal
	LastOutcome *CycleOutcome
	Processed   uint64
	Succeeded   uint64
	Exhausted   uint64
	Rejected    uint64
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"station-inspector/internal/domain/entity"
	"station-inspector/internal/domain/port"
)

// CycleConfig бюджеты попыток. Бюджет кадров и число циклов
// служат единственным таймаутом обработки сигнала.
type CycleConfig struct {
	Attempts        int           // циклов на сигнал
	FrameBudget     int           // кадров в одном цикле
	SettleTime      time.Duration // прогрев камеры после открытия
	EscalationDelay time.Duration // пауза после жёлтой лампы
	WorkingWidth    int           // ширина кадра для анализа
}

// DefaultCycleConfig 3 цикла по 50 кадров, прогрев 2с, пауза 2с, ширина 800
func DefaultCycleConfig() CycleConfig {
	return CycleConfig{
		Attempts:        3,
		FrameBudget:     50,
		SettleTime:      2 * time.Second,
		EscalationDelay: 2 * time.Second,
		WorkingWidth:    800,
	}
}

// InspectionService единственный потребитель очереди сигналов.
// Сигналы обрабатываются строго по одному.
type InspectionService struct {
	stations  entity.StationMap
	camera    port.Camera
	pipeline  *DetectionPipeline
	indicator port.Indicator
	reporter  port.Reporter
	notifier  port.OperatorNotifier
	cfg       CycleConfig

	mu     sync.RWMutex
	status entity.StationStatus
}

// NewInspectionService создаёт сервис, который управляет проверкой деталей на станциях.
func NewInspectionService(
	stations entity.StationMap,
	camera port.Camera,
	pipeline *DetectionPipeline,
	indicator port.Indicator,
	reporter port.Reporter,
	cfg CycleConfig,
) *InspectionService {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	return &InspectionService{
		stations:  stations,
		camera:    camera,
		pipeline:  pipeline,
		indicator: indicator,
		reporter:  reporter,
		cfg:       cfg,
		status:    entity.StationStatus{State: entity.StateIdle},
	}
}

// SetNotifier подключает оповещение операторов (nil выключает)
func (s *InspectionService) SetNotifier(n port.OperatorNotifier) {
	s.notifier = n
}

// Serve устанавливает исходящие соединения по очереди и только потом
// начинает разбирать очередь сигналов.
func (s *InspectionService) Serve(ctx context.Context, queue port.SignalQueue, connectors ...port.Connector) error {
	for _, c := range connectors {
		if err := c.Connect(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("connect %s: %w", c.Name(), err)
		}
	}

	slog.Info("station is ready to receive signals",
		"stations", s.stations.Len(),
		"queue_capacity", queue.Cap(),
	)
	return s.Run(ctx, queue)
}

// Run разбирает очередь до отмены контекста или закрытия очереди
func (s *InspectionService) Run(ctx context.Context, queue port.SignalQueue) error {
	for {
		sig, err := queue.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, port.ErrQueueClosed) {
				slog.Info("inspection loop stopped")
				return nil
			}
			return fmt.Errorf("pop signal: %w", err)
		}

		s.Process(ctx, sig)
	}
}

// Process проводит один сигнал через автомат состояний
// Idle -> Attempting(0..n-1) -> Success | Exhausted.
func (s *InspectionService) Process(ctx context.Context, sig entity.Signal) entity.CycleOutcome {
	outcome := entity.CycleOutcome{
		TraceID:   uuid.NewString(),
		Signal:    sig,
		StartedAt: time.Now(),
	}
	log := slog.With("trace_id", outcome.TraceID, "signal", int(sig))

	station, ok := s.stations.Label(sig)
	if !ok {
		log.Error("incorrect signal, discarding", "known_stations", s.stations.Len())
		outcome.State = entity.StateRejected
		return s.finish(outcome)
	}
	outcome.Station = station
	log = log.With("station", station)
	s.begin(sig)

	for attempt := 0; attempt < s.cfg.Attempts; attempt++ {
		outcome.Attempts = attempt + 1

		result, err := s.runAttemptCycle(ctx, sig, attempt, log)
		if err != nil {
			log.Warn("inspection interrupted", "attempt", attempt, "error", err)
			outcome.State = entity.StateIdle
			return s.finish(outcome)
		}

		if result != nil {
			report := entity.NewReport(sig, station, *result)
			log.Info("code found",
				"color", result.Color,
				"shape", report.Shape,
				"qrcode", result.Payload,
				"attempt", attempt,
			)
			if err := s.reporter.SendReport(ctx, report); err != nil {
				log.Error("failed to send report to mes", "error", err)
			}
			s.setLamp(ctx, log, entity.Broadcast(entity.ColorGreen))

			outcome.State = entity.StateSuccess
			outcome.Result = result
			return s.finish(outcome)
		}

		if attempt < s.cfg.Attempts-1 {
			s.setLamp(ctx, log, entity.Broadcast(entity.ColorYellow))
			if err := sleepCtx(ctx, s.cfg.EscalationDelay); err != nil {
				log.Warn("inspection interrupted", "attempt", attempt, "error", err)
				outcome.State = entity.StateIdle
				return s.finish(outcome)
			}
		}
	}

	// MES не получает отчёт об исчерпанных попытках, только лампа.
	log.Info("no code detected, switching red lamp", "attempts", outcome.Attempts)
	s.setLamp(ctx, log, entity.ForStation(entity.ColorRed, sig))
	outcome.State = entity.StateExhausted
	outcome = s.finish(outcome)

	if s.notifier != nil {
		if err := s.notifier.NotifyExhausted(ctx, outcome); err != nil {
			log.Error("failed to notify operators", "error", err)
		}
	}
	return outcome
}

// Status снимок состояния станции
func (s *InspectionService) Status() entity.StationStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.status
	if st.Current != nil {
		cur := *st.Current
		st.Current = &cur
	}
	if st.LastOutcome != nil {
		last := *st.LastOutcome
		st.LastOutcome = &last
	}
	return st
}

func (s *InspectionService) setLamp(ctx context.Context, log *slog.Logger, cmd entity.IndicatorCommand) {
	if err := s.indicator.SetLamp(ctx, cmd); err != nil {
		log.Error("failed to send lamp command", "color", cmd.Color, "error", err)
	}
}

func (s *InspectionService) begin(sig entity.Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.State = entity.StateAttempting
	s.status.Current = &sig
}

func (s *InspectionService) finish(outcome entity.CycleOutcome) entity.CycleOutcome {
	outcome.FinishedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.State = entity.StateIdle
	s.status.Current = nil
	s.status.LastOutcome = &outcome
	s.status.Processed++
	switch outcome.State {
	case entity.StateSuccess:
		s.status.Succeeded++
	case entity.StateExhausted:
		s.status.Exhausted++
	case entity.StateRejected:
		s.status.Rejected++
	}
	return outcome
}

var _ port.StatusProvider = (*InspectionService)(nil)

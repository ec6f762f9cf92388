package container

import (
	"errors"
	"fmt"

	"station-inspector/config"
	apihttp "station-inspector/internal/api/http"
	"station-inspector/internal/api/intake"
	app "station-inspector/internal/application"
	"station-inspector/internal/domain/entity"
	"station-inspector/internal/infrastructure/peer"
	"station-inspector/internal/infrastructure/storage"
	"station-inspector/internal/infrastructure/vision"
)

type Container struct {
	Queue             *storage.SignalQueue
	Operators         *storage.MemoryOperatorRepository
	MES               *peer.ReportClient
	Indicator         *peer.IndicatorClient
	Decoder           *vision.QRDecoder
	InspectionService *app.InspectionService
	Intake            *intake.Server
	Health            *apihttp.Server // nil, если health.addr пуст
}

func New(cfg *config.Config) (*Container, error) {
	stations, err := entity.NewStationMap(cfg.Station.Labels)
	if err != nil {
		return nil, fmt.Errorf("station map: %w", err)
	}

	policy, err := storage.ParseOverflowPolicy(cfg.Queue.Policy)
	if err != nil {
		return nil, err
	}
	queue, err := storage.NewSignalQueue(cfg.Queue.Capacity, policy)
	if err != nil {
		return nil, err
	}

	secret := []byte(cfg.Auth.Secret)
	retry := peer.RetryPolicy{
		MaxAttempts: cfg.Station.ConnectMaxAttempts,
		Backoff:     peer.FixedBackoff(cfg.Station.ConnectBackoff),
	}
	mes := peer.NewReportClient(cfg.MES.Addr, secret, retry)
	indicator := peer.NewIndicatorClient(cfg.Indicator.Addr, secret, retry)

	decoder := vision.NewQRDecoder()
	pipeline := app.NewDetectionPipeline(decoder, app.ColorClassifier{
		StripFrom: cfg.Station.StripFrom,
		StripTo:   cfg.Station.StripTo,
	})

	inspectionService := app.NewInspectionService(stations, vision.NewCamera(), pipeline, indicator, mes, app.CycleConfig{
		Attempts:        cfg.Station.Attempts,
		FrameBudget:     cfg.Station.FrameBudget,
		SettleTime:      cfg.Station.SettleTime,
		EscalationDelay: cfg.Station.EscalationDelay,
		WorkingWidth:    cfg.Station.WorkingWidth,
	})

	intakeServer := intake.NewServer(cfg.Intake.ListenAddr, secret, queue)

	c := &Container{
		Queue:             queue,
		Operators:         storage.NewMemoryOperatorRepository(cfg.Telegram.ChatIDs...),
		MES:               mes,
		Indicator:         indicator,
		Decoder:           decoder,
		InspectionService: inspectionService,
		Intake:            intakeServer,
	}
	if cfg.Health.Addr != "" {
		c.Health = apihttp.New(cfg.Health.Addr, inspectionService, queue, intakeServer, mes, indicator)
	}
	return c, nil
}

// Close освобождает очередь, соединения и декодер
func (c *Container) Close() error {
	c.Queue.Close()
	return errors.Join(
		c.MES.Close(),
		c.Indicator.Close(),
		c.Decoder.Close(),
	)
}

package peer

import (
	"context"
	"log/slog"

	"station-inspector/internal/domain/entity"
	"station-inspector/internal/domain/port"
	"station-inspector/internal/infrastructure/wire"
)

// ReportClient клиент MES
type ReportClient struct {
	*Client
}

// NewReportClient создаёт клиента MES
func NewReportClient(addr string, secret []byte, policy RetryPolicy, opts ...Option) *ReportClient {
	return &ReportClient{Client: NewClient("mes", addr, secret, policy, opts...)}
}

// SendReport отправляет отчёт о детали
func (c *ReportClient) SendReport(ctx context.Context, report entity.Report) error {
	if err := c.Send(wire.NewReportMessage(report)); err != nil {
		return err
	}

	slog.Info("sent report to mes",
		"station", report.StationLabel,
		"header", int(report.StationIndex),
		"qrcode", report.QRCode,
	)
	return nil
}

var (
	_ port.Reporter  = (*ReportClient)(nil)
	_ port.Connector = (*ReportClient)(nil)
)

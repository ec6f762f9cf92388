package peer

import (
	"context"
	"log/slog"

	"station-inspector/internal/domain/entity"
	"station-inspector/internal/domain/port"
	"station-inspector/internal/infrastructure/wire"
)

// IndicatorClient клиент узла, управляющего сигнальными лампами
type IndicatorClient struct {
	*Client
}

// NewIndicatorClient создаёт клиента ламп
func NewIndicatorClient(addr string, secret []byte, policy RetryPolicy, opts ...Option) *IndicatorClient {
	return &IndicatorClient{Client: NewClient("indicator", addr, secret, policy, opts...)}
}

// SetLamp отправляет команду лампе
func (c *IndicatorClient) SetLamp(ctx context.Context, cmd entity.IndicatorCommand) error {
	if err := c.Send(wire.NewIndicatorMessage(cmd)); err != nil {
		return err
	}

	args := []any{"color", cmd.Color}
	if cmd.Index != nil {
		args = append(args, "index", *cmd.Index)
	}
	slog.Info("sent lamp command", args...)
	return nil
}

var (
	_ port.Indicator = (*IndicatorClient)(nil)
	_ port.Connector = (*IndicatorClient)(nil)
)

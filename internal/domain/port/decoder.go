package port

import (
	"context"

	"station-inspector/internal/domain/entity"
)

// BarcodeDecoder интерфейс декодера штрихкодов
type BarcodeDecoder interface {
	// Decode ищет коды на кадре; пустой список, если кода нет
	Decode(ctx context.Context, frame entity.Frame) ([]entity.Barcode, error)
}

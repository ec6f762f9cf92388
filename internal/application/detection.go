package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"station-inspector/internal/domain/entity"
	"station-inspector/internal/domain/port"
)

var errEmptySample = errors.New("color sample is empty")

// DetectionPipeline находит код на кадре и оценивает цвет детали
type DetectionPipeline struct {
	decoder    port.BarcodeDecoder
	classifier ColorClassifier
}

// NewDetectionPipeline создаёт конвейер детекции
func NewDetectionPipeline(decoder port.BarcodeDecoder, classifier ColorClassifier) *DetectionPipeline {
	return &DetectionPipeline{
		decoder:    decoder,
		classifier: classifier,
	}
}

// Detect анализирует кадр. (nil, nil) означает, что кода нет; это не ошибка.
func (p *DetectionPipeline) Detect(ctx context.Context, frame entity.Frame) (*entity.DetectionResult, error) {
	codes, err := p.decoder.Decode(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("decode barcode: %w", err)
	}
	if len(codes) == 0 {
		return nil, nil
	}

	code := codes[0]
	color, ok := p.classifier.Classify(frame, code.Left(), code.Top())
	if !ok {
		return nil, errEmptySample
	}

	payload := string(code.Payload)
	if !utf8.ValidString(payload) {
		payload = strings.ToValidUTF8(payload, "�")
	}

	return &entity.DetectionResult{Payload: payload, Color: color}, nil
}

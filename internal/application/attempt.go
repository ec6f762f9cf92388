package app

import (
	"context"
	"log/slog"
	"time"

	"station-inspector/internal/domain/entity"
	"station-inspector/internal/domain/port"
)

var passNames = []string{"first", "second", "third"}

func passName(attempt int) string {
	if attempt >= 0 && attempt < len(passNames) {
		return passNames[attempt]
	}
	return "next"
}

// runAttemptCycle один цикл камеры: открыть, прогреть, прочитать до
// FrameBudget кадров. (nil, nil) означает, что код так и не найден.
// Ошибка возвращается только при отмене контекста.
func (s *InspectionService) runAttemptCycle(ctx context.Context, sig entity.Signal, attempt int, log *slog.Logger) (*entity.DetectionResult, error) {
	log = log.With("attempt", attempt)

	src, err := s.camera.Open(ctx, int(sig), s.cfg.WorkingWidth)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Error("failed to open camera", "error", err)
		return nil, nil
	}
	defer closeOrLog(log, src)

	if err := sleepCtx(ctx, s.cfg.SettleTime); err != nil {
		return nil, err
	}
	log.Info("starting video stream", "pass", passName(attempt))

	for i := 0; i < s.cfg.FrameBudget; i++ {
		if i == 0 || i == s.cfg.FrameBudget-1 {
			log.Info("camera is detecting", "frame", i)
		}

		frame, err := src.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Error("failed to read frame", "frame", i, "error", err)
			return nil, nil
		}

		result, err := s.pipeline.Detect(ctx, frame)
		if err != nil {
			log.Error("detection failed", "frame", i, "error", err)
			continue
		}
		if result != nil {
			return result, nil
		}
	}

	log.Info("camera exit without code", "pass", passName(attempt), "frames", s.cfg.FrameBudget)
	return nil, nil
}

func closeOrLog(log *slog.Logger, src port.FrameSource) {
	if err := src.Close(); err != nil {
		log.Error("error closing frame source", "error", err)
	}
}

// sleepCtx пауза, прерываемая отменой контекста
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

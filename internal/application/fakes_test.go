package app

import (
	"context"
	"errors"
	"image"
	"sync"

	"station-inspector/internal/domain/entity"
	"station-inspector/internal/domain/port"
)

const (
	testWidth  = 64
	testHeight = 8
)

// codedFrame кадр с пометкой, есть ли на нём код
type codedFrame struct {
	*entity.RasterFrame
	code string
}

func paintedFrame(b, g, r uint8, code string) *codedFrame {
	f := entity.NewRasterFrame(testWidth, testHeight)
	for y := 0; y < testHeight; y++ {
		for x := 0; x < testWidth; x++ {
			f.SetBGR(x, y, b, g, r)
		}
	}
	return &codedFrame{RasterFrame: f, code: code}
}

func blankFrames(n int) []entity.Frame {
	frames := make([]entity.Frame, n)
	for i := range frames {
		frames[i] = paintedFrame(0, 0, 200, "")
	}
	return frames
}

// codeDecoder находит код на помеченных кадрах в точке (40, 4)
type codeDecoder struct{}

func (codeDecoder) Decode(ctx context.Context, frame entity.Frame) ([]entity.Barcode, error) {
	f, ok := frame.(*codedFrame)
	if !ok || f.code == "" {
		return nil, nil
	}
	return []entity.Barcode{{Payload: []byte(f.code), Bounds: image.Rect(40, 4, 56, 8)}}, nil
}

// scriptedCamera каждый Open отдаёт следующий набор кадров
type scriptedCamera struct {
	mu     sync.Mutex
	cycles [][]entity.Frame
	opens  []int
	closes int
	reads  int
	opened chan int
}

func newScriptedCamera(cycles ...[]entity.Frame) *scriptedCamera {
	return &scriptedCamera{cycles: cycles, opened: make(chan int, 16)}
}

func (c *scriptedCamera) Open(ctx context.Context, index int, width int) (port.FrameSource, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.opens = append(c.opens, index)
	select {
	case c.opened <- index:
	default:
	}

	var frames []entity.Frame
	if len(c.cycles) > 0 {
		frames = c.cycles[0]
		c.cycles = c.cycles[1:]
	}
	return &scriptedSource{cam: c, frames: frames}, nil
}

func (c *scriptedCamera) openCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.opens)
}

type scriptedSource struct {
	cam    *scriptedCamera
	frames []entity.Frame
}

func (s *scriptedSource) Read(ctx context.Context) (entity.Frame, error) {
	s.cam.mu.Lock()
	defer s.cam.mu.Unlock()

	s.cam.reads++
	if len(s.frames) == 0 {
		return paintedFrame(0, 0, 200, ""), nil
	}
	f := s.frames[0]
	s.frames = s.frames[1:]
	return f, nil
}

func (s *scriptedSource) Close() error {
	s.cam.mu.Lock()
	defer s.cam.mu.Unlock()
	s.cam.closes++
	return nil
}

type recordingIndicator struct {
	mu       sync.Mutex
	commands []entity.IndicatorCommand
	err      error
}

func (r *recordingIndicator) SetLamp(ctx context.Context, cmd entity.IndicatorCommand) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
	return r.err
}

func (r *recordingIndicator) colors() []entity.Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Color, len(r.commands))
	for i, c := range r.commands {
		out[i] = c.Color
	}
	return out
}

type recordingReporter struct {
	mu      sync.Mutex
	reports []entity.Report
	err     error
}

func (r *recordingReporter) SendReport(ctx context.Context, report entity.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	return r.err
}

type recordingNotifier struct {
	outcomes []entity.CycleOutcome
}

func (r *recordingNotifier) NotifyExhausted(ctx context.Context, outcome entity.CycleOutcome) error {
	r.outcomes = append(r.outcomes, outcome)
	return nil
}

// gateConnector блокирует Connect до release
type gateConnector struct {
	name    string
	release chan struct{}
	err     error
}

func (g *gateConnector) Name() string { return g.name }

func (g *gateConnector) Connect(ctx context.Context) error {
	select {
	case <-g.release:
		return g.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// sliceQueue простая очередь на канале для тестов цикла
type sliceQueue struct {
	ch chan entity.Signal
}

func newSliceQueue(signals ...entity.Signal) *sliceQueue {
	q := &sliceQueue{ch: make(chan entity.Signal, 16)}
	for _, s := range signals {
		q.ch <- s
	}
	return q
}

func (q *sliceQueue) Push(ctx context.Context, s entity.Signal) error {
	q.ch <- s
	return nil
}

func (q *sliceQueue) Pop(ctx context.Context) (entity.Signal, error) {
	select {
	case s, ok := <-q.ch:
		if !ok {
			return 0, port.ErrQueueClosed
		}
		return s, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (q *sliceQueue) Len() int { return len(q.ch) }
func (q *sliceQueue) Cap() int { return cap(q.ch) }

var errBoom = errors.New("boom")

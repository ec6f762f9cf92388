package intake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"station-inspector/internal/domain/port"
	"station-inspector/internal/infrastructure/wire"
)

// Server принимает сигналы датчика и кладёт их в очередь.
// Значение сигнала не проверяется, это делает цикл обработки.
type Server struct {
	addr   string
	secret []byte
	queue  port.SignalQueue

	wg       sync.WaitGroup
	active   atomic.Int64
	received atomic.Uint64
}

// NewServer создаёт сервер приёма сигналов
func NewServer(addr string, secret []byte, queue port.SignalQueue) *Server {
	return &Server{
		addr:   addr,
		secret: secret,
		queue:  queue,
	}
}

// ListenAndServe слушает addr до отмены ctx
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve принимает соединения на ln. Каждое соединение обслуживается
// в своей горутине. После отмены ctx ждёт завершения всех обработчиков.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			slog.Error("error closing listener", "error", err)
		}
	})
	defer stop()

	slog.Info("listening for sensor signals", "addr", ln.Addr().String())

	var delay time.Duration
	for {
		nc, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				slog.Info("intake server stopped", "received", s.received.Load())
				return nil
			}
			delay = nextAcceptDelay(delay)
			slog.Error("accept error", "error", err, "retry_in", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
			continue
		}
		delay = 0

		s.wg.Add(1)
		go s.handle(ctx, nc)
	}
}

// Received число принятых сигналов
func (s *Server) Received() uint64 { return s.received.Load() }

// Active число открытых соединений
func (s *Server) Active() int64 { return s.active.Load() }

func (s *Server) handle(ctx context.Context, nc net.Conn) {
	defer s.wg.Done()
	defer closeOrLog(nc)

	log := slog.With("remote_addr", nc.RemoteAddr().String())
	defer func() {
		if r := recover(); r != nil {
			log.Error("panic in connection handler", "panic", r)
		}
	}()

	stop := context.AfterFunc(ctx, func() { nc.Close() })
	defer stop()

	conn, err := wire.Accept(nc, s.secret)
	if err != nil {
		log.Warn("sensor authentication failed", "error", err)
		return
	}

	s.active.Add(1)
	defer s.active.Add(-1)
	log.Info("sensor connected")

	for {
		var msg interface{}
		if err := conn.Recv(&msg); err != nil {
			switch {
			case errors.Is(err, io.EOF):
				log.Info("sensor disconnected")
				return
			case wire.IsDecodeError(err):
				log.Warn("skipping undecodable message", "error", err)
				continue
			case ctx.Err() != nil:
				return
			default:
				log.Error("connection error", "error", err)
				return
			}
		}

		sig, ok := wire.SensorSignal(msg)
		if !ok {
			log.Debug("ignoring message without sensor value", "message", msg)
			continue
		}

		s.received.Add(1)
		log.Info("signal received", "signal", int(sig), "queue_len", s.queue.Len())

		if err := s.queue.Push(ctx, sig); err != nil {
			if errors.Is(err, port.ErrQueueFull) {
				continue
			}
			if !errors.Is(err, port.ErrQueueClosed) && ctx.Err() == nil {
				log.Error("failed to enqueue signal", "signal", int(sig), "error", err)
			}
			return
		}
	}
}

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// nextAcceptDelay удваивает паузу между неудачными Accept, не больше maxAcceptDelay
func nextAcceptDelay(prev time.Duration) time.Duration {
	if prev == 0 {
		return minAcceptDelay
	}
	return min(prev*2, maxAcceptDelay)
}

func closeOrLog(conn net.Conn) {
	if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		slog.Error("error closing connection", "error", err, "remote_addr", conn.RemoteAddr())
	}
}

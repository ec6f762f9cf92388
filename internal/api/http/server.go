package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"station-inspector/internal/domain/port"
	"station-inspector/internal/infrastructure/peer"
	"station-inspector/internal/infrastructure/storage"
)

// Queue очередь сигналов, как её видит страница состояния
type Queue interface {
	Len() int
	Cap() int
	Policy() storage.OverflowPolicy
	Dropped() uint64
}

// Peer исходящее соединение с соседним узлом
type Peer interface {
	Stats() peer.Stats
}

// Intake счётчики сервера приёма сигналов
type Intake interface {
	Received() uint64
	Active() int64
}

// Server HTTP-сервер проверок готовности и состояния станции
type Server struct {
	addr    string
	station port.StatusProvider
	queue   Queue
	intake  Intake
	peers   []Peer
	engine  *gin.Engine
}

// New создаёт сервер с маршрутами и middleware
func New(addr string, station port.StatusProvider, queue Queue, intake Intake, peers ...Peer) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger())

	server := &Server{
		addr:    addr,
		station: station,
		queue:   queue,
		intake:  intake,
		peers:   peers,
		engine:  engine,
	}
	server.registerRoutes()
	return server
}

// Engine отдаёт gin.Engine, через него ходят тесты
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run запускает HTTP-сервер и блокируется до отмены ctx
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("health server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/status", s.handleStatus)
}

// handleHealth 200, когда оба соседних узла подключены, иначе 503
// GET /healthz
func (s *Server) handleHealth(c *gin.Context) {
	peers := make(gin.H, len(s.peers))
	ready := true
	for _, p := range s.peers {
		st := p.Stats()
		peers[st.Name] = st.Connected
		ready = ready && st.Connected
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "peers": peers})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "peers": peers})
}

// handleStatus снимок станции, очереди и соединений
// GET /status
func (s *Server) handleStatus(c *gin.Context) {
	peers := make([]peer.Stats, 0, len(s.peers))
	for _, p := range s.peers {
		peers = append(peers, p.Stats())
	}

	c.JSON(http.StatusOK, gin.H{
		"station": newStationView(s.station.Status()),
		"queue": gin.H{
			"len":      s.queue.Len(),
			"capacity": s.queue.Cap(),
			"policy":   s.queue.Policy(),
			"dropped":  s.queue.Dropped(),
		},
		"intake": gin.H{
			"received":    s.intake.Received(),
			"connections": s.intake.Active(),
		},
		"peers": peers,
	})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

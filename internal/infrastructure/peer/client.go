package peer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"station-inspector/internal/infrastructure/wire"
)

var ErrNotConnected = errors.New("peer is not connected")

// DefaultWriteTimeout ограничивает одну отправку застрявшему узлу
const DefaultWriteTimeout = 5 * time.Second

// Dialer устанавливает аутентифицированное соединение
type Dialer func(ctx context.Context, addr string, secret []byte) (*wire.Conn, error)

// Client постоянное исходящее соединение с узлом.
// Отправки без подтверждения: не более одной доставки.
type Client struct {
	name         string
	addr         string
	secret       []byte
	policy       RetryPolicy
	dial         Dialer
	writeTimeout time.Duration

	mu     sync.Mutex
	conn   *wire.Conn
	broken chan struct{}

	connected atomic.Bool
	sent      atomic.Uint64
	failed    atomic.Uint64
	redials   atomic.Uint64
}

// Option настройка клиента
type Option func(*Client)

// WithDialer подменяет способ подключения
func WithDialer(d Dialer) Option {
	return func(c *Client) { c.dial = d }
}

// WithWriteTimeout задаёт таймаут записи
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Client) { c.writeTimeout = d }
}

// NewClient создаёт клиента; соединение устанавливается в Connect
func NewClient(name, addr string, secret []byte, policy RetryPolicy, opts ...Option) *Client {
	c := &Client{
		name:         name,
		addr:         addr,
		secret:       secret,
		policy:       policy,
		dial:         wire.Dial,
		writeTimeout: DefaultWriteTimeout,
		broken:       make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name имя узла для логов
func (c *Client) Name() string { return c.name }

// Addr адрес узла
func (c *Client) Addr() string { return c.addr }

// Connect подключается согласно политике повторов и блокируется до успеха
func (c *Client) Connect(ctx context.Context) error {
	attempts, err := c.policy.Do(ctx, c.name, func(ctx context.Context) error {
		conn, err := c.dial(ctx, c.addr, c.secret)
		if err != nil {
			return err
		}
		c.attach(conn)
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("connected to peer",
		"peer", c.name,
		"addr", c.addr,
		"attempts", attempts,
	)
	return nil
}

// Send отправляет сообщение. Ошибка помечает сессию разорванной,
// переподключением занимается Watch.
func (c *Client) Send(v interface{}) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		c.failed.Add(1)
		return fmt.Errorf("%s: %w", c.name, ErrNotConnected)
	}

	if c.writeTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	if err := conn.Send(v); err != nil {
		c.failed.Add(1)
		c.detach(conn, err)
		return fmt.Errorf("%s: %w", c.name, err)
	}

	c.sent.Add(1)
	return nil
}

// Watch следит за сессией и переподключается после разрыва.
// Возвращается при отмене ctx или если политика исчерпала попытки.
func (c *Client) Watch(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.broken:
		}

		slog.Warn("peer session lost, reconnecting", "peer", c.name, "addr", c.addr)
		c.redials.Add(1)
		if err := c.Connect(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// Connected сообщает, есть ли живая сессия
func (c *Client) Connected() bool { return c.connected.Load() }

// Stats счётчики клиента
func (c *Client) Stats() Stats {
	return Stats{
		Name:      c.name,
		Addr:      c.addr,
		Connected: c.connected.Load(),
		Sent:      c.sent.Load(),
		Failed:    c.failed.Load(),
		Redials:   c.redials.Load(),
	}
}

// Stats статистика клиента
type Stats struct {
	Name      string `json:"name"`
	Addr      string `json:"addr"`
	Connected bool   `json:"connected"`
	Sent      uint64 `json:"sent"`
	Failed    uint64 `json:"failed"`
	Redials   uint64 `json:"redials"`
}

// Close закрывает текущую сессию без переподключения
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	c.connected.Store(false)
	if conn == nil {
		return nil
	}
	return conn.Close()
}

func (c *Client) attach(conn *wire.Conn) {
	c.mu.Lock()
	old := c.conn
	c.conn = conn
	c.mu.Unlock()

	if old != nil {
		old.Close()
	}
	c.connected.Store(true)
	go c.monitor(conn)
}

// monitor читает из сессии: узел ничего не присылает,
// поэтому возврат из чтения означает разрыв
func (c *Client) monitor(conn *wire.Conn) {
	for {
		if _, err := wire.ReadFrame(conn); err != nil {
			c.detach(conn, err)
			return
		}
	}
}

func (c *Client) detach(conn *wire.Conn, cause error) {
	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.mu.Unlock()

	c.connected.Store(false)
	if err := conn.Close(); err != nil {
		slog.Debug("error closing peer connection", "peer", c.name, "error", err)
	}
	slog.Error("peer session closed", "peer", c.name, "addr", c.addr, "error", cause)

	select {
	case c.broken <- struct{}{}:
	default:
	}
}

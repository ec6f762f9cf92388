package wire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// DefaultHandshakeTimeout ограничивает время аутентификации нового соединения
const DefaultHandshakeTimeout = 10 * time.Second

// DecodeError тело сообщения прочитано, но не разобрано; поток не нарушен
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "failed to decode message: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// IsDecodeError проверяет, что ошибка относится к одному сообщению, а не к потоку
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// Conn аутентифицированное соединение с сообщениями msgpack
type Conn struct {
	// mu защищает запись
	mu sync.Mutex

	net.Conn
}

// Send кодирует v в msgpack и отправляет одним кадром
func (c *Conn) Send(v interface{}) error {
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal msgpack message: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return WriteFrame(c.Conn, payload)
}

// Recv читает один кадр и раскодирует его в v
func (c *Conn) Recv(v interface{}) error {
	payload, err := ReadFrame(c.Conn)
	if err != nil {
		return err
	}
	if err := msgpack.Unmarshal(payload, v); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// Dial подключается к узлу и проходит рукопожатие с общим секретом
func Dial(ctx context.Context, addr string, secret []byte) (*Conn, error) {
	var d net.Dialer
	nc, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	if err := handshake(nc, secret, ClientHandshake); err != nil {
		nc.Close()
		return nil, err
	}
	return &Conn{Conn: nc}, nil
}

// Accept проходит серверную часть рукопожатия для принятого соединения
func Accept(nc net.Conn, secret []byte) (*Conn, error) {
	if err := handshake(nc, secret, ServerHandshake); err != nil {
		return nil, err
	}
	return &Conn{Conn: nc}, nil
}

func handshake(nc net.Conn, secret []byte, fn func(io.ReadWriter, []byte) error) error {
	if err := nc.SetDeadline(time.Now().Add(DefaultHandshakeTimeout)); err != nil {
		return fmt.Errorf("failed to set handshake deadline: %w", err)
	}
	if err := fn(nc, secret); err != nil {
		return fmt.Errorf("handshake with %s: %w", nc.RemoteAddr(), err)
	}
	return nc.SetDeadline(time.Time{})
}

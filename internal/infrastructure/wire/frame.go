package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Каждое сообщение: 4 байта длины (big endian) + тело
const (
	lengthPrefixSize = 4
	MaxFrameSize     = 1 << 20
)

var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// WriteFrame пишет тело с префиксом длины одним вызовом Write
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}

	buf := make([]byte, lengthPrefixSize+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[lengthPrefixSize:], payload)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// ReadFrame читает одно сообщение. io.EOF возвращается только если
// соединение закрыто ровно на границе сообщений.
func ReadFrame(r io.Reader) ([]byte, error) {
	lengthBuf := make([]byte, lengthPrefixSize)
	if _, err := io.ReadFull(r, lengthBuf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read length prefix: %w", err)
	}

	n := binary.BigEndian.Uint32(lengthBuf)
	if n > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, n)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("failed to read frame body (expected %d bytes): %w", n, err)
	}
	return payload, nil
}

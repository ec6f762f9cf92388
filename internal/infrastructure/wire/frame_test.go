package wire

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFrame(t *testing.T) {
	tests := []struct {
		given    []byte
		expected []byte
	}{
		{
			given:    []byte{},
			expected: []byte{0x00, 0x00, 0x00, 0x00},
		},
		{
			given:    []byte{0x81, 0xa1, 0x61, 0x01},
			expected: []byte{0x00, 0x00, 0x00, 0x04, 0x81, 0xa1, 0x61, 0x01},
		},
	}

	for _, test := range tests {
		var buf bytes.Buffer
		assert.NoError(t, WriteFrame(&buf, test.given))
		assert.Equal(t, test.expected, buf.Bytes())
	}
}

func TestReadFrame(t *testing.T) {
	r := bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x02, 0xaa, 0xbb, 0x00, 0x00, 0x00, 0x01, 0xcc})

	first, err := ReadFrame(r)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0xbb}, first)

	second, err := ReadFrame(r)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xcc}, second)

	_, err = ReadFrame(r)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadFrame_Truncated(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x05, 0x01}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = ReadFrame(bytes.NewReader([]byte{0x00, 0x00}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestReadFrame_TooLarge(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader([]byte{0x7f, 0xff, 0xff, 0xff}))
	assert.ErrorIs(t, err, ErrFrameTooLarge)

	err = WriteFrame(io.Discard, make([]byte, MaxFrameSize+1))
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

package wire

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"station-inspector/internal/domain/entity"
)

func TestDialAccept_Messages(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	secret := []byte("peekaboo")
	received := make(chan interface{}, 1)
	go func() {
		nc, err := ln.Accept()
		if err != nil {
			return
		}
		conn, err := Accept(nc, secret)
		if err != nil {
			nc.Close()
			return
		}
		defer conn.Close()
		var msg interface{}
		if err := conn.Recv(&msg); err == nil {
			received <- msg
		}
	}()

	conn, err := Dial(context.Background(), ln.Addr().String(), secret)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Send(NewReportMessage(entity.NewReport(1, "A1", entity.DetectionResult{
		Payload: "SN-1",
		Color:   entity.ColorGreen,
	}))))

	msg := <-received
	m, ok := msg.(map[string]interface{})
	require.True(t, ok)
	header, ok := asInt(m["header"])
	require.True(t, ok)
	require.Equal(t, int64(1), header)

	data, ok := m["data"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "SN-1", data["qrcode"])
	require.Equal(t, "green", data["color"])
	require.Equal(t, "rectangle", data["shape"])
	require.Equal(t, "A1", data["station"])
}

func TestConn_RecvDecodeError(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	go func() {
		_ = WriteFrame(client, []byte{0xc1})
	}()

	conn := &Conn{Conn: server}
	var msg interface{}
	err := conn.Recv(&msg)
	require.Error(t, err)
	require.True(t, IsDecodeError(err))
}

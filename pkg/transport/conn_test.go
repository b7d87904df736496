package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapticon/somanet-ethclient/pkg/wire"
)

// startServer accepts one connection and runs handle on it in a
// goroutine, returning the listener address.
func startServer(t *testing.T, handle func(net.Conn)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		handle(c)
	}()
	return ln.Addr().String()
}

func readFrame(t *testing.T, c net.Conn) wire.Frame {
	t.Helper()
	header := make([]byte, wire.HeaderSize)
	_, err := readAll(c, header)
	require.NoError(t, err)
	size := int(header[5]) | int(header[6])<<8
	buf := make([]byte, wire.HeaderSize+size)
	copy(buf, header)
	if size > 0 {
		_, err := readAll(c, buf[wire.HeaderSize:])
		require.NoError(t, err)
	}
	f, err := wire.Parse(buf)
	require.NoError(t, err)
	return f
}

func readAll(c net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := c.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func writeFrame(t *testing.T, c net.Conn, f wire.Frame) {
	t.Helper()
	buf, err := wire.Serialize(f)
	require.NoError(t, err)
	_, err = c.Write(buf)
	require.NoError(t, err)
}

func TestExchangeSingleFrame(t *testing.T) {
	addr := startServer(t, func(c net.Conn) {
		defer c.Close()
		req := readFrame(t, c)
		writeFrame(t, c, wire.Frame{
			Type:    req.Type,
			SeqID:   req.SeqID,
			Status:  wire.StatusOK,
			Payload: []byte{0x2A},
		})
	})

	conn, err := Dial(context.Background(), addr)
	require.NoError(t, err)
	defer conn.Close()

	seq := conn.NextSeqID()
	reply, err := conn.Exchange(context.Background(), wire.Frame{
		Type:    wire.SDORead,
		SeqID:   seq,
		Status:  wire.StatusOK,
		Payload: []byte{0x18, 0x10, 0x01},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x2A}, reply.Payload)
}

func TestExchangeSegmentedReassembly(t *testing.T) {
	addr := startServer(t, func(c net.Conn) {
		defer c.Close()
		req := readFrame(t, c)
		writeFrame(t, c, wire.Frame{Type: req.Type, SeqID: req.SeqID, Status: wire.StatusFirst, Payload: []byte{1, 2}})
		writeFrame(t, c, wire.Frame{Type: req.Type, SeqID: req.SeqID, Status: wire.StatusMiddle, Payload: []byte{3, 4}})
		writeFrame(t, c, wire.Frame{Type: req.Type, SeqID: req.SeqID, Status: wire.StatusLast, Payload: []byte{5}})
	})

	conn, err := Dial(context.Background(), addr)
	require.NoError(t, err)
	defer conn.Close()

	seq := conn.NextSeqID()
	frames, err := conn.ExchangeSegmented(context.Background(), wire.Frame{Type: wire.FileRead, SeqID: seq})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, Payload(frames))
}

func TestExchangeDeviceError(t *testing.T) {
	addr := startServer(t, func(c net.Conn) {
		defer c.Close()
		req := readFrame(t, c)
		writeFrame(t, c, wire.Frame{Type: req.Type, SeqID: req.SeqID, Status: wire.StatusErr})
	})

	conn, err := Dial(context.Background(), addr)
	require.NoError(t, err)
	defer conn.Close()

	seq := conn.NextSeqID()
	_, err = conn.Exchange(context.Background(), wire.Frame{Type: wire.SDOWrite, SeqID: seq})
	assert.ErrorIs(t, err, ErrDeviceError)
}

func TestExchangeTimeout(t *testing.T) {
	addr := startServer(t, func(c net.Conn) {
		defer c.Close()
		readFrame(t, c)
		time.Sleep(200 * time.Millisecond)
	})

	conn, err := Dial(context.Background(), addr, WithReadTimeout(20*time.Millisecond))
	require.NoError(t, err)
	defer conn.Close()

	seq := conn.NextSeqID()
	_, err = conn.Exchange(context.Background(), wire.Frame{Type: wire.SDORead, SeqID: seq})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestSeqAllocatorWraps(t *testing.T) {
	var a SeqAllocator
	a.next.Store(0xFFFF)
	assert.Equal(t, uint16(0xFFFF), a.Next())
	assert.Equal(t, uint16(0), a.Next())
}

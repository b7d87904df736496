package paramlist

import (
	"bytes"
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapticon/somanet-ethclient/pkg/od"
	"github.com/synapticon/somanet-ethclient/pkg/transport"
	"github.com/synapticon/somanet-ethclient/pkg/valuecodec"
	"github.com/synapticon/somanet-ethclient/pkg/wire"
)

func newReader(buf []byte) *bytes.Reader { return bytes.NewReader(buf) }

func TestEncodeDecodeRecordRoundTrip(t *testing.T) {
	p := &od.Parameter{
		Key:        od.Key{Index: 0x1018, SubIndex: 0x02},
		Name:       "ProductCode",
		DataType:   valuecodec.UNSIGNED32,
		BitLength:  32,
		ObjectCode: od.ObjectVar,
		Flags:      od.FlagPORead,
		Access:     od.FlagPORead,
	}
	require.NoError(t, p.SetValue(valuecodec.UintValue(7)))

	buf := EncodeRecord(p, true)
	got, hasValue, value, err := decodeRecord(newReader(buf))
	require.NoError(t, err)
	assert.True(t, hasValue)
	assert.Equal(t, p.Key, got.Key)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.DataType, got.DataType)
	assert.Equal(t, p.Raw(), value)
}

func TestEncodeDecodeRecordWithoutValue(t *testing.T) {
	p := &od.Parameter{
		Key:        od.Key{Index: 0x6000, SubIndex: 0x00},
		Name:       "Mode",
		DataType:   valuecodec.INTEGER8,
		ObjectCode: od.ObjectVar,
		Access:     od.FlagPORead | od.FlagPOWrite,
	}
	buf := EncodeRecord(p, false)
	got, hasValue, _, err := decodeRecord(newReader(buf))
	require.NoError(t, err)
	assert.False(t, hasValue)
	assert.Equal(t, p.Name, got.Name)
}

func TestLoadOverTransport(t *testing.T) {
	p1 := &od.Parameter{Key: od.Key{Index: 0x1000, SubIndex: 0}, Name: "DeviceType", DataType: valuecodec.UNSIGNED32, ObjectCode: od.ObjectVar, Access: od.FlagPORead}
	require.NoError(t, p1.SetValue(valuecodec.UintValue(0x12345678)))
	p2 := &od.Parameter{Key: od.Key{Index: 0x1018, SubIndex: 1}, Name: "VendorId", DataType: valuecodec.UNSIGNED32, ObjectCode: od.ObjectVar, Access: od.FlagPORead}
	require.NoError(t, p2.SetValue(valuecodec.UintValue(0x000022D2)))

	payload := append(EncodeRecord(p1, true), EncodeRecord(p2, true)...)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		header := make([]byte, wire.HeaderSize)
		readAllTest(c, header)
		size := int(header[5]) | int(header[6])<<8
		body := make([]byte, size)
		readAllTest(c, body)
		req, _ := wire.Parse(append(header, body...))
		reply, _ := wire.Serialize(wire.Frame{Type: req.Type, SeqID: req.SeqID, Status: wire.StatusOK, Payload: payload})
		c.Write(reply)
	}()

	conn, err := transport.Dial(context.Background(), ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	store := od.NewStore()
	require.NoError(t, Load(context.Background(), conn, store, true))
	assert.Equal(t, 2, store.Len())

	got, err := store.Find(0x1018, 1)
	require.NoError(t, err)
	v, err := got.Value()
	require.NoError(t, err)
	uv, _ := v.Uint()
	assert.Equal(t, uint64(0x000022D2), uv)
}

func readAllTest(c net.Conn, buf []byte) {
	total := 0
	for total < len(buf) {
		n, err := c.Read(buf[total:])
		total += n
		if err != nil {
			return
		}
	}
}

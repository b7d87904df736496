// Package sdo implements SDO_READ/SDO_WRITE object access: a single
// guarded request/response exchange per upload or download, with the
// underlying transport handling any FIRST/MIDDLE/LAST segmentation.
package sdo

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/synapticon/somanet-ethclient/pkg/od"
	"github.com/synapticon/somanet-ethclient/pkg/transport"
	"github.com/synapticon/somanet-ethclient/pkg/wire"
)

// ErrEmptyPayload is returned by Upload when the device replies with no
// data, and by Download when the stored parameter's value buffer is empty.
var ErrEmptyPayload = errors.New("sdo: empty payload")

// Client performs SDO uploads (reads) and downloads (writes) against a
// connected device, updating a shared parameter Store as it goes.
type Client struct {
	conn  *transport.Conn
	store *od.Store
}

// NewClient wraps a transport connection and the store it keeps in sync.
func NewClient(conn *transport.Conn, store *od.Store) *Client {
	return &Client{conn: conn, store: store}
}

func indexRequest(index uint16, subIndex uint8) []byte {
	buf := make([]byte, 3)
	binary.LittleEndian.PutUint16(buf[0:2], index)
	buf[2] = subIndex
	return buf
}

// Upload issues an SDO_READ for (index, subIndex) and writes the
// returned bytes into the matching stored parameter. Fails with
// od.ErrParameterUnknown if no such parameter exists in the store.
func (c *Client) Upload(ctx context.Context, index uint16, subIndex uint8) error {
	p, err := c.store.Find(index, subIndex)
	if err != nil {
		return err
	}

	seq := c.conn.NextSeqID()
	frames, err := c.conn.ExchangeSegmented(ctx, wire.Frame{
		Type:    wire.SDORead,
		SeqID:   seq,
		Status:  wire.StatusOK,
		Payload: indexRequest(index, subIndex),
	})
	if err != nil {
		return fmt.Errorf("sdo: upload 0x%04X:0x%02X: %w", index, subIndex, err)
	}
	data := transport.Payload(frames)
	if len(data) == 0 {
		return ErrEmptyPayload
	}
	if err := p.SetRaw(data); err != nil {
		return fmt.Errorf("sdo: upload 0x%04X:0x%02X: %w", index, subIndex, err)
	}
	return nil
}

// Download issues an SDO_WRITE for (index, subIndex) carrying the
// stored parameter's current raw value. Fails with od.ErrParameterUnknown
// if no such parameter exists, and ErrEmptyPayload if its value buffer
// is empty.
func (c *Client) Download(ctx context.Context, index uint16, subIndex uint8) error {
	p, err := c.store.Find(index, subIndex)
	if err != nil {
		return err
	}
	data := p.Raw()
	if len(data) == 0 {
		return ErrEmptyPayload
	}

	payload := append(indexRequest(index, subIndex), data...)
	if len(payload) > wire.MaxPayloadSize {
		return fmt.Errorf("sdo: download 0x%04X:0x%02X: %w", index, subIndex, errPayloadTooLargeForSingleFrame)
	}
	seq := c.conn.NextSeqID()
	_, err = c.conn.Exchange(ctx, wire.Frame{
		Type:    wire.SDOWrite,
		SeqID:   seq,
		Status:  wire.StatusOK,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("sdo: download 0x%04X:0x%02X: %w", index, subIndex, err)
	}
	return nil
}

var errPayloadTooLargeForSingleFrame = errors.New("value does not fit in a single SDO_WRITE frame")

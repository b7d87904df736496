// Package file implements the FILE_READ/FILE_WRITE/FIRMWARE_UPDATE
// operations, all built on segmented exchange over pkg/transport.
package file

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/synapticon/somanet-ethclient/pkg/transport"
	"github.com/synapticon/somanet-ethclient/pkg/wire"
)

// RemoveOKPrefix is the success prefix expected on an fs-remove= reply.
// The wire protocol document leaves this implementer-defined; override
// Client.RemoveSuccessPrefix per-instance if a device firmware uses a
// different convention.
const RemoveOKPrefix = "OK"

const fileListName = "fs-getlist"
const fileRemovePrefix = "fs-remove="

// Client performs file operations against a connected device.
type Client struct {
	conn *transport.Conn

	// RemoveSuccessPrefix overrides RemoveOKPrefix when non-empty.
	RemoveSuccessPrefix string
}

// NewClient wraps a transport connection for file access.
func NewClient(conn *transport.Conn) *Client {
	return &Client{conn: conn}
}

// ReadFile reads the named file's contents in full.
func (c *Client) ReadFile(ctx context.Context, name string) ([]byte, error) {
	seq := c.conn.NextSeqID()
	frames, err := c.conn.ExchangeSegmented(ctx, wire.Frame{
		Type:    wire.FileRead,
		SeqID:   seq,
		Status:  wire.StatusOK,
		Payload: []byte(name),
	})
	if err != nil {
		return nil, fmt.Errorf("file: read %q: %w", name, err)
	}
	return transport.Payload(frames), nil
}

// ListFiles returns the device's file listing. When stripSize is true,
// a trailing ", size: <N>" suffix is removed from each entry.
func (c *Client) ListFiles(ctx context.Context, stripSize bool) ([]string, error) {
	raw, err := c.ReadFile(ctx, fileListName)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if stripSize {
			line = stripSizeSuffix(line)
		}
		out = append(out, line)
	}
	return out, nil
}

func stripSizeSuffix(line string) string {
	idx := strings.LastIndex(line, ", size: ")
	if idx < 0 {
		return line
	}
	suffix := line[idx+len(", size: "):]
	if _, err := strconv.ParseUint(suffix, 10, 64); err != nil {
		return line
	}
	return line[:idx]
}

// RemoveFile deletes the named file, reporting success when the reply
// begins with the expected success prefix.
func (c *Client) RemoveFile(ctx context.Context, name string) error {
	reply, err := c.ReadFile(ctx, fileRemovePrefix+name)
	if err != nil {
		return fmt.Errorf("file: remove %q: %w", name, err)
	}
	prefix := c.RemoveSuccessPrefix
	if prefix == "" {
		prefix = RemoveOKPrefix
	}
	if !strings.HasPrefix(string(reply), prefix) {
		return fmt.Errorf("file: remove %q: unexpected response %q", name, reply)
	}
	return nil
}

// WriteFile writes data as the named file's contents, chunking the
// combined name+data payload across segments no larger than
// wire.MaxPayloadSize and requiring every chunk to be ACKed.
func (c *Client) WriteFile(ctx context.Context, name string, data []byte) error {
	payload := append([]byte(name), data...)

	seq := c.conn.NextSeqID()
	for offset := 0; offset < len(payload) || offset == 0; {
		end := offset + wire.MaxPayloadSize
		if end > len(payload) {
			end = len(payload)
		}
		chunk := payload[offset:end]

		status := segmentStatus(offset, end, len(payload))
		_, err := c.conn.Exchange(ctx, wire.Frame{
			Type:    wire.FileWrite,
			SeqID:   seq,
			Status:  status,
			Payload: chunk,
		})
		if err != nil {
			return fmt.Errorf("file: write %q: %w", name, err)
		}

		offset = end
		if offset >= len(payload) {
			break
		}
	}
	return nil
}

func segmentStatus(offset, end, total int) wire.Status {
	switch {
	case offset == 0 && end == total:
		return wire.StatusOK
	case offset == 0:
		return wire.StatusFirst
	case end == total:
		return wire.StatusLast
	default:
		return wire.StatusMiddle
	}
}

// TriggerFirmwareUpdate sends the single empty FIRMWARE_UPDATE frame
// that hands control to the bootloader.
func (c *Client) TriggerFirmwareUpdate(ctx context.Context) error {
	seq := c.conn.NextSeqID()
	_, err := c.conn.Exchange(ctx, wire.Frame{
		Type:   wire.FirmwareUpdate,
		SeqID:  seq,
		Status: wire.StatusOK,
	})
	if err != nil {
		return fmt.Errorf("file: trigger firmware update: %w", err)
	}
	return nil
}

// Package transport implements the TCP connection to a device, guarding
// the single request/response exchange with a mutex and reassembling
// segmented (FIRST/MIDDLE/LAST) frame sequences into one payload.
package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/synapticon/somanet-ethclient/pkg/wire"
)

var (
	// ErrNotConnected is returned by Exchange when Conn has no live socket.
	ErrNotConnected = errors.New("transport: not connected")
	// ErrTimeout is returned when a request exceeds its deadline.
	ErrTimeout = errors.New("transport: timed out waiting for response")
	// ErrProtocol is returned for a malformed or out-of-sequence response.
	ErrProtocol = errors.New("transport: protocol error")
	// ErrDeviceBusy is returned when the device reports SQI_BSY.
	ErrDeviceBusy = errors.New("transport: device busy")
	// ErrDeviceError is returned when the device reports SQI_ERR or STATUS_ERR.
	ErrDeviceError = errors.New("transport: device reported an error")
	// ErrPayloadTooLarge is returned when reassembly would exceed MaxReassembledPayload.
	ErrPayloadTooLarge = errors.New("transport: reassembled payload exceeds limit")
)

// MaxReassembledPayload bounds how large a FIRST..LAST segmented
// exchange may grow before Exchange gives up. The wire protocol leaves
// this implementer-defined.
const MaxReassembledPayload = 1 << 20

// Conn is a single guarded TCP connection to a device.
type Conn struct {
	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	seq    SeqAllocator
	logger *slog.Logger

	readTimeout time.Duration
}

// Option configures a Conn at Dial time.
type Option func(*Conn)

// WithReadTimeout overrides the default (2s) per-exchange timeout, which
// bounds the request write and every reply read of one exchange.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Conn) { c.readTimeout = d }
}

// WithLogger attaches a structured logger; nil falls back to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Conn) { c.logger = logger }
}

// Dial opens a TCP connection to addr.
func Dial(ctx context.Context, addr string, opts ...Option) (*Conn, error) {
	d := net.Dialer{}
	nc, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", addr, err)
	}
	c := &Conn{
		conn:        nc,
		reader:      bufio.NewReaderSize(nc, wire.MaxFrameSize),
		readTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("service", "transport", "addr", addr)
	return c, nil
}

// Close closes the underlying socket.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Connected reports whether the socket is still open.
func (c *Conn) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// NextSeqID allocates the next outgoing sequence id.
func (c *Conn) NextSeqID() uint16 { return c.seq.Next() }

// sendFrame serializes and writes f. Caller must hold mu.
func (c *Conn) sendFrame(f wire.Frame) error {
	buf, err := wire.Serialize(f)
	if err != nil {
		return err
	}
	if _, err := c.conn.Write(buf); err != nil {
		return fmt.Errorf("transport: write: %w", err)
	}
	return nil
}

// recvFrame reads exactly one frame off the wire. Caller must hold mu.
func (c *Conn) recvFrame(deadline time.Time) (wire.Frame, error) {
	c.conn.SetReadDeadline(deadline)
	header := make([]byte, wire.HeaderSize)
	if _, err := readFull(c.reader, header); err != nil {
		if isTimeout(err) {
			return wire.Frame{}, ErrTimeout
		}
		return wire.Frame{}, fmt.Errorf("transport: read header: %w", err)
	}
	size := int(header[5]) | int(header[6])<<8
	buf := make([]byte, wire.HeaderSize+size)
	copy(buf, header)
	if size > 0 {
		if _, err := readFull(c.reader, buf[wire.HeaderSize:]); err != nil {
			if isTimeout(err) {
				return wire.Frame{}, ErrTimeout
			}
			return wire.Frame{}, fmt.Errorf("transport: read payload: %w", err)
		}
	}
	return wire.Parse(buf)
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Exchange sends one request frame and returns the matching single-frame
// StatusOK reply, rejecting a reply whose SeqID does not match or whose
// status indicates the exchange is segmented. A StatusErr reply fails
// with ErrDeviceError.
func (c *Conn) Exchange(ctx context.Context, req wire.Frame) (wire.Frame, error) {
	frames, err := c.ExchangeSegmented(ctx, req)
	if err != nil {
		return wire.Frame{}, err
	}
	if len(frames) != 1 {
		return wire.Frame{}, fmt.Errorf("%w: expected single-frame reply, got %d frames", ErrProtocol, len(frames))
	}
	return frames[0], nil
}

// ExchangeSegmented sends one request frame and collects every reply
// frame belonging to the same exchange: either a single StatusOK frame,
// or a FIRST (MIDDLE*) LAST run. Any other status sequence fails with
// ErrProtocol; a StatusErr frame fails with ErrDeviceError.
func (c *Conn) ExchangeSegmented(ctx context.Context, req wire.Frame) ([]wire.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, ErrNotConnected
	}

	deadline := time.Now().Add(c.readTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}

	c.conn.SetWriteDeadline(deadline)
	if err := c.sendFrame(req); err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, err
	}

	var frames []wire.Frame
	total := 0
	for {
		f, err := c.recvFrame(deadline)
		if err != nil {
			return nil, err
		}
		if f.SeqID != req.SeqID {
			return nil, fmt.Errorf("%w: reply seqId 0x%04X does not match request 0x%04X", ErrProtocol, f.SeqID, req.SeqID)
		}
		if f.Status == wire.StatusErr {
			return nil, fmt.Errorf("%w: status=ERR sqi=%s", ErrDeviceError, f.SQI)
		}
		if f.SQI == wire.SQIBusy {
			return nil, ErrDeviceBusy
		}
		if f.SQI == wire.SQIErr {
			return nil, ErrDeviceError
		}
		if len(frames) == 0 && !f.Status.IsSegmentStart() {
			return nil, fmt.Errorf("%w: reply starts with status %s", ErrProtocol, f.Status)
		}
		if len(frames) > 0 && f.Status != wire.StatusMiddle && f.Status != wire.StatusLast {
			return nil, fmt.Errorf("%w: status %s inside a segmented reply", ErrProtocol, f.Status)
		}

		total += len(f.Payload)
		if total > MaxReassembledPayload {
			return nil, ErrPayloadTooLarge
		}
		frames = append(frames, f)

		if f.Status.IsSegmentEnd() {
			return frames, nil
		}
	}
}

// Payload concatenates the payloads of a segmented exchange's frames.
func Payload(frames []wire.Frame) []byte {
	total := 0
	for _, f := range frames {
		total += len(f.Payload)
	}
	out := make([]byte, 0, total)
	for _, f := range frames {
		out = append(out, f.Payload...)
	}
	return out
}

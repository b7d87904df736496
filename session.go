// Package device exposes Session, the capability set a caller drives a
// Synapticon SOMANET device through: connect/disconnect, EtherCAT state
// control, SDO upload/download, the full parameter list, file transfer,
// and one PDO_RXTX_FRAME round trip. It wires pkg/transport, pkg/od,
// pkg/sdo, pkg/paramlist, pkg/file and pkg/pdo into a single handle.
package device

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"

	"github.com/synapticon/somanet-ethclient/pkg/file"
	"github.com/synapticon/somanet-ethclient/pkg/od"
	"github.com/synapticon/somanet-ethclient/pkg/pdo"
	"github.com/synapticon/somanet-ethclient/pkg/paramlist"
	"github.com/synapticon/somanet-ethclient/pkg/sdo"
	"github.com/synapticon/somanet-ethclient/pkg/transport"
	"github.com/synapticon/somanet-ethclient/pkg/valuecodec"
	"github.com/synapticon/somanet-ethclient/pkg/wire"
)

// ConnState is the session's own connection state, distinct from the
// remote device's EtherCAT state machine (INIT/PREOP/BOOT/SAFEOP/OP),
// which is never cached here and is always re-read from the wire.
type ConnState uint8

const (
	StateDisconnected ConnState = iota
	StateConnected
)

func (s ConnState) String() string {
	if s == StateConnected {
		return "connected"
	}
	return "disconnected"
}

// EtherCAT device states, as reported by STATE_READ / accepted by
// STATE_CONTROL.
const (
	ECStateInit   uint8 = 1
	ECStatePreop  uint8 = 2
	ECStateBoot   uint8 = 3
	ECStateSafeop uint8 = 4
	ECStateOp     uint8 = 8
)

// ErrNotConnected is returned by any Session operation issued while
// disconnected.
var ErrNotConnected = errors.New("device: session is not connected")

// Session is the concrete Ethernet/TCP capability set: one connection,
// one object dictionary store, and the PDO mapping configured onto it.
type Session struct {
	addr   string
	opts   []transport.Option
	logger *slog.Logger

	state ConnState
	conn  *transport.Conn
	store *od.Store

	sdo  *sdo.Client
	file *file.Client
	pdo  *pdo.Engine
}

// NewSession returns a disconnected Session for addr ("host:port").
// Options configure the underlying transport.Conn once Connect dials it.
func NewSession(addr string, opts ...transport.Option) *Session {
	return &Session{
		addr:   addr,
		opts:   opts,
		logger: slog.Default().With("service", "device", "addr", addr),
		store:  od.NewStore(),
	}
}

// Store returns the session's parameter store, shared by SDO, PDO and
// the parameter-list loader.
func (s *Session) Store() *od.Store { return s.store }

// IsConnected reports the session's own connection state.
func (s *Session) IsConnected() bool { return s.state == StateConnected }

// Connect dials the device and wires the SDO and file clients against
// the resulting connection.
func (s *Session) Connect(ctx context.Context) error {
	conn, err := transport.Dial(ctx, s.addr, s.opts...)
	if err != nil {
		return fmt.Errorf("device: connect: %w", err)
	}
	s.conn = conn
	s.sdo = sdo.NewClient(conn, s.store)
	s.file = file.NewClient(conn)
	s.state = StateConnected
	s.logger.Info("connected")
	return nil
}

// Disconnect closes the socket. The session returns to Disconnected
// regardless of whether the close itself succeeds. A failed exchange
// does not change the session's state: it stays Connected on the same
// socket, and reconnecting is left to the caller.
func (s *Session) Disconnect() error {
	if s.conn == nil {
		s.setState(StateDisconnected)
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	s.sdo = nil
	s.file = nil
	s.pdo = nil
	s.setState(StateDisconnected)
	s.logger.Info("disconnected")
	return err
}

func (s *Session) setState(state ConnState) { s.state = state }

func (s *Session) requireConnected() error {
	if s.state != StateConnected || s.conn == nil {
		return ErrNotConnected
	}
	return nil
}

// GetState reads the remote device's EtherCAT state. It never caches
// the result: each call re-queries STATE_READ.
func (s *Session) GetState(ctx context.Context) (uint8, error) {
	if err := s.requireConnected(); err != nil {
		return 0, err
	}
	seq := s.conn.NextSeqID()
	reply, err := s.conn.Exchange(ctx, wire.Frame{
		Type:   wire.StateRead,
		SeqID:  seq,
		Status: wire.StatusOK,
	})
	if err != nil {
		return 0, fmt.Errorf("device: get state: %w", err)
	}
	if len(reply.Payload) < 1 {
		return 0, fmt.Errorf("device: get state: %w", transport.ErrProtocol)
	}
	return reply.Payload[0], nil
}

// SetState drives the remote device toward the requested EtherCAT
// state via STATE_CONTROL. The session's own ConnState is unaffected:
// a session stays Connected regardless of what EtherCAT state its
// device is in.
func (s *Session) SetState(ctx context.Context, ecState uint8) error {
	if err := s.requireConnected(); err != nil {
		return err
	}
	seq := s.conn.NextSeqID()
	_, err := s.conn.Exchange(ctx, wire.Frame{
		Type:    wire.StateControl,
		SeqID:   seq,
		Status:  wire.StatusOK,
		Payload: []byte{ecState},
	})
	if err != nil {
		return fmt.Errorf("device: set state 0x%02X: %w", ecState, err)
	}
	return nil
}

// Upload reads (index, subIndex) from the device into the store.
func (s *Session) Upload(ctx context.Context, index uint16, subIndex uint8) error {
	if err := s.requireConnected(); err != nil {
		return err
	}
	return s.sdo.Upload(ctx, index, subIndex)
}

// UploadValue reads (index, subIndex) and returns its decoded value.
func (s *Session) UploadValue(ctx context.Context, index uint16, subIndex uint8) (valuecodec.Value, error) {
	if err := s.requireConnected(); err != nil {
		return valuecodec.Value{}, err
	}
	return s.sdo.UploadValue(ctx, index, subIndex)
}

// Download writes the store's current value for (index, subIndex) to
// the device.
func (s *Session) Download(ctx context.Context, index uint16, subIndex uint8) error {
	if err := s.requireConnected(); err != nil {
		return err
	}
	return s.sdo.Download(ctx, index, subIndex)
}

// SetAndDownload encodes val into the store and writes it through in
// one step.
func (s *Session) SetAndDownload(ctx context.Context, index uint16, subIndex uint8, val valuecodec.Value) error {
	if err := s.requireConnected(); err != nil {
		return err
	}
	return s.sdo.SetAndDownload(ctx, index, subIndex, val)
}

// FindParameter looks up a previously loaded or uploaded parameter by
// (index, subIndex).
func (s *Session) FindParameter(index uint16, subIndex uint8) (*od.Parameter, error) {
	return s.store.Find(index, subIndex)
}

// LoadParameters retrieves the device's full parameter descriptor list
// via PARAM_FULL_LIST and populates the store, optionally storing each
// record's eagerly-reported raw value alongside its descriptor.
func (s *Session) LoadParameters(ctx context.Context, readValues bool) error {
	if err := s.requireConnected(); err != nil {
		return err
	}
	return paramlist.Load(ctx, s.conn, s.store, readValues)
}

// ReadFile reads a file's full contents from the device.
func (s *Session) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := s.requireConnected(); err != nil {
		return nil, err
	}
	return s.file.ReadFile(ctx, name)
}

// WriteFile writes data as the named file's contents.
func (s *Session) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := s.requireConnected(); err != nil {
		return err
	}
	return s.file.WriteFile(ctx, name, data)
}

// ListFiles returns the device's file listing.
func (s *Session) ListFiles(ctx context.Context, stripSize bool) ([]string, error) {
	if err := s.requireConnected(); err != nil {
		return nil, err
	}
	return s.file.ListFiles(ctx, stripSize)
}

// RemoveFile deletes the named file on the device.
func (s *Session) RemoveFile(ctx context.Context, name string) error {
	if err := s.requireConnected(); err != nil {
		return err
	}
	return s.file.RemoveFile(ctx, name)
}

// TriggerFirmwareUpdate hands control to the device's bootloader.
func (s *Session) TriggerFirmwareUpdate(ctx context.Context) error {
	if err := s.requireConnected(); err != nil {
		return err
	}
	return s.file.TriggerFirmwareUpdate(ctx)
}

// ConfigurePDO installs the process-data mapping the session exchanges
// on every ExchangeProcessData call. Must be called before the first
// exchange; subsequent calls replace the mapping.
func (s *Session) ConfigurePDO(mapping pdo.Mapping) {
	s.pdo = pdo.NewEngine(mapping, s.store)
}

// ExchangeProcessData performs one PDO_RXTX_FRAME round trip using the
// mapping installed by ConfigurePDO.
func (s *Session) ExchangeProcessData(ctx context.Context) error {
	if err := s.requireConnected(); err != nil {
		return err
	}
	if s.pdo == nil {
		return fmt.Errorf("device: exchange process data: %w", errPDONotConfigured)
	}
	return s.pdo.Exchange(ctx, s.conn)
}

var errPDONotConfigured = errors.New("no PDO mapping configured")

// serverInfoPayload decodes the little-endian vendor id carried by a
// SERVER_INFO reply, per spec.md section 6's Synapticon vendor id.
func serverInfoPayload(payload []byte) (uint32, error) {
	if len(payload) < 4 {
		return 0, fmt.Errorf("device: server info: %w", transport.ErrProtocol)
	}
	return binary.LittleEndian.Uint32(payload[:4]), nil
}

// VendorID queries SERVER_INFO and returns the reported vendor id.
func (s *Session) VendorID(ctx context.Context) (uint32, error) {
	if err := s.requireConnected(); err != nil {
		return 0, err
	}
	seq := s.conn.NextSeqID()
	reply, err := s.conn.Exchange(ctx, wire.Frame{
		Type:   wire.ServerInfo,
		SeqID:  seq,
		Status: wire.StatusOK,
	})
	if err != nil {
		return 0, fmt.Errorf("device: vendor id: %w", err)
	}
	return serverInfoPayload(reply.Payload)
}

// SynapticonVendorID is the vendor id reported by genuine Synapticon
// devices over SERVER_INFO.
const SynapticonVendorID uint32 = 0x000022D2

// Package od holds the object-dictionary model: individual Parameter
// descriptors and the Store that indexes every (index, subindex) a
// device has reported.
package od

import (
	"fmt"

	"github.com/synapticon/somanet-ethclient/pkg/valuecodec"
)

// ObjectCode classifies the shape of an object as reported by the device.
type ObjectCode uint8

const (
	ObjectVar    ObjectCode = 7
	ObjectArray  ObjectCode = 8
	ObjectRecord ObjectCode = 9
)

func (c ObjectCode) String() string {
	switch c {
	case ObjectVar:
		return "VAR"
	case ObjectArray:
		return "ARRAY"
	case ObjectRecord:
		return "RECORD"
	default:
		return fmt.Sprintf("ObjectCode(%d)", uint8(c))
	}
}

// Flags is the object-flags bitfield from spec section 6: per-state
// access (read/write in Pre-Op, Safe-Op, Op), PDO mapping eligibility,
// and the BACKUP/STARTUP markers.
type Flags uint16

const (
	FlagPORead    Flags = 0x0001
	FlagSafeRead  Flags = 0x0002
	FlagOpRead    Flags = 0x0004
	FlagPOWrite   Flags = 0x0008
	FlagSafeWrite Flags = 0x0010
	FlagOpWrite   Flags = 0x0020
	FlagRxPDOMap  Flags = 0x0040
	FlagTxPDOMap  Flags = 0x0080
	FlagBackup    Flags = 0x0100
	FlagStartup   Flags = 0x0200
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// readBits and writeBits are the per-EtherCAT-state access bits, used by
// Flags.Readable/Writable to answer "in any state" without the caller
// needing to enumerate PO/SO/OP individually.
const (
	readBits  = FlagPORead | FlagSafeRead | FlagOpRead
	writeBits = FlagPOWrite | FlagSafeWrite | FlagOpWrite
)

// Readable reports whether f grants read access in at least one EtherCAT state.
func (f Flags) Readable() bool { return f&readBits != 0 }

// Writable reports whether f grants write access in at least one EtherCAT state.
func (f Flags) Writable() bool { return f&writeBits != 0 }

// ReadableIn reports whether f grants read access while the device is in
// the EtherCAT state represented by stateBit (one of FlagPORead,
// FlagSafeRead, FlagOpRead).
func (f Flags) ReadableIn(stateBit Flags) bool { return f&stateBit != 0 }

// WritableIn reports whether f grants write access while the device is in
// the EtherCAT state represented by stateBit (one of FlagPOWrite,
// FlagSafeWrite, FlagOpWrite).
func (f Flags) WritableIn(stateBit Flags) bool { return f&stateBit != 0 }

// Key identifies a single object dictionary entry.
type Key struct {
	Index    uint16
	SubIndex uint8
}

func (k Key) String() string { return fmt.Sprintf("0x%04X:0x%02X", k.Index, k.SubIndex) }

// Less orders keys first by index, then by subindex.
func (k Key) Less(other Key) bool {
	if k.Index != other.Index {
		return k.Index < other.Index
	}
	return k.SubIndex < other.SubIndex
}

// Parameter is one object dictionary entry as reported by a device,
// carrying both its descriptor metadata and its last known value.
type Parameter struct {
	Key
	Name       string
	DataType   valuecodec.DataType
	BitLength  uint16
	ObjectCode ObjectCode
	Flags      Flags

	// Access carries the record's dedicated access-flags field, the same
	// six per-state PO_RD/SO_RD/OP_RD/PO_WR/SO_WR/OP_WR bits as Flags
	// (the wire record reports them separately from the combined object
	// flags), so it reuses the Flags type rather than a separate enum.
	Access Flags

	value []byte
}

// Raw returns the last known value as raw wire bytes.
func (p *Parameter) Raw() []byte {
	return append([]byte(nil), p.value...)
}

// SetRaw overwrites the parameter's cached value with raw wire bytes,
// validating its length against DataType when DataType is fixed-width.
func (p *Parameter) SetRaw(data []byte) error {
	if err := valuecodec.CheckSize(len(data), p.DataType); err != nil {
		return err
	}
	p.value = append([]byte(nil), data...)
	return nil
}

// Value decodes the cached raw bytes using the parameter's DataType.
func (p *Parameter) Value() (valuecodec.Value, error) {
	return valuecodec.Decode(p.value, p.DataType)
}

// SetValue encodes val per DataType and stores it as the cached raw value.
func (p *Parameter) SetValue(val valuecodec.Value) error {
	data, err := valuecodec.Encode(val, p.DataType)
	if err != nil {
		return err
	}
	p.value = data
	return nil
}

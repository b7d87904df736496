// Package wire implements the framing used by the Ethernet interface:
// a fixed 7-byte header followed by a payload of at most MaxPayloadSize
// bytes. All multi-byte header fields are little-endian.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MessageType identifies the operation a Frame carries.
type MessageType uint8

const (
	SDORead         MessageType = 0x01
	SDOWrite        MessageType = 0x02
	PDORxTxFrame    MessageType = 0x03
	PDOControl      MessageType = 0x04
	PDOMap          MessageType = 0x05
	FirmwareUpdate  MessageType = 0x0B
	FileRead        MessageType = 0x0C
	FileWrite       MessageType = 0x0D
	StateControl    MessageType = 0x0E
	StateRead       MessageType = 0x0F
	ParamFullList   MessageType = 0x13
	ServerInfo      MessageType = 0x20
)

func (t MessageType) String() string {
	switch t {
	case SDORead:
		return "SDO_READ"
	case SDOWrite:
		return "SDO_WRITE"
	case PDORxTxFrame:
		return "PDO_RXTX_FRAME"
	case PDOControl:
		return "PDO_CONTROL"
	case PDOMap:
		return "PDO_MAP"
	case FirmwareUpdate:
		return "FIRMWARE_UPDATE"
	case FileRead:
		return "FILE_READ"
	case FileWrite:
		return "FILE_WRITE"
	case StateControl:
		return "STATE_CONTROL"
	case StateRead:
		return "STATE_READ"
	case ParamFullList:
		return "PARAM_FULL_LIST"
	case ServerInfo:
		return "SERVER_INFO"
	default:
		return fmt.Sprintf("MessageType(0x%02X)", uint8(t))
	}
}

// Status is the per-frame segmentation/result code.
type Status uint8

const (
	StatusOK     Status = 0x00
	StatusFirst  Status = 0x80
	StatusMiddle Status = 0xC0
	StatusLast   Status = 0x40
	StatusErr    Status = 0x28
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusFirst:
		return "FIRST"
	case StatusMiddle:
		return "MIDDLE"
	case StatusLast:
		return "LAST"
	case StatusErr:
		return "ERR"
	default:
		return fmt.Sprintf("Status(0x%02X)", uint8(s))
	}
}

// IsSegmentStart reports whether this status begins or is a full message.
func (s Status) IsSegmentStart() bool { return s == StatusFirst || s == StatusOK }

// IsSegmentEnd reports whether this status ends or is a full message.
func (s Status) IsSegmentEnd() bool { return s == StatusLast || s == StatusOK }

// SQIStatus is the reply status of the serial link between the
// network-facing chip and the on-device SoC.
type SQIStatus uint8

const (
	SQIBusy SQIStatus = 0x28
	SQIAck  SQIStatus = 0x58
	SQIErr  SQIStatus = 0x63
)

func (s SQIStatus) String() string {
	switch s {
	case SQIBusy:
		return "BSY"
	case SQIAck:
		return "ACK"
	case SQIErr:
		return "ERR"
	default:
		return fmt.Sprintf("SQIStatus(0x%02X)", uint8(s))
	}
}

const (
	// HeaderSize is the fixed length, in bytes, of a Frame header.
	HeaderSize = 7
	// MaxFrameSize is the largest frame (header + payload) the wire allows.
	MaxFrameSize = 1500
	// MaxPayloadSize is the largest payload a single Frame may carry.
	MaxPayloadSize = MaxFrameSize - HeaderSize
)

var (
	// ErrShortBuffer is returned by Parse when given fewer than HeaderSize bytes.
	ErrShortBuffer = errors.New("wire: buffer shorter than header size")
	// ErrSizeMismatch is returned by Parse when the declared payload size does
	// not match the number of bytes actually present.
	ErrSizeMismatch = errors.New("wire: declared payload size does not match buffer length")
	// ErrPayloadTooLarge is returned by Serialize when the payload exceeds MaxPayloadSize.
	ErrPayloadTooLarge = errors.New("wire: payload exceeds MaxPayloadSize")
)

// Frame is one parsed Ethernet-interface message: a 7-byte header plus
// the raw, uninterpreted payload.
type Frame struct {
	Type    MessageType
	SeqID   uint16
	Status  Status
	SQI     SQIStatus
	Payload []byte
}

// Parse decodes buf into a Frame. buf must contain exactly HeaderSize
// plus the declared payload size bytes; trailing or missing bytes are
// a framing error (ErrSizeMismatch), not silently tolerated.
func Parse(buf []byte) (Frame, error) {
	if len(buf) < HeaderSize {
		return Frame{}, ErrShortBuffer
	}
	size := binary.LittleEndian.Uint16(buf[5:7])
	if len(buf) != HeaderSize+int(size) {
		return Frame{}, ErrSizeMismatch
	}
	f := Frame{
		Type:   MessageType(buf[0]),
		SeqID:  binary.LittleEndian.Uint16(buf[1:3]),
		Status: Status(buf[3]),
		SQI:    SQIStatus(buf[4]),
	}
	if size > 0 {
		f.Payload = make([]byte, size)
		copy(f.Payload, buf[HeaderSize:])
	}
	return f, nil
}

// Serialize encodes f into its wire representation.
func Serialize(f Frame) ([]byte, error) {
	if len(f.Payload) > MaxPayloadSize {
		return nil, ErrPayloadTooLarge
	}
	buf := make([]byte, HeaderSize+len(f.Payload))
	buf[0] = byte(f.Type)
	binary.LittleEndian.PutUint16(buf[1:3], f.SeqID)
	buf[3] = byte(f.Status)
	buf[4] = byte(f.SQI)
	binary.LittleEndian.PutUint16(buf[5:7], uint16(len(f.Payload)))
	copy(buf[HeaderSize:], f.Payload)
	return buf, nil
}

// Package paramlist retrieves a device's full parameter descriptor list
// (message type PARAM_FULL_LIST) and populates an od.Store from it.
package paramlist

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/synapticon/somanet-ethclient/pkg/od"
	"github.com/synapticon/somanet-ethclient/pkg/transport"
	"github.com/synapticon/somanet-ethclient/pkg/valuecodec"
	"github.com/synapticon/somanet-ethclient/pkg/wire"
)

// Load requests the full parameter list from the device over conn and
// populates store with one od.Parameter per descriptor record. When
// readValues is true, each record's optional value payload (present
// when the device eagerly reports current values alongside the
// descriptor) is stored as the Parameter's raw value. Every record is
// parsed before any is inserted, so a malformed list leaves store
// unchanged.
func Load(ctx context.Context, conn *transport.Conn, store *od.Store, readValues bool) error {
	seq := conn.NextSeqID()
	frames, err := conn.ExchangeSegmented(ctx, wire.Frame{
		Type:   wire.ParamFullList,
		SeqID:  seq,
		Status: wire.StatusOK,
	})
	if err != nil {
		return fmt.Errorf("paramlist: load: %w", err)
	}

	r := bytes.NewReader(transport.Payload(frames))
	var params []*od.Parameter
	for r.Len() > 0 {
		p, hasValue, value, err := decodeRecord(r)
		if err != nil {
			return fmt.Errorf("paramlist: decode record: %w", err)
		}
		if readValues && hasValue {
			if err := p.SetRaw(value); err != nil {
				return fmt.Errorf("paramlist: %s: %w", p.Key, err)
			}
		}
		params = append(params, p)
	}
	for _, p := range params {
		store.Put(p)
	}
	return nil
}

type recordHeader struct {
	Index       uint16
	SubIndex    uint8
	BitLength   uint16
	DataType    uint16
	ObjectCode  uint8
	ObjectFlags uint16
	AccessFlags uint16
}

// decodeRecord parses one descriptor record:
//
//	u16 index, u8 subindex, u16 bitLength, u16 dataType, u8 objectCode,
//	u16 objectFlags, u16 accessFlags, u8 nameLen, name bytes,
//	u8 hasValue, [u16 valueLen, value bytes]?
//
// The explicit hasValue flag (rather than inferring presence from
// remaining stream length) keeps record boundaries unambiguous when a
// value happens to be zero-length or when it's simply omitted for a
// descriptor-only listing.
func decodeRecord(r *bytes.Reader) (*od.Parameter, bool, []byte, error) {
	var fixed recordHeader
	if err := binary.Read(r, binary.LittleEndian, &fixed); err != nil {
		return nil, false, nil, err
	}

	nameLen, err := r.ReadByte()
	if err != nil {
		return nil, false, nil, err
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, false, nil, err
	}

	p := &od.Parameter{
		Key:        od.Key{Index: fixed.Index, SubIndex: fixed.SubIndex},
		Name:       string(name),
		DataType:   valuecodec.DataType(fixed.DataType),
		BitLength:  fixed.BitLength,
		ObjectCode: od.ObjectCode(fixed.ObjectCode),
		Flags:      od.Flags(fixed.ObjectFlags),
		Access:     od.Flags(fixed.AccessFlags),
	}

	hasValueByte, err := r.ReadByte()
	if err != nil {
		return nil, false, nil, err
	}
	if hasValueByte == 0 {
		return p, false, nil, nil
	}

	var valueLen uint16
	if err := binary.Read(r, binary.LittleEndian, &valueLen); err != nil {
		return nil, false, nil, err
	}
	value := make([]byte, valueLen)
	if _, err := io.ReadFull(r, value); err != nil {
		return nil, false, nil, err
	}
	return p, true, value, nil
}

// EncodeRecord renders p as a descriptor record, optionally embedding its
// current raw value. Used by tests and by any component emulating a
// device for local development.
func EncodeRecord(p *od.Parameter, includeValue bool) []byte {
	var buf bytes.Buffer
	fixed := recordHeader{
		Index:       p.Index,
		SubIndex:    p.SubIndex,
		BitLength:   p.BitLength,
		DataType:    uint16(p.DataType),
		ObjectCode:  uint8(p.ObjectCode),
		ObjectFlags: uint16(p.Flags),
		AccessFlags: uint16(p.Access),
	}
	binary.Write(&buf, binary.LittleEndian, fixed)
	buf.WriteByte(byte(len(p.Name)))
	buf.WriteString(p.Name)
	if !includeValue {
		buf.WriteByte(0)
		return buf.Bytes()
	}
	value := p.Raw()
	buf.WriteByte(1)
	binary.Write(&buf, binary.LittleEndian, uint16(len(value)))
	buf.Write(value)
	return buf.Bytes()
}

// Package pdo implements the process-data mapping and single-round-trip
// pack/unpack engine driving PDO_RXTX_FRAME exchanges.
package pdo

import (
	"context"
	"errors"
	"fmt"

	"github.com/synapticon/somanet-ethclient/pkg/od"
	"github.com/synapticon/somanet-ethclient/pkg/transport"
	"github.com/synapticon/somanet-ethclient/pkg/wire"
)

// ErrTruncatedPdo is returned by UnpackTx when the received frame is
// shorter than the mapping requires; entries beyond the truncation
// point are left unwritten.
var ErrTruncatedPdo = errors.New("pdo: frame shorter than mapping requires")

// ErrExtraPdoBytes is returned by UnpackTx as a non-fatal warning when
// trailing bytes remain after every mapped entry has been unpacked.
// The entries that did unpack are still written.
var ErrExtraPdoBytes = errors.New("pdo: frame longer than mapping requires")

// Entry is one mapped object: the parameter to read or write and the
// number of bits of it that participate in the process-data frame.
type Entry struct {
	Index     uint16
	SubIndex  uint8
	BitLength uint8
}

// ByteLength returns the byte-aligned span this entry occupies in a
// packed frame: ceil(BitLength/8).
func (e Entry) ByteLength() int {
	return (int(e.BitLength) + 7) / 8
}

// DecodeMappingWord splits a 32-bit PDO mapping word into an Entry, per
// the layout (index<<16)|(subindex<<8)|bitLength.
func DecodeMappingWord(word uint32) Entry {
	return Entry{
		Index:     uint16(word >> 16),
		SubIndex:  uint8(word >> 8),
		BitLength: uint8(word),
	}
}

// EncodeMappingWord is the inverse of DecodeMappingWord.
func EncodeMappingWord(e Entry) uint32 {
	return uint32(e.Index)<<16 | uint32(e.SubIndex)<<8 | uint32(e.BitLength)
}

// Mapping is the full set of entries exchanged in one PDO round trip.
type Mapping struct {
	Rx []Entry // written to the device
	Tx []Entry // read from the device
}

// Engine packs outbound RxPDO frames and unpacks inbound TxPDO frames
// against a shared parameter Store, byte-aligned per entry.
type Engine struct {
	Mapping Mapping
	Store   *od.Store
}

// NewEngine returns an Engine bound to mapping and store.
func NewEngine(mapping Mapping, store *od.Store) *Engine {
	return &Engine{Mapping: mapping, Store: store}
}

// PackRx assembles the outbound RxPDO frame: for each mapped entry, in
// order, the entry's parameter's first ByteLength() bytes.
func (e *Engine) PackRx() ([]byte, error) {
	var buf []byte
	for _, entry := range e.Mapping.Rx {
		p, err := e.Store.Find(entry.Index, entry.SubIndex)
		if err != nil {
			return nil, fmt.Errorf("pdo: pack rx 0x%04X:0x%02X: %w", entry.Index, entry.SubIndex, err)
		}
		raw := p.Raw()
		n := entry.ByteLength()
		if n > len(raw) {
			return nil, fmt.Errorf("pdo: pack rx 0x%04X:0x%02X: parameter shorter than mapped bit length", entry.Index, entry.SubIndex)
		}
		buf = append(buf, raw[:n]...)
	}
	return buf, nil
}

// UnpackTx walks the TxPDO mapping in order, writing each entry's
// ByteLength() bytes into the corresponding parameter. If frame is
// shorter than the mapping requires, entries beyond the truncation
// point are left untouched and ErrTruncatedPdo is returned wrapping how
// many entries were skipped. If bytes remain after every entry is
// unpacked, ErrExtraPdoBytes is returned alongside the (successful)
// writes already applied.
func (e *Engine) UnpackTx(frame []byte) error {
	offset := 0
	for i, entry := range e.Mapping.Tx {
		n := entry.ByteLength()
		if offset+n > len(frame) {
			remaining := len(e.Mapping.Tx) - i
			return fmt.Errorf("%w: %d entries left unset", ErrTruncatedPdo, remaining)
		}
		p, err := e.Store.Find(entry.Index, entry.SubIndex)
		if err != nil {
			return fmt.Errorf("pdo: unpack tx 0x%04X:0x%02X: %w", entry.Index, entry.SubIndex, err)
		}
		if err := p.SetRaw(frame[offset : offset+n]); err != nil {
			return fmt.Errorf("pdo: unpack tx 0x%04X:0x%02X: %w", entry.Index, entry.SubIndex, err)
		}
		offset += n
	}
	if offset < len(frame) {
		return fmt.Errorf("%w: %d trailing bytes", ErrExtraPdoBytes, len(frame)-offset)
	}
	return nil
}

// Exchange performs the single PDO_RXTX_FRAME round trip: pack the
// current RxPDO, send it, and unpack the returned TxPDO.
func (e *Engine) Exchange(ctx context.Context, conn *transport.Conn) error {
	rx, err := e.PackRx()
	if err != nil {
		return err
	}
	seq := conn.NextSeqID()
	reply, err := conn.Exchange(ctx, wire.Frame{
		Type:    wire.PDORxTxFrame,
		SeqID:   seq,
		Status:  wire.StatusOK,
		Payload: rx,
	})
	if err != nil {
		return fmt.Errorf("pdo: exchange: %w", err)
	}
	// ErrExtraPdoBytes is a warning, not a failure: UnpackTx has already
	// applied every successful entry write before returning it.
	return e.UnpackTx(reply.Payload)
}

package valuecodec

import (
	"encoding/binary"
	"errors"
	"math"
)

// Kind discriminates the variant a Value holds.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindUint
	KindFloat32
	KindFloat64
	KindString
	KindBytes
)

var (
	// ErrUnsupportedType is returned for a DataType with no codec support.
	ErrUnsupportedType = errors.New("valuecodec: unsupported data type")
	// ErrTypeMismatch is returned by Encode when a Value's Kind does not match the DataType.
	ErrTypeMismatch = errors.New("valuecodec: value kind mismatch")
	// ErrDataShort is returned when a byte slice is too short for its declared DataType.
	ErrDataShort = errors.New("valuecodec: data shorter than data type width")
	// ErrDataLong is returned when a byte slice is too long for its declared DataType.
	ErrDataLong = errors.New("valuecodec: data longer than data type width")
)

// Value is a flat sum type over every representation the codec produces.
// Exactly the field matching Kind is meaningful; the others are zero.
type Value struct {
	Kind    Kind
	boolV   bool
	intV    int64
	uintV   uint64
	f32V    float32
	f64V    float64
	strV    string
	bytesV  []byte
}

func BoolValue(v bool) Value           { return Value{Kind: KindBool, boolV: v} }
func IntValue(v int64) Value           { return Value{Kind: KindInt, intV: v} }
func UintValue(v uint64) Value         { return Value{Kind: KindUint, uintV: v} }
func Float32Value(v float32) Value     { return Value{Kind: KindFloat32, f32V: v} }
func Float64Value(v float64) Value     { return Value{Kind: KindFloat64, f64V: v} }
func StringValue(v string) Value       { return Value{Kind: KindString, strV: v} }
func BytesValue(v []byte) Value        { return Value{Kind: KindBytes, bytesV: v} }

func (v Value) Bool() (bool, bool)          { return v.boolV, v.Kind == KindBool }
func (v Value) Int() (int64, bool)          { return v.intV, v.Kind == KindInt }
func (v Value) Uint() (uint64, bool)        { return v.uintV, v.Kind == KindUint }
func (v Value) Float32() (float32, bool)    { return v.f32V, v.Kind == KindFloat32 }
func (v Value) Float64() (float64, bool)    { return v.f64V, v.Kind == KindFloat64 }
func (v Value) String() (string, bool)      { return v.strV, v.Kind == KindString }
func (v Value) Bytes() ([]byte, bool)       { return v.bytesV, v.Kind == KindBytes }

// CheckSize validates a byte slice's length against the fixed width its
// DataType demands. Variable-length types are always accepted.
func CheckSize(length int, t DataType) error {
	size, fixed := FixedSize(t)
	if !fixed {
		return nil
	}
	switch {
	case length < size:
		return ErrDataShort
	case length > size:
		return ErrDataLong
	default:
		return nil
	}
}

// signExtend widens the low n bytes of a little-endian buffer into a signed
// int64, respecting the sign bit at bit n*8-1.
func signExtend(data []byte) int64 {
	var v uint64
	for i, b := range data {
		v |= uint64(b) << (8 * i)
	}
	bits := uint(len(data)) * 8
	shift := 64 - bits
	return int64(v<<shift) >> shift
}

// trimNUL returns data as a string, truncated at the first zero byte if
// one is present.
func trimNUL(data []byte) string {
	for i, b := range data {
		if b == 0 {
			return string(data[:i])
		}
	}
	return string(data)
}

func zeroExtend(data []byte) uint64 {
	var v uint64
	for i, b := range data {
		v |= uint64(b) << (8 * i)
	}
	return v
}

// Decode interprets data as the given DataType and returns the corresponding Value.
func Decode(data []byte, t DataType) (Value, error) {
	if err := CheckSize(len(data), t); err != nil {
		return Value{}, err
	}
	switch t {
	case BOOLEAN:
		return BoolValue(data[0] != 0), nil
	case INTEGER8:
		return IntValue(int64(int8(data[0]))), nil
	case UNSIGNED8, BYTE, BIT1, BIT2, BIT3, BIT4, BIT5, BIT6, BIT7, BIT8, BITARR8:
		return UintValue(uint64(data[0])), nil
	case INTEGER16:
		return IntValue(int64(int16(binary.LittleEndian.Uint16(data)))), nil
	case UNSIGNED16, WORD, BIT9, BIT10, BIT11, BIT12, BIT13, BIT14, BIT15, BIT16, BITARR16:
		return UintValue(uint64(binary.LittleEndian.Uint16(data))), nil
	case INTEGER24:
		return IntValue(signExtend(data)), nil
	case UNSIGNED24:
		return UintValue(zeroExtend(data)), nil
	case INTEGER32:
		return IntValue(int64(int32(binary.LittleEndian.Uint32(data)))), nil
	case UNSIGNED32, DWORD, BITARR32:
		return UintValue(uint64(binary.LittleEndian.Uint32(data))), nil
	case INTEGER40, INTEGER48, INTEGER56:
		return IntValue(signExtend(data)), nil
	case UNSIGNED40, UNSIGNED48, UNSIGNED56:
		return UintValue(zeroExtend(data)), nil
	case INTEGER64:
		return IntValue(int64(binary.LittleEndian.Uint64(data))), nil
	case UNSIGNED64:
		return UintValue(binary.LittleEndian.Uint64(data)), nil
	case REAL32:
		return Float32Value(math.Float32frombits(binary.LittleEndian.Uint32(data))), nil
	case REAL64:
		return Float64Value(math.Float64frombits(binary.LittleEndian.Uint64(data))), nil
	case VISIBLE_STRING, OCTET_STRING, UNICODE_STRING:
		return StringValue(trimNUL(data)), nil
	case GUID, PDO_MAPPING, IDENTITY, COMMAND_PAR, SYNC_PAR,
		PDO_PARAMETER, ENUM, SM_SYNCHRONIZATION, RECORD, BACKUP_PARAMETER, MODULAR_DEVICE_PARAMETER,
		ARRAY_OF_INT, ARRAY_OF_SINT, ARRAY_OF_DINT, ARRAY_OF_UDINT,
		ERROR_SETTING, DIAGNOSIS_HISTORY, EXTERNAL_SYNC_STATUS, EXTERNAL_SYNC_SETTINGS,
		DEFTYPE_FSOEFRAME, DEFTYPE_FSOECOMMPAR, TIME_OF_DAY, TIME_DIFFERENCE:
		return BytesValue(append([]byte(nil), data...)), nil
	default:
		if IsUserType(t) {
			return BytesValue(append([]byte(nil), data...)), nil
		}
		return Value{}, ErrUnsupportedType
	}
}

func putSigned(v int64, n int) []byte {
	buf := make([]byte, n)
	uv := uint64(v)
	for i := 0; i < n; i++ {
		buf[i] = byte(uv >> (8 * i))
	}
	return buf
}

func putUnsigned(v uint64, n int) []byte {
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	return buf
}

// Encode renders val as the wire bytes for the given DataType. A BYTES
// value is always accepted, for any tag, as a raw override of the
// normal per-tag variant check.
func Encode(val Value, t DataType) ([]byte, error) {
	if bv, ok := val.Bytes(); ok {
		return append([]byte(nil), bv...), nil
	}
	switch t {
	case BOOLEAN:
		b, ok := val.Bool()
		if !ok {
			return nil, ErrTypeMismatch
		}
		if b {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case INTEGER8:
		iv, ok := val.Int()
		if !ok {
			return nil, ErrTypeMismatch
		}
		return []byte{byte(int8(iv))}, nil
	case UNSIGNED8, BYTE, BIT1, BIT2, BIT3, BIT4, BIT5, BIT6, BIT7, BIT8, BITARR8:
		uv, ok := val.Uint()
		if !ok {
			return nil, ErrTypeMismatch
		}
		return []byte{byte(uv)}, nil
	case INTEGER16:
		iv, ok := val.Int()
		if !ok {
			return nil, ErrTypeMismatch
		}
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(iv))
		return buf, nil
	case UNSIGNED16, WORD, BIT9, BIT10, BIT11, BIT12, BIT13, BIT14, BIT15, BIT16, BITARR16:
		uv, ok := val.Uint()
		if !ok {
			return nil, ErrTypeMismatch
		}
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(uv))
		return buf, nil
	case INTEGER24:
		iv, ok := val.Int()
		if !ok {
			return nil, ErrTypeMismatch
		}
		return putSigned(iv, 3), nil
	case UNSIGNED24:
		uv, ok := val.Uint()
		if !ok {
			return nil, ErrTypeMismatch
		}
		return putUnsigned(uv, 3), nil
	case INTEGER32:
		iv, ok := val.Int()
		if !ok {
			return nil, ErrTypeMismatch
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(iv))
		return buf, nil
	case UNSIGNED32, DWORD, BITARR32:
		uv, ok := val.Uint()
		if !ok {
			return nil, ErrTypeMismatch
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(uv))
		return buf, nil
	case INTEGER40, INTEGER48, INTEGER56:
		iv, ok := val.Int()
		if !ok {
			return nil, ErrTypeMismatch
		}
		size, _ := FixedSize(t)
		return putSigned(iv, size), nil
	case UNSIGNED40, UNSIGNED48, UNSIGNED56:
		uv, ok := val.Uint()
		if !ok {
			return nil, ErrTypeMismatch
		}
		size, _ := FixedSize(t)
		return putUnsigned(uv, size), nil
	case INTEGER64:
		iv, ok := val.Int()
		if !ok {
			return nil, ErrTypeMismatch
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, uint64(iv))
		return buf, nil
	case UNSIGNED64:
		uv, ok := val.Uint()
		if !ok {
			return nil, ErrTypeMismatch
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, uv)
		return buf, nil
	case REAL32:
		fv, ok := val.Float32()
		if !ok {
			return nil, ErrTypeMismatch
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, math.Float32bits(fv))
		return buf, nil
	case REAL64:
		fv, ok := val.Float64()
		if !ok {
			return nil, ErrTypeMismatch
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, math.Float64bits(fv))
		return buf, nil
	case VISIBLE_STRING, OCTET_STRING, UNICODE_STRING:
		sv, ok := val.String()
		if !ok {
			return nil, ErrTypeMismatch
		}
		return append([]byte(sv), 0), nil
	case GUID, PDO_MAPPING, IDENTITY, COMMAND_PAR, SYNC_PAR,
		PDO_PARAMETER, ENUM, SM_SYNCHRONIZATION, RECORD, BACKUP_PARAMETER, MODULAR_DEVICE_PARAMETER,
		ARRAY_OF_INT, ARRAY_OF_SINT, ARRAY_OF_DINT, ARRAY_OF_UDINT,
		ERROR_SETTING, DIAGNOSIS_HISTORY, EXTERNAL_SYNC_STATUS, EXTERNAL_SYNC_SETTINGS,
		DEFTYPE_FSOEFRAME, DEFTYPE_FSOECOMMPAR, TIME_OF_DAY, TIME_DIFFERENCE:
		bv, ok := val.Bytes()
		if !ok {
			return nil, ErrTypeMismatch
		}
		return append([]byte(nil), bv...), nil
	default:
		if IsUserType(t) {
			bv, ok := val.Bytes()
			if !ok {
				return nil, ErrTypeMismatch
			}
			return append([]byte(nil), bv...), nil
		}
		return nil, ErrUnsupportedType
	}
}

package valuecodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUnsigned16(t *testing.T) {
	v, err := Decode([]byte{0x34, 0x12}, UNSIGNED16)
	require.NoError(t, err)
	got, ok := v.Uint()
	require.True(t, ok)
	assert.Equal(t, uint64(0x1234), got)
}

func TestDecodeInteger16Negative(t *testing.T) {
	v, err := Decode([]byte{0xFF, 0xFF}, INTEGER16)
	require.NoError(t, err)
	got, ok := v.Int()
	require.True(t, ok)
	assert.Equal(t, int64(-1), got)
}

func TestDecodeInteger24SignExtends(t *testing.T) {
	v, err := Decode([]byte{0xFF, 0xFF, 0xFF}, INTEGER24)
	require.NoError(t, err)
	got, ok := v.Int()
	require.True(t, ok)
	assert.Equal(t, int64(-1), got)
}

func TestDecodeUnsigned24DoesNotSignExtend(t *testing.T) {
	v, err := Decode([]byte{0x00, 0x00, 0x80}, UNSIGNED24)
	require.NoError(t, err)
	got, ok := v.Uint()
	require.True(t, ok)
	assert.Equal(t, uint64(0x800000), got)
}

func TestDecodeReal32(t *testing.T) {
	v, err := Decode([]byte{0x00, 0x00, 0x80, 0x3F}, REAL32)
	require.NoError(t, err)
	got, ok := v.Float32()
	require.True(t, ok)
	assert.InDelta(t, float32(1.0), got, 1e-9)
}

func TestDecodeVisibleString(t *testing.T) {
	v, err := Decode([]byte("hello"), VISIBLE_STRING)
	require.NoError(t, err)
	got, ok := v.String()
	require.True(t, ok)
	assert.Equal(t, "hello", got)
}

func TestDecodeSizeMismatch(t *testing.T) {
	_, err := Decode([]byte{0x01}, UNSIGNED32)
	assert.ErrorIs(t, err, ErrDataShort)

	_, err = Decode([]byte{0x01, 0x02, 0x03, 0x04, 0x05}, UNSIGNED32)
	assert.ErrorIs(t, err, ErrDataLong)
}

func TestEncodeDecodeRoundTripInteger64(t *testing.T) {
	orig := IntValue(-123456789012345)
	buf, err := Encode(orig, INTEGER64)
	require.NoError(t, err)
	got, err := Decode(buf, INTEGER64)
	require.NoError(t, err)
	iv, ok := got.Int()
	require.True(t, ok)
	assert.Equal(t, int64(-123456789012345), iv)
}

func TestEncodeTypeMismatch(t *testing.T) {
	_, err := Encode(StringValue("nope"), UNSIGNED32)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestEncodeUnsupportedType(t *testing.T) {
	_, err := Encode(UintValue(1), DataType(0xFFFF))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestUserTypeRoundTrip(t *testing.T) {
	custom := DataType(0x0900)
	require.True(t, IsUserType(custom))
	buf, err := Encode(BytesValue([]byte{0xAA, 0xBB}), custom)
	require.NoError(t, err)
	v, err := Decode(buf, custom)
	require.NoError(t, err)
	got, ok := v.Bytes()
	require.True(t, ok)
	assert.Equal(t, []byte{0xAA, 0xBB}, got)
}

func TestUserTypeRangeBounds(t *testing.T) {
	assert.True(t, IsUserType(0x0800))
	assert.True(t, IsUserType(0x0FFF))
	assert.False(t, IsUserType(0x07FF))
	assert.False(t, IsUserType(0x1000))
}

func TestStructuredTagsDecodeAsOpaqueBytes(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03, 0x04}
	for _, dt := range []DataType{
		RECORD, PDO_PARAMETER, ENUM, SM_SYNCHRONIZATION, BACKUP_PARAMETER, MODULAR_DEVICE_PARAMETER,
		ARRAY_OF_INT, ARRAY_OF_SINT, ARRAY_OF_DINT, ARRAY_OF_UDINT,
		ERROR_SETTING, DIAGNOSIS_HISTORY, EXTERNAL_SYNC_STATUS, EXTERNAL_SYNC_SETTINGS,
		DEFTYPE_FSOEFRAME, DEFTYPE_FSOECOMMPAR, TIME_OF_DAY, TIME_DIFFERENCE,
	} {
		v, err := Decode(raw, dt)
		require.NoError(t, err, dt)
		got, ok := v.Bytes()
		require.True(t, ok, dt)
		assert.Equal(t, raw, got, dt)

		buf, err := Encode(v, dt)
		require.NoError(t, err, dt)
		assert.Equal(t, raw, buf, dt)
	}
}

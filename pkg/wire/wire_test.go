package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeSDORead(t *testing.T) {
	f := Frame{
		Type:    SDORead,
		SeqID:   0x1234,
		Status:  StatusOK,
		SQI:     0,
		Payload: []byte{0x18, 0x10, 0x02},
	}
	buf, err := Serialize(f)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x34, 0x12, 0x00, 0x00, 0x03, 0x00, 0x18, 0x10, 0x02}, buf)
}

func TestParseRoundTrip(t *testing.T) {
	orig := Frame{
		Type:    PDORxTxFrame,
		SeqID:   0xBEEF,
		Status:  StatusFirst,
		SQI:     SQIAck,
		Payload: []byte{0xDE, 0xAD, 0xBE, 0xEF},
	}
	buf, err := Serialize(orig)
	require.NoError(t, err)

	got, err := Parse(buf)
	require.NoError(t, err)
	assert.Equal(t, orig.Type, got.Type)
	assert.Equal(t, orig.SeqID, got.SeqID)
	assert.Equal(t, orig.Status, got.Status)
	assert.Equal(t, orig.SQI, got.SQI)
	assert.Equal(t, orig.Payload, got.Payload)
}

func TestParseEmptyPayload(t *testing.T) {
	buf := []byte{0x0F, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00}
	f, err := Parse(buf)
	require.NoError(t, err)
	assert.Equal(t, StateRead, f.Type)
	assert.Empty(t, f.Payload)
}

func TestParseShortBuffer(t *testing.T) {
	_, err := Parse([]byte{0x01, 0x02, 0x03})
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestParseSizeMismatch(t *testing.T) {
	buf := []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x05, 0x00, 0x01}
	_, err := Parse(buf)
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestSerializePayloadTooLarge(t *testing.T) {
	f := Frame{Type: FileWrite, Payload: make([]byte, MaxPayloadSize+1)}
	_, err := Serialize(f)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestStatusSegmentHelpers(t *testing.T) {
	assert.True(t, StatusOK.IsSegmentStart())
	assert.True(t, StatusOK.IsSegmentEnd())
	assert.True(t, StatusFirst.IsSegmentStart())
	assert.False(t, StatusFirst.IsSegmentEnd())
	assert.True(t, StatusLast.IsSegmentEnd())
	assert.False(t, StatusMiddle.IsSegmentStart())
	assert.False(t, StatusMiddle.IsSegmentEnd())
}

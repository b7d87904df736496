package od

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapticon/somanet-ethclient/pkg/valuecodec"
)

func TestStorePutAndFind(t *testing.T) {
	s := NewStore()
	p := &Parameter{
		Key:      Key{Index: 0x1018, SubIndex: 0x02},
		Name:     "ProductCode",
		DataType: valuecodec.UNSIGNED32,
	}
	require.NoError(t, p.SetValue(valuecodec.UintValue(42)))
	s.Put(p)

	got, err := s.Find(0x1018, 0x02)
	require.NoError(t, err)
	v, err := got.Value()
	require.NoError(t, err)
	uv, ok := v.Uint()
	require.True(t, ok)
	assert.Equal(t, uint64(42), uv)
}

func TestStoreFindMissing(t *testing.T) {
	s := NewStore()
	_, err := s.Find(0x2000, 0x00)
	assert.ErrorIs(t, err, ErrParameterUnknown)
}

func TestStoreAllSortedOrder(t *testing.T) {
	s := NewStore()
	s.Put(&Parameter{Key: Key{Index: 0x1018, SubIndex: 0x02}, DataType: valuecodec.UNSIGNED32})
	s.Put(&Parameter{Key: Key{Index: 0x1000, SubIndex: 0x00}, DataType: valuecodec.UNSIGNED32})
	s.Put(&Parameter{Key: Key{Index: 0x1018, SubIndex: 0x01}, DataType: valuecodec.UNSIGNED32})

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, Key{Index: 0x1000, SubIndex: 0x00}, all[0].Key)
	assert.Equal(t, Key{Index: 0x1018, SubIndex: 0x01}, all[1].Key)
	assert.Equal(t, Key{Index: 0x1018, SubIndex: 0x02}, all[2].Key)
}

func TestStoreClear(t *testing.T) {
	s := NewStore()
	s.Put(&Parameter{Key: Key{Index: 0x1000}, DataType: valuecodec.UNSIGNED8})
	assert.Equal(t, 1, s.Len())
	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestFlagsReadableWritable(t *testing.T) {
	assert.True(t, FlagPORead.Readable())
	assert.False(t, FlagPORead.Writable())
	assert.True(t, (FlagPORead | FlagPOWrite).Readable())
	assert.True(t, (FlagPORead | FlagPOWrite).Writable())
	assert.False(t, Flags(0).Readable())
	assert.False(t, Flags(0).Writable())
}

func TestFlagsBitPositionsMatchSpec(t *testing.T) {
	assert.Equal(t, Flags(0x0001), FlagPORead)
	assert.Equal(t, Flags(0x0002), FlagSafeRead)
	assert.Equal(t, Flags(0x0004), FlagOpRead)
	assert.Equal(t, Flags(0x0008), FlagPOWrite)
	assert.Equal(t, Flags(0x0010), FlagSafeWrite)
	assert.Equal(t, Flags(0x0020), FlagOpWrite)
	assert.Equal(t, Flags(0x0040), FlagRxPDOMap)
	assert.Equal(t, Flags(0x0080), FlagTxPDOMap)
	assert.Equal(t, Flags(0x0100), FlagBackup)
	assert.Equal(t, Flags(0x0200), FlagStartup)
}

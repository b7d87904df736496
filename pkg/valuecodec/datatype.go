// Package valuecodec implements the ETG.1020 object-dictionary data-type
// catalog and the byte-level codec between wire values and Go values.
package valuecodec

import "fmt"

// DataType is an ETG.1020 object data-type tag.
type DataType uint16

const (
	BOOLEAN         DataType = 0x0001
	INTEGER8        DataType = 0x0002
	INTEGER16       DataType = 0x0003
	INTEGER32       DataType = 0x0004
	UNSIGNED8       DataType = 0x0005
	UNSIGNED16      DataType = 0x0006
	UNSIGNED32      DataType = 0x0007
	REAL32          DataType = 0x0008
	VISIBLE_STRING  DataType = 0x0009
	OCTET_STRING    DataType = 0x000A
	UNICODE_STRING  DataType = 0x000B
	INTEGER24       DataType = 0x0010
	REAL64          DataType = 0x0011
	INTEGER40       DataType = 0x0012
	INTEGER48       DataType = 0x0013
	INTEGER56       DataType = 0x0014
	INTEGER64       DataType = 0x0015
	UNSIGNED24      DataType = 0x0016
	UNSIGNED40      DataType = 0x0018
	UNSIGNED48      DataType = 0x0019
	UNSIGNED56      DataType = 0x001A
	UNSIGNED64      DataType = 0x001B
	GUID            DataType = 0x001D

	TIME_OF_DAY     DataType = 0x000C
	TIME_DIFFERENCE DataType = 0x000D

	BIT1  DataType = 0x0030
	BIT2  DataType = 0x0031
	BIT3  DataType = 0x0032
	BIT4  DataType = 0x0033
	BIT5  DataType = 0x0034
	BIT6  DataType = 0x0035
	BIT7  DataType = 0x0036
	BIT8  DataType = 0x0037
	BIT9  DataType = 0x0038
	BIT10 DataType = 0x0039
	BIT11 DataType = 0x003A
	BIT12 DataType = 0x003B
	BIT13 DataType = 0x003C
	BIT14 DataType = 0x003D
	BIT15 DataType = 0x003E
	BIT16 DataType = 0x003F

	BYTE     DataType = 0x001E
	WORD     DataType = 0x001F
	DWORD    DataType = 0x001C
	BITARR8  DataType = 0x002D
	BITARR16 DataType = 0x002E
	BITARR32 DataType = 0x002F

	PDO_MAPPING DataType = 0x0021
	IDENTITY    DataType = 0x0023
	COMMAND_PAR DataType = 0x0025
	SYNC_PAR    DataType = 0x0026

	PDO_PARAMETER            DataType = 0x0027
	ENUM                     DataType = 0x0028
	SM_SYNCHRONIZATION       DataType = 0x0029
	RECORD                   DataType = 0x002A
	BACKUP_PARAMETER         DataType = 0x002B
	MODULAR_DEVICE_PARAMETER DataType = 0x002C

	ARRAY_OF_INT   DataType = 0x0260
	ARRAY_OF_SINT  DataType = 0x0261
	ARRAY_OF_DINT  DataType = 0x0262
	ARRAY_OF_UDINT DataType = 0x0263

	ERROR_SETTING          DataType = 0x0281
	DIAGNOSIS_HISTORY      DataType = 0x0282
	EXTERNAL_SYNC_STATUS   DataType = 0x0283
	EXTERNAL_SYNC_SETTINGS DataType = 0x0284
	DEFTYPE_FSOEFRAME      DataType = 0x0285
	DEFTYPE_FSOECOMMPAR    DataType = 0x0286
)

// IsUserType reports whether t falls in the manufacturer-defined range.
func IsUserType(t DataType) bool { return t >= 0x0800 && t <= 0x0FFF }

// FixedSize returns the byte length of a fixed-width scalar type and true.
// Variable-length types (strings, structured/array tags) return (0, false).
func FixedSize(t DataType) (int, bool) {
	switch t {
	case BOOLEAN, INTEGER8, UNSIGNED8, BIT1, BIT2, BIT3, BIT4, BIT5, BIT6, BIT7, BIT8,
		BITARR8, BYTE:
		return 1, true
	case INTEGER16, UNSIGNED16, BIT9, BIT10, BIT11, BIT12, BIT13, BIT14, BIT15, BIT16,
		BITARR16, WORD:
		return 2, true
	case INTEGER24, UNSIGNED24:
		return 3, true
	case INTEGER32, UNSIGNED32, REAL32, BITARR32, DWORD:
		return 4, true
	case INTEGER40, UNSIGNED40:
		return 5, true
	case INTEGER48, UNSIGNED48:
		return 6, true
	case INTEGER56, UNSIGNED56:
		return 7, true
	case INTEGER64, UNSIGNED64, REAL64:
		return 8, true
	case GUID:
		return 16, true
	default:
		return 0, false
	}
}

func (t DataType) String() string {
	if name, ok := dataTypeNames[t]; ok {
		return name
	}
	if IsUserType(t) {
		return fmt.Sprintf("USER_TYPE(0x%04X)", uint16(t))
	}
	return fmt.Sprintf("DataType(0x%04X)", uint16(t))
}

// ParseDataType looks up a DataType by its canonical name (as returned
// by String for every recognized tag), for parsing CLI flags and
// config files that name a type rather than its numeric tag.
func ParseDataType(name string) (DataType, bool) {
	dt, ok := dataTypeByName[name]
	return dt, ok
}

var dataTypeByName = func() map[string]DataType {
	m := make(map[string]DataType, len(dataTypeNames))
	for dt, n := range dataTypeNames {
		m[n] = dt
	}
	return m
}()

var dataTypeNames = map[DataType]string{
	BOOLEAN: "BOOLEAN", INTEGER8: "INTEGER8", INTEGER16: "INTEGER16", INTEGER32: "INTEGER32",
	UNSIGNED8: "UNSIGNED8", UNSIGNED16: "UNSIGNED16", UNSIGNED32: "UNSIGNED32",
	REAL32: "REAL32", VISIBLE_STRING: "VISIBLE_STRING", OCTET_STRING: "OCTET_STRING",
	UNICODE_STRING: "UNICODE_STRING", INTEGER24: "INTEGER24", REAL64: "REAL64",
	INTEGER40: "INTEGER40", INTEGER48: "INTEGER48", INTEGER56: "INTEGER56", INTEGER64: "INTEGER64",
	UNSIGNED24: "UNSIGNED24", UNSIGNED40: "UNSIGNED40", UNSIGNED48: "UNSIGNED48",
	UNSIGNED56: "UNSIGNED56", UNSIGNED64: "UNSIGNED64", GUID: "GUID",
	BIT1: "BIT1", BIT2: "BIT2", BIT3: "BIT3", BIT4: "BIT4", BIT5: "BIT5", BIT6: "BIT6",
	BIT7: "BIT7", BIT8: "BIT8", BIT9: "BIT9", BIT10: "BIT10", BIT11: "BIT11", BIT12: "BIT12",
	BIT13: "BIT13", BIT14: "BIT14", BIT15: "BIT15", BIT16: "BIT16",
	BYTE: "BYTE", WORD: "WORD", DWORD: "DWORD",
	BITARR8: "BITARR8", BITARR16: "BITARR16", BITARR32: "BITARR32",
	PDO_MAPPING: "PDO_MAPPING", IDENTITY: "IDENTITY", COMMAND_PAR: "COMMAND_PAR", SYNC_PAR: "SYNC_PAR",
	PDO_PARAMETER: "PDO_PARAMETER", ENUM: "ENUM", SM_SYNCHRONIZATION: "SM_SYNCHRONIZATION",
	RECORD: "RECORD", BACKUP_PARAMETER: "BACKUP_PARAMETER", MODULAR_DEVICE_PARAMETER: "MODULAR_DEVICE_PARAMETER",
	ARRAY_OF_INT: "ARRAY_OF_INT", ARRAY_OF_SINT: "ARRAY_OF_SINT", ARRAY_OF_DINT: "ARRAY_OF_DINT", ARRAY_OF_UDINT: "ARRAY_OF_UDINT",
	ERROR_SETTING: "ERROR_SETTING", DIAGNOSIS_HISTORY: "DIAGNOSIS_HISTORY",
	EXTERNAL_SYNC_STATUS: "EXTERNAL_SYNC_STATUS", EXTERNAL_SYNC_SETTINGS: "EXTERNAL_SYNC_SETTINGS",
	DEFTYPE_FSOEFRAME: "DEFTYPE_FSOEFRAME", DEFTYPE_FSOECOMMPAR: "DEFTYPE_FSOECOMMPAR",
	TIME_OF_DAY: "TIME_OF_DAY", TIME_DIFFERENCE: "TIME_DIFFERENCE",
}

package types

import (
	"fmt"
	"strings"
)

type DataType int

const (
	UnknownType DataType = iota
	BooleanType
	StringType
	BytesType
	FloatType
	IntegerType
)

var dataTypeNames = [...]string{
	UnknownType: "OBJECT",
	BooleanType: "BOOLEAN",
	StringType:  "STRING",
	BytesType:   "BYTES",
	FloatType:   "FLOAT",
	IntegerType: "INTEGER",
}

func (dt DataType) String() string {
	if dt < 0 || int(dt) >= len(dataTypeNames) {
		return fmt.Sprintf("DataType(%d)", int(dt))
	}
	return dataTypeNames[dt]
}

// LookupDataType returns the data type named by s; the names are case insensitive and
// include the common aliases used in formulas and statements.
func LookupDataType(s string) (DataType, bool) {
	switch strings.ToLower(s) {
	case "object", "any":
		return UnknownType, true
	case "bool", "boolean":
		return BooleanType, true
	case "string", "text", "varchar":
		return StringType, true
	case "bytes", "binary":
		return BytesType, true
	case "float", "double", "real":
		return FloatType, true
	case "int", "integer", "bigint":
		return IntegerType, true
	}
	return UnknownType, false
}

// TypeOf returns the data type of v; nil is UnknownType.
func TypeOf(v Value) DataType {
	switch v.(type) {
	case BoolValue:
		return BooleanType
	case StringValue:
		return StringType
	case BytesValue:
		return BytesType
	case Float64Value:
		return FloatType
	case Int64Value:
		return IntegerType
	}
	return UnknownType
}

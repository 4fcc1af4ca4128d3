package schema

// Kind enumerates the closed variant set of row types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindI64
	KindF64
	KindString
	KindNull
	KindEmptyTuple
	KindEmptyDict
	KindEmptyList
	KindTuple
	KindList
	KindDict
	KindGenericDict
	KindOption
	KindPyObject
)

var kindNames = [...]string{
	KindInvalid:     "invalid",
	KindBool:        "bool",
	KindI64:         "i64",
	KindF64:         "f64",
	KindString:      "str",
	KindNull:        "null",
	KindEmptyTuple:  "()",
	KindEmptyDict:   "{}",
	KindEmptyList:   "[]",
	KindTuple:       "tuple",
	KindList:        "list",
	KindDict:        "dict",
	KindGenericDict: "genericdict",
	KindOption:      "option",
	KindPyObject:    "pyobj",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// IsPrimitive reports whether the kind is a fixed-width scalar.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindBool, KindI64, KindF64:
		return true
	default:
		return false
	}
}

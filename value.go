package kvs

import (
	"encoding/json"
	"fmt"
)

// Tag is the closed discriminant of the Value union.
type Tag int

const (
	TagNull Tag = iota
	TagBool
	TagI32
	TagU32
	TagI64
	TagU64
	TagF64
	TagString
	TagArray
	TagObject
)

var tagNames = map[Tag]string{
	TagNull:   "null",
	TagBool:   "bool",
	TagI32:    "i32",
	TagU32:    "u32",
	TagI64:    "i64",
	TagU64:    "u64",
	TagF64:    "f64",
	TagString: "string",
	TagArray:  "array",
	TagObject: "object",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "unknown"
}

// Value is a tagged union over every type the store can hold. The zero
// Value is Null. Containers own their children exclusively: constructors
// and mutators always deep-copy, so no two Values ever alias the same
// nested Array/Object.
type Value struct {
	tag Tag
	b   bool
	i32 int32
	u32 uint32
	i64 int64
	u64 uint64
	f64 float64
	str string
	arr []Value
	obj map[string]Value
}

func Null() Value              { return Value{tag: TagNull} }
func Bool(v bool) Value        { return Value{tag: TagBool, b: v} }
func Int32(v int32) Value      { return Value{tag: TagI32, i32: v} }
func UInt32(v uint32) Value    { return Value{tag: TagU32, u32: v} }
func Int64(v int64) Value      { return Value{tag: TagI64, i64: v} }
func UInt64(v uint64) Value    { return Value{tag: TagU64, u64: v} }
func Float64(v float64) Value  { return Value{tag: TagF64, f64: v} }
func Str(v string) Value       { return Value{tag: TagString, str: v} }

// NewArray builds an Array Value, deep-cloning each element so the
// caller's slice can be mutated afterward without affecting the stored
// Value.
func NewArray(items []Value) Value {
	cloned := make([]Value, len(items))
	for i, v := range items {
		cloned[i] = v.Clone()
	}
	return Value{tag: TagArray, arr: cloned}
}

// NewObject builds an Object Value, deep-cloning each entry.
func NewObject(fields map[string]Value) Value {
	cloned := make(map[string]Value, len(fields))
	for k, v := range fields {
		cloned[k] = v.Clone()
	}
	return Value{tag: TagObject, obj: cloned}
}

// Tag reports the value's discriminant.
func (v Value) Tag() Tag { return v.tag }

func (v Value) AsBool() (bool, error) {
	if v.tag != TagBool {
		return false, TypeMismatch
	}
	return v.b, nil
}

func (v Value) AsInt32() (int32, error) {
	if v.tag != TagI32 {
		return 0, TypeMismatch
	}
	return v.i32, nil
}

func (v Value) AsUInt32() (uint32, error) {
	if v.tag != TagU32 {
		return 0, TypeMismatch
	}
	return v.u32, nil
}

func (v Value) AsInt64() (int64, error) {
	if v.tag != TagI64 {
		return 0, TypeMismatch
	}
	return v.i64, nil
}

func (v Value) AsUInt64() (uint64, error) {
	if v.tag != TagU64 {
		return 0, TypeMismatch
	}
	return v.u64, nil
}

func (v Value) AsFloat64() (float64, error) {
	if v.tag != TagF64 {
		return 0, TypeMismatch
	}
	return v.f64, nil
}

func (v Value) AsString() (string, error) {
	if v.tag != TagString {
		return "", TypeMismatch
	}
	return v.str, nil
}

// AsArray returns a deep copy of the stored elements.
func (v Value) AsArray() ([]Value, error) {
	if v.tag != TagArray {
		return nil, TypeMismatch
	}
	out := make([]Value, len(v.arr))
	for i, e := range v.arr {
		out[i] = e.Clone()
	}
	return out, nil
}

// AsObject returns a deep copy of the stored fields.
func (v Value) AsObject() (map[string]Value, error) {
	if v.tag != TagObject {
		return nil, TypeMismatch
	}
	out := make(map[string]Value, len(v.obj))
	for k, e := range v.obj {
		out[k] = e.Clone()
	}
	return out, nil
}

// Clone returns a deep copy. Scalars are copied by value already; Array
// and Object recurse into their children.
func (v Value) Clone() Value {
	switch v.tag {
	case TagArray:
		out := make([]Value, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Clone()
		}
		return Value{tag: TagArray, arr: out}
	case TagObject:
		out := make(map[string]Value, len(v.obj))
		for k, e := range v.obj {
			out[k] = e.Clone()
		}
		return Value{tag: TagObject, obj: out}
	default:
		return v
	}
}

// Equal is structural, tag-strict equality: I32(1) does not equal U32(1)
// or F64(1.0).
func (v Value) Equal(other Value) bool {
	if v.tag != other.tag {
		return false
	}
	switch v.tag {
	case TagNull:
		return true
	case TagBool:
		return v.b == other.b
	case TagI32:
		return v.i32 == other.i32
	case TagU32:
		return v.u32 == other.u32
	case TagI64:
		return v.i64 == other.i64
	case TagU64:
		return v.u64 == other.u64
	case TagF64:
		return v.f64 == other.f64
	case TagString:
		return v.str == other.str
	case TagArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case TagObject:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for k, e := range v.obj {
			oe, ok := other.obj[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// envelope is the on-disk wire form: {"t":"<tag>","v":<payload>}, applied
// uniformly to every Value including top-level scalars. It is the only
// form that losslessly round-trips I32 vs U32 vs I64 vs U64 vs F64
// through plain JSON numbers, which carry no type of their own.
type envelope struct {
	T string          `json:"t"`
	V json.RawMessage `json:"v"`
}

// MarshalJSON encodes the value as its tagged envelope.
func (v Value) MarshalJSON() ([]byte, error) {
	name, ok := tagNames[v.tag]
	if !ok {
		return nil, fmt.Errorf("kvs: value has unknown tag %d", v.tag)
	}
	var payload json.RawMessage
	var err error
	switch v.tag {
	case TagNull:
		payload = json.RawMessage("null")
	case TagBool:
		payload, err = json.Marshal(v.b)
	case TagI32:
		payload, err = json.Marshal(v.i32)
	case TagU32:
		payload, err = json.Marshal(v.u32)
	case TagI64:
		payload, err = json.Marshal(v.i64)
	case TagU64:
		payload, err = json.Marshal(v.u64)
	case TagF64:
		payload, err = json.Marshal(v.f64)
	case TagString:
		payload, err = json.Marshal(v.str)
	case TagArray:
		payload, err = json.Marshal(v.arr)
	case TagObject:
		payload, err = json.Marshal(v.obj)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{T: name, V: payload})
}

var tagByName = func() map[string]Tag {
	m := make(map[string]Tag, len(tagNames))
	for tag, name := range tagNames {
		m[name] = tag
	}
	return m
}()

// UnmarshalJSON decodes a tagged envelope into the receiver.
func (v *Value) UnmarshalJSON(data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return JsonParserError
	}
	tag, ok := tagByName[env.T]
	if !ok {
		return JsonParserError
	}
	switch tag {
	case TagNull:
		*v = Null()
	case TagBool:
		var b bool
		if err := json.Unmarshal(env.V, &b); err != nil {
			return JsonParserError
		}
		*v = Bool(b)
	case TagI32:
		var n int32
		if err := json.Unmarshal(env.V, &n); err != nil {
			return JsonParserError
		}
		*v = Int32(n)
	case TagU32:
		var n uint32
		if err := json.Unmarshal(env.V, &n); err != nil {
			return JsonParserError
		}
		*v = UInt32(n)
	case TagI64:
		var n int64
		if err := json.Unmarshal(env.V, &n); err != nil {
			return JsonParserError
		}
		*v = Int64(n)
	case TagU64:
		var n uint64
		if err := json.Unmarshal(env.V, &n); err != nil {
			return JsonParserError
		}
		*v = UInt64(n)
	case TagF64:
		var f float64
		if err := json.Unmarshal(env.V, &f); err != nil {
			return JsonParserError
		}
		*v = Float64(f)
	case TagString:
		var s string
		if err := json.Unmarshal(env.V, &s); err != nil {
			return JsonParserError
		}
		*v = Str(s)
	case TagArray:
		var items []Value
		if err := json.Unmarshal(env.V, &items); err != nil {
			return JsonParserError
		}
		*v = Value{tag: TagArray, arr: items}
	case TagObject:
		var fields map[string]Value
		if err := json.Unmarshal(env.V, &fields); err != nil {
			return JsonParserError
		}
		*v = Value{tag: TagObject, obj: fields}
	default:
		return JsonParserError
	}
	return nil
}

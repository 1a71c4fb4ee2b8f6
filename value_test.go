package kvs

import (
	"encoding/json"
	"testing"
)

func assertEqualValue(t *testing.T, got, want Value) {
	t.Helper()
	if !got.Equal(want) {
		t.Fatalf("value mismatch: got %#v, want %#v", got, want)
	}
}

func TestValueRoundTripPerTag(t *testing.T) {
	cases := []Value{
		Null(),
		Bool(true),
		Bool(false),
		Int32(-7),
		UInt32(7),
		Int64(-1 << 40),
		UInt64(1 << 40),
		Float64(3.5),
		Str("alice"),
		NewArray([]Value{Int32(1), Str("two"), Bool(true)}),
		NewObject(map[string]Value{"a": Int32(1), "b": Str("x")}),
	}

	for _, want := range cases {
		data, err := json.Marshal(want)
		if err != nil {
			t.Fatalf("marshal %v: %v", want.Tag(), err)
		}
		var got Value
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal %v: %v", want.Tag(), err)
		}
		assertEqualValue(t, got, want)
	}
}

func TestValueEqualityIsTagStrict(t *testing.T) {
	if Int32(1).Equal(UInt32(1)) {
		t.Fatal("I32(1) must not equal U32(1)")
	}
	if Int32(1).Equal(Float64(1.0)) {
		t.Fatal("I32(1) must not equal F64(1.0)")
	}
	if !Int32(1).Equal(Int32(1)) {
		t.Fatal("I32(1) must equal I32(1)")
	}
}

func TestValueArrayPreservesOrder(t *testing.T) {
	v := NewArray([]Value{Int32(3), Int32(1), Int32(2)})
	items, err := v.AsArray()
	if err != nil {
		t.Fatalf("AsArray: %v", err)
	}
	want := []int32{3, 1, 2}
	for i, item := range items {
		n, err := item.AsInt32()
		if err != nil || n != want[i] {
			t.Fatalf("index %d: got %v (%v), want %d", i, n, err, want[i])
		}
	}
}

func TestValueCloneIsDeep(t *testing.T) {
	original := NewArray([]Value{Str("a")})
	cloned := original.Clone()

	original.arr[0] = Str("mutated")

	clonedItems, _ := cloned.AsArray()
	got, _ := clonedItems[0].AsString()
	if got != "a" {
		t.Fatalf("clone observed mutation of the original's elements: got %q", got)
	}
}

func TestValueAccessorWrongTagIsTypeMismatch(t *testing.T) {
	_, err := Str("x").AsInt32()
	if err != TypeMismatch {
		t.Fatalf("got %v, want TypeMismatch", err)
	}
}

func TestValueUnicodeKeysRoundTrip(t *testing.T) {
	obj := NewObject(map[string]Value{
		"emoji ✅": Null(),
		"greek η": Null(),
	})
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Value
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	fields, err := got.AsObject()
	if err != nil {
		t.Fatalf("AsObject: %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(fields))
	}
}

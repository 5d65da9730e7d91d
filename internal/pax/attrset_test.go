package pax

import (
	"bytes"
	"reflect"
	"testing"
)

func TestAttributeSetRoundTrip(t *testing.T) {
	set := NewAttributeSet(TypeBattery, TypeHaptics) // tags 3 and 40

	encoded, err := Encode(StatusUpdateRequest{Attributes: set})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	got := decoded.(StatusUpdateRequest).Attributes
	want := []MessageType{TypeBattery, TypeHaptics}
	if !reflect.DeepEqual(got.Types(), want) {
		t.Errorf("Types() = %v, want %v", got.Types(), want)
	}
}

// Tags above 63 cannot be represented in the 64-bit bitmask and are
// silently excluded. This is a protocol limit: StatusUpdate (254) itself
// can never appear in an attribute set.
func TestAttributeSetDropsHighTags(t *testing.T) {
	set := NewAttributeSet(TypeBattery, TypeStatusUpdate)

	if set.Has(TypeStatusUpdate) {
		t.Error("Has(TypeStatusUpdate) = true, want silently excluded")
	}
	if !set.Has(TypeBattery) {
		t.Error("Has(TypeBattery) = false, want true")
	}
	if set.Len() != 1 {
		t.Errorf("Len() = %d, want 1", set.Len())
	}
}

func TestStatusUpdateRequestWireFormat(t *testing.T) {
	// Battery (3) and LockStatus (6) set bits 3 and 6: 0x48.
	set := NewAttributeSet(TypeBattery, TypeLockStatus)

	encoded, err := Encode(StatusUpdateRequest{Attributes: set})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := []byte{0xFE, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x48}
	if !bytes.Equal(encoded, want) {
		t.Errorf("Encode() = %x, want %x", encoded, want)
	}
}

func TestAttributeSetEmpty(t *testing.T) {
	var set AttributeSet
	if set.Len() != 0 {
		t.Errorf("Len() = %d, want 0", set.Len())
	}
	if set.Types() != nil {
		t.Errorf("Types() = %v, want nil", set.Types())
	}
}

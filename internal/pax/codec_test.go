package pax

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{"actual temp", ActualTemperature{Celsius: 187.5}},
		{"actual temp zero", ActualTemperature{Celsius: 0.0}},
		{"set point", HeaterSetPoint{Celsius: 99.9}},
		{"set point max", HeaterSetPoint{Celsius: 6553.5}},
		{"current target", CurrentTargetTemperature{Celsius: 215.0}},
		{"battery", Battery{Percent: 87}},
		{"battery empty", Battery{Percent: 0}},
		{"battery full", Battery{Percent: 100}},
		{"usage", Usage{Seconds: 123456}},
		{"usage limit", UsageLimit{Seconds: 600}},
		{"locked", LockStatus{Locked: true}},
		{"unlocked", LockStatus{Locked: false}},
		{"charging", ChargeStatus{Charging: true}},
		{"charge complete", ChargeStatus{Charging: true, Complete: true}},
		{"not charging", ChargeStatus{}},
		{"pod inserted", PodInserted{Inserted: true}},
		{"time", Time{Seconds: 1700000000}},
		{"display name", DisplayName{Name: "My Pax"}},
		{"heater ranges", HeaterRanges{Min: 175.0, Max: 215.0}},
		{"dynamic mode standard", DynamicMode{Mode: ModeStandard}},
		{"dynamic mode flavor", DynamicMode{Mode: ModeFlavor}},
		{"color theme", ColorTheme{Theme: 4}},
		{"brightness", Brightness{Level: 200}},
		{"haptic mode", HapticMode{Mode: 2}},
		{"supported attributes", SupportedAttributes{Attributes: NewAttributeSet(TypeBattery, TypeLockStatus, TypeHaptics)}},
		{"heating params", HeatingParams{Data: []byte{0x01, 0x02, 0x03}}},
		{"ui mode", UIMode{Mode: 1}},
		{"shell color", ShellColor{Color: 3}},
		{"low soc mode", LowSoCMode{Value: 1}},
		{"heating state", HeatingState{State: 2}},
		{"haptics", Haptics{Pattern: 5}},
		{"status update request", StatusUpdateRequest{Attributes: NewAttributeSet(TypeActualTemperature, TypeChargeStatus)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := Encode(tt.msg)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if encoded[0] != byte(tt.msg.MessageType()) {
				t.Errorf("tag byte = 0x%02x, want 0x%02x", encoded[0], byte(tt.msg.MessageType()))
			}

			decoded, err := Decode(encoded)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(decoded, tt.msg) {
				t.Errorf("Decode(Encode(m)) = %#v, want %#v", decoded, tt.msg)
			}
		})
	}
}

func TestTemperatureEncoding(t *testing.T) {
	// round(temp*10) as big-endian uint16 after the tag
	encoded, err := Encode(HeaterSetPoint{Celsius: 187.5})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := []byte{0x02, 0x07, 0x53} // 1875 = 0x0753
	if !bytes.Equal(encoded, want) {
		t.Errorf("Encode() = %x, want %x", encoded, want)
	}
}

func TestTemperatureOutOfRange(t *testing.T) {
	if _, err := Encode(HeaterSetPoint{Celsius: -1.0}); err == nil {
		t.Error("Encode() should reject negative temperature (unsigned wire field)")
	}
	if _, err := Encode(HeaterSetPoint{Celsius: 7000.0}); err == nil {
		t.Error("Encode() should reject temperature above wire range")
	}
}

func TestDecodeToleratesZeroPadding(t *testing.T) {
	// Decrypted plaintexts carry the zero padding added to reach one AES
	// block; decoders must ignore bytes past their payload.
	padded := make([]byte, 16)
	padded[0] = byte(TypeLockStatus)
	padded[1] = 0x01

	msg, err := Decode(padded)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	lock, ok := msg.(LockStatus)
	if !ok {
		t.Fatalf("Decode() = %T, want LockStatus", msg)
	}
	if !lock.Locked {
		t.Error("Locked = false, want true")
	}
}

func TestDecodeDisplayNameStripsPadding(t *testing.T) {
	padded := make([]byte, 16)
	padded[0] = byte(TypeDisplayName)
	copy(padded[1:], "Pax")

	msg, err := Decode(padded)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	name := msg.(DisplayName)
	if name.Name != "Pax" {
		t.Errorf("Name = %q, want %q", name.Name, "Pax")
	}
}

func TestDecodeUnknownMessageType(t *testing.T) {
	_, err := Decode([]byte{0x63, 0x00})
	if !errors.Is(err, ErrUnknownMessageType) {
		t.Errorf("Decode() error = %v, want ErrUnknownMessageType", err)
	}
}

func TestDecodeUnknownDynamicMode(t *testing.T) {
	_, err := Decode([]byte{byte(TypeDynamicMode), 9})
	if !errors.Is(err, ErrUnknownEnumValue) {
		t.Errorf("Decode() error = %v, want ErrUnknownEnumValue", err)
	}
}

func TestDecodeTruncatedPayloads(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"temperature missing bytes", []byte{byte(TypeActualTemperature), 0x07}},
		{"battery missing byte", []byte{byte(TypeBattery)}},
		{"lock missing byte", []byte{byte(TypeLockStatus)}},
		{"bitmask truncated", []byte{byte(TypeSupportedAttributes), 0, 0, 0}},
		{"usage truncated", []byte{byte(TypeUsage), 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data); !errors.Is(err, ErrShortMessage) {
				t.Errorf("Decode(%x) error = %v, want ErrShortMessage", tt.data, err)
			}
		})
	}
}

func TestChargeStatusBits(t *testing.T) {
	msg, err := Decode([]byte{byte(TypeChargeStatus), 0x03})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	cs := msg.(ChargeStatus)
	if !cs.Charging || !cs.Complete {
		t.Errorf("ChargeStatus = %+v, want both bits set", cs)
	}

	msg, err = Decode([]byte{byte(TypeChargeStatus), 0x02})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	cs = msg.(ChargeStatus)
	if cs.Charging || !cs.Complete {
		t.Errorf("ChargeStatus = %+v, want only Complete", cs)
	}
}

func TestMessageTypeString(t *testing.T) {
	if got := TypeLockStatus.String(); got != "LockStatus" {
		t.Errorf("TypeLockStatus.String() = %q, want %q", got, "LockStatus")
	}
	if got := MessageType(200).String(); got != "Unknown" {
		t.Errorf("MessageType(200).String() = %q, want %q", got, "Unknown")
	}
}

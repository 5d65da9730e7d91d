package pax

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Multi-byte numeric fields are big-endian, matching the ERA/PAX3 firmware
// this client was verified against. Some firmware revisions are reported to
// use the opposite byte order; flipping the binary.BigEndian calls below is
// the only change needed.

var (
	// ErrUnknownMessageType is returned when the tag byte matches no known
	// message kind. Informational: newer firmware sends telemetry older
	// clients do not know, and that must never kill a session.
	ErrUnknownMessageType = errors.New("pax: unknown message type")
	// ErrUnknownEnumValue is returned when an enum payload byte has no
	// mapped value.
	ErrUnknownEnumValue = errors.New("pax: unknown enum value")
	// ErrShortMessage is returned when a payload is truncated for its tag.
	ErrShortMessage = errors.New("pax: message too short")
)

// maxTemperature is the largest °C value representable in the unsigned
// deci-degree wire field.
const maxTemperature = 6553.5

// Encode serializes a message into its plaintext wire form: the tag byte
// followed by the tag-specific payload.
func Encode(m Message) ([]byte, error) {
	tag := byte(m.MessageType())

	switch v := m.(type) {
	case ActualTemperature:
		return encodeTemperature(tag, v.Celsius)
	case HeaterSetPoint:
		return encodeTemperature(tag, v.Celsius)
	case CurrentTargetTemperature:
		return encodeTemperature(tag, v.Celsius)
	case Battery:
		return []byte{tag, v.Percent}, nil
	case Usage:
		return encodeUint32(tag, v.Seconds), nil
	case UsageLimit:
		return encodeUint32(tag, v.Seconds), nil
	case LockStatus:
		return []byte{tag, encodeBool(v.Locked)}, nil
	case ChargeStatus:
		var b byte
		if v.Charging {
			b |= 0x01
		}
		if v.Complete {
			b |= 0x02
		}
		return []byte{tag, b}, nil
	case PodInserted:
		return []byte{tag, encodeBool(v.Inserted)}, nil
	case Time:
		return encodeUint32(tag, v.Seconds), nil
	case DisplayName:
		return append([]byte{tag}, v.Name...), nil
	case HeaterRanges:
		buf := make([]byte, 5)
		buf[0] = tag
		min, err := deciDegrees(v.Min)
		if err != nil {
			return nil, err
		}
		max, err := deciDegrees(v.Max)
		if err != nil {
			return nil, err
		}
		binary.BigEndian.PutUint16(buf[1:3], min)
		binary.BigEndian.PutUint16(buf[3:5], max)
		return buf, nil
	case DynamicMode:
		return []byte{tag, byte(v.Mode)}, nil
	case ColorTheme:
		return []byte{tag, v.Theme}, nil
	case Brightness:
		return []byte{tag, v.Level}, nil
	case HapticMode:
		return []byte{tag, v.Mode}, nil
	case SupportedAttributes:
		return encodeBitmask(tag, v.Attributes), nil
	case HeatingParams:
		return append([]byte{tag}, v.Data...), nil
	case UIMode:
		return []byte{tag, v.Mode}, nil
	case ShellColor:
		return []byte{tag, v.Color}, nil
	case LowSoCMode:
		return []byte{tag, v.Value}, nil
	case HeatingState:
		return []byte{tag, v.State}, nil
	case Haptics:
		return []byte{tag, v.Pattern}, nil
	case StatusUpdateRequest:
		return encodeBitmask(tag, v.Attributes), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownMessageType, m)
	}
}

// Decode parses a decrypted plaintext into a typed message. The input may
// carry trailing zero padding from the 16-byte frame minimum; decoders
// ignore bytes beyond their payload.
func Decode(data []byte) (Message, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty plaintext", ErrShortMessage)
	}

	tag := MessageType(data[0])
	switch tag {
	case TypeActualTemperature:
		c, err := decodeTemperature(tag, data)
		return ActualTemperature{Celsius: c}, err
	case TypeHeaterSetPoint:
		c, err := decodeTemperature(tag, data)
		return HeaterSetPoint{Celsius: c}, err
	case TypeCurrentTargetTemperature:
		c, err := decodeTemperature(tag, data)
		return CurrentTargetTemperature{Celsius: c}, err
	case TypeBattery:
		if err := needPayload(tag, data, 1); err != nil {
			return nil, err
		}
		return Battery{Percent: data[1]}, nil
	case TypeUsage:
		v, err := decodeUint32(tag, data)
		return Usage{Seconds: v}, err
	case TypeUsageLimit:
		v, err := decodeUint32(tag, data)
		return UsageLimit{Seconds: v}, err
	case TypeLockStatus:
		if err := needPayload(tag, data, 1); err != nil {
			return nil, err
		}
		return LockStatus{Locked: data[1] != 0}, nil
	case TypeChargeStatus:
		if err := needPayload(tag, data, 1); err != nil {
			return nil, err
		}
		return ChargeStatus{
			Charging: data[1]&0x01 != 0,
			Complete: data[1]&0x02 != 0,
		}, nil
	case TypePodInserted:
		if err := needPayload(tag, data, 1); err != nil {
			return nil, err
		}
		return PodInserted{Inserted: data[1] != 0}, nil
	case TypeTime:
		v, err := decodeUint32(tag, data)
		return Time{Seconds: v}, err
	case TypeDisplayName:
		return DisplayName{Name: strings.TrimRight(string(data[1:]), "\x00")}, nil
	case TypeHeaterRanges:
		if err := needPayload(tag, data, 4); err != nil {
			return nil, err
		}
		return HeaterRanges{
			Min: float64(binary.BigEndian.Uint16(data[1:3])) / 10.0,
			Max: float64(binary.BigEndian.Uint16(data[3:5])) / 10.0,
		}, nil
	case TypeDynamicMode:
		if err := needPayload(tag, data, 1); err != nil {
			return nil, err
		}
		mode := OperatingMode(data[1])
		if mode > ModeFlavor {
			return nil, fmt.Errorf("%w: dynamic mode %d", ErrUnknownEnumValue, data[1])
		}
		return DynamicMode{Mode: mode}, nil
	case TypeColorTheme:
		if err := needPayload(tag, data, 1); err != nil {
			return nil, err
		}
		return ColorTheme{Theme: data[1]}, nil
	case TypeBrightness:
		if err := needPayload(tag, data, 1); err != nil {
			return nil, err
		}
		return Brightness{Level: data[1]}, nil
	case TypeHapticMode:
		if err := needPayload(tag, data, 1); err != nil {
			return nil, err
		}
		return HapticMode{Mode: data[1]}, nil
	case TypeSupportedAttributes:
		attrs, err := decodeBitmask(tag, data)
		return SupportedAttributes{Attributes: attrs}, err
	case TypeHeatingParams:
		params := make([]byte, len(data)-1)
		copy(params, data[1:])
		return HeatingParams{Data: params}, nil
	case TypeUIMode:
		if err := needPayload(tag, data, 1); err != nil {
			return nil, err
		}
		return UIMode{Mode: data[1]}, nil
	case TypeShellColor:
		if err := needPayload(tag, data, 1); err != nil {
			return nil, err
		}
		return ShellColor{Color: data[1]}, nil
	case TypeLowSoCMode:
		if err := needPayload(tag, data, 1); err != nil {
			return nil, err
		}
		return LowSoCMode{Value: data[1]}, nil
	case TypeHeatingState:
		if err := needPayload(tag, data, 1); err != nil {
			return nil, err
		}
		return HeatingState{State: data[1]}, nil
	case TypeHaptics:
		if err := needPayload(tag, data, 1); err != nil {
			return nil, err
		}
		return Haptics{Pattern: data[1]}, nil
	case TypeStatusUpdate:
		attrs, err := decodeBitmask(tag, data)
		return StatusUpdateRequest{Attributes: attrs}, err
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownMessageType, data[0])
	}
}

func needPayload(tag MessageType, data []byte, n int) error {
	if len(data) < n+1 {
		return fmt.Errorf("%w: %s needs %d payload bytes, got %d", ErrShortMessage, tag, n, len(data)-1)
	}
	return nil
}

func encodeBool(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func deciDegrees(celsius float64) (uint16, error) {
	if celsius < 0 || celsius > maxTemperature {
		return 0, fmt.Errorf("pax: temperature %.1f°C outside 0..%.1f°C wire range", celsius, maxTemperature)
	}
	return uint16(math.Round(celsius * 10)), nil
}

func encodeTemperature(tag byte, celsius float64) ([]byte, error) {
	deci, err := deciDegrees(celsius)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 3)
	buf[0] = tag
	binary.BigEndian.PutUint16(buf[1:3], deci)
	return buf, nil
}

func decodeTemperature(tag MessageType, data []byte) (float64, error) {
	if err := needPayload(tag, data, 2); err != nil {
		return 0, err
	}
	return float64(binary.BigEndian.Uint16(data[1:3])) / 10.0, nil
}

func encodeUint32(tag byte, v uint32) []byte {
	buf := make([]byte, 5)
	buf[0] = tag
	binary.BigEndian.PutUint32(buf[1:5], v)
	return buf
}

func decodeUint32(tag MessageType, data []byte) (uint32, error) {
	if err := needPayload(tag, data, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(data[1:5]), nil
}

func encodeBitmask(tag byte, attrs AttributeSet) []byte {
	buf := make([]byte, 9)
	buf[0] = tag
	binary.BigEndian.PutUint64(buf[1:9], uint64(attrs))
	return buf
}

func decodeBitmask(tag MessageType, data []byte) (AttributeSet, error) {
	if err := needPayload(tag, data, 8); err != nil {
		return 0, err
	}
	return AttributeSet(binary.BigEndian.Uint64(data[1:9])), nil
}

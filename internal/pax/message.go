package pax

// MessageType is the tag byte leading every decrypted message.
type MessageType byte

const (
	TypeActualTemperature        MessageType = 1
	TypeHeaterSetPoint           MessageType = 2
	TypeBattery                  MessageType = 3
	TypeUsage                    MessageType = 4
	TypeUsageLimit               MessageType = 5
	TypeLockStatus               MessageType = 6
	TypeChargeStatus             MessageType = 7
	TypePodInserted              MessageType = 8
	TypeTime                     MessageType = 9
	TypeDisplayName              MessageType = 10
	TypeHeaterRanges             MessageType = 17
	TypeDynamicMode              MessageType = 19
	TypeColorTheme               MessageType = 20
	TypeBrightness               MessageType = 21
	TypeHapticMode               MessageType = 23
	TypeSupportedAttributes      MessageType = 24
	TypeHeatingParams            MessageType = 25
	TypeUIMode                   MessageType = 27
	TypeShellColor               MessageType = 28
	TypeLowSoCMode               MessageType = 30
	TypeCurrentTargetTemperature MessageType = 31
	TypeHeatingState             MessageType = 32
	TypeHaptics                  MessageType = 40
	TypeStatusUpdate             MessageType = 254
)

var messageTypeNames = map[MessageType]string{
	TypeActualTemperature:        "ActualTemperature",
	TypeHeaterSetPoint:           "HeaterSetPoint",
	TypeBattery:                  "Battery",
	TypeUsage:                    "Usage",
	TypeUsageLimit:               "UsageLimit",
	TypeLockStatus:               "LockStatus",
	TypeChargeStatus:             "ChargeStatus",
	TypePodInserted:              "PodInserted",
	TypeTime:                     "Time",
	TypeDisplayName:              "DisplayName",
	TypeHeaterRanges:             "HeaterRanges",
	TypeDynamicMode:              "DynamicMode",
	TypeColorTheme:               "ColorTheme",
	TypeBrightness:               "Brightness",
	TypeHapticMode:               "HapticMode",
	TypeSupportedAttributes:      "SupportedAttributes",
	TypeHeatingParams:            "HeatingParams",
	TypeUIMode:                   "UIMode",
	TypeShellColor:               "ShellColor",
	TypeLowSoCMode:               "LowSoCMode",
	TypeCurrentTargetTemperature: "CurrentTargetTemperature",
	TypeHeatingState:             "HeatingState",
	TypeHaptics:                  "Haptics",
	TypeStatusUpdate:             "StatusUpdateRequest",
}

func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Message is a decoded protocol message. Values are immutable data created
// per encode/decode call.
type Message interface {
	MessageType() MessageType
}

// OperatingMode is the heating profile carried by DynamicMode messages.
type OperatingMode byte

const (
	ModeStandard OperatingMode = iota
	ModeBoost
	ModeEfficiency
	ModeStealth
	ModeFlavor
)

func (m OperatingMode) String() string {
	switch m {
	case ModeStandard:
		return "Standard"
	case ModeBoost:
		return "Boost"
	case ModeEfficiency:
		return "Efficiency"
	case ModeStealth:
		return "Stealth"
	case ModeFlavor:
		return "Flavor"
	default:
		return "Unknown"
	}
}

// ActualTemperature reports the oven's measured temperature in °C.
type ActualTemperature struct {
	Celsius float64
}

func (ActualTemperature) MessageType() MessageType { return TypeActualTemperature }

// HeaterSetPoint is the configured target temperature in °C.
type HeaterSetPoint struct {
	Celsius float64
}

func (HeaterSetPoint) MessageType() MessageType { return TypeHeaterSetPoint }

// CurrentTargetTemperature is the temperature the heater is currently
// driving toward, which can differ from the set point in dynamic modes.
type CurrentTargetTemperature struct {
	Celsius float64
}

func (CurrentTargetTemperature) MessageType() MessageType { return TypeCurrentTargetTemperature }

// Battery reports the charge level as a percentage.
type Battery struct {
	Percent uint8
}

func (Battery) MessageType() MessageType { return TypeBattery }

// Usage reports cumulative oven-on time in seconds.
type Usage struct {
	Seconds uint32
}

func (Usage) MessageType() MessageType { return TypeUsage }

// UsageLimit reports the configured session usage limit in seconds.
type UsageLimit struct {
	Seconds uint32
}

func (UsageLimit) MessageType() MessageType { return TypeUsageLimit }

// LockStatus reports or sets the device lock.
type LockStatus struct {
	Locked bool
}

func (LockStatus) MessageType() MessageType { return TypeLockStatus }

// ChargeStatus reports the charging state.
type ChargeStatus struct {
	Charging bool
	Complete bool
}

func (ChargeStatus) MessageType() MessageType { return TypeChargeStatus }

// PodInserted reports whether a pod is present (ERA).
type PodInserted struct {
	Inserted bool
}

func (PodInserted) MessageType() MessageType { return TypePodInserted }

// Time carries the device clock as seconds since the Unix epoch.
type Time struct {
	Seconds uint32
}

func (Time) MessageType() MessageType { return TypeTime }

// DisplayName is the user-visible device name.
type DisplayName struct {
	Name string
}

func (DisplayName) MessageType() MessageType { return TypeDisplayName }

// HeaterRanges reports the allowed set point range in °C.
type HeaterRanges struct {
	Min float64
	Max float64
}

func (HeaterRanges) MessageType() MessageType { return TypeHeaterRanges }

// DynamicMode reports or sets the heating profile.
type DynamicMode struct {
	Mode OperatingMode
}

func (DynamicMode) MessageType() MessageType { return TypeDynamicMode }

// ColorTheme is the LED color theme index.
type ColorTheme struct {
	Theme uint8
}

func (ColorTheme) MessageType() MessageType { return TypeColorTheme }

// Brightness is the LED brightness level.
type Brightness struct {
	Level uint8
}

func (Brightness) MessageType() MessageType { return TypeBrightness }

// HapticMode is the haptic feedback mode index.
type HapticMode struct {
	Mode uint8
}

func (HapticMode) MessageType() MessageType { return TypeHapticMode }

// SupportedAttributes is the set of message types this firmware supports,
// reported by the device after connecting.
type SupportedAttributes struct {
	Attributes AttributeSet
}

func (SupportedAttributes) MessageType() MessageType { return TypeSupportedAttributes }

// HeatingParams carries the opaque heater tuning block. The payload format
// varies by firmware revision and is passed through untouched.
type HeatingParams struct {
	Data []byte
}

func (HeatingParams) MessageType() MessageType { return TypeHeatingParams }

// UIMode is the display/interaction mode index.
type UIMode struct {
	Mode uint8
}

func (UIMode) MessageType() MessageType { return TypeUIMode }

// ShellColor is the factory shell color code.
type ShellColor struct {
	Color uint8
}

func (ShellColor) MessageType() MessageType { return TypeShellColor }

// LowSoCMode reports the low state-of-charge behavior setting.
type LowSoCMode struct {
	Value uint8
}

func (LowSoCMode) MessageType() MessageType { return TypeLowSoCMode }

// HeatingState reports the heater's current activity state.
type HeatingState struct {
	State uint8
}

func (HeatingState) MessageType() MessageType { return TypeHeatingState }

// Haptics triggers or reports a haptic pattern.
type Haptics struct {
	Pattern uint8
}

func (Haptics) MessageType() MessageType { return TypeHaptics }

// StatusUpdateRequest asks the device to publish the current value of each
// attribute in the set. Sent by the client; the device answers with one
// message per requested attribute.
type StatusUpdateRequest struct {
	Attributes AttributeSet
}

func (StatusUpdateRequest) MessageType() MessageType { return TypeStatusUpdate }

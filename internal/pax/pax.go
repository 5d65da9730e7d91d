// Package pax implements the PAX vaporizer application protocol: the typed
// message catalogue carried inside encrypted GATT frames, and the device
// session that sequences discovery, key derivation, and the notify-triggered
// read/decrypt/dispatch loop. Transport access goes through internal/ble;
// framing and key derivation live in internal/pax/crypto.
package pax

// Device Information service and characteristics (standard Bluetooth SIG
// 16-bit UUIDs expanded to the base UUID). Read in plaintext during the
// handshake.
const (
	DeviceInfoServiceUUID = "0000180a-0000-1000-8000-00805f9b34fb"
	ManufacturerNameUUID  = "00002a29-0000-1000-8000-00805f9b34fb"
	ModelNumberUUID       = "00002a24-0000-1000-8000-00805f9b34fb"
	SerialNumberUUID      = "00002a25-0000-1000-8000-00805f9b34fb"
	HardwareRevisionUUID  = "00002a27-0000-1000-8000-00805f9b34fb"
	SoftwareRevisionUUID  = "00002a28-0000-1000-8000-00805f9b34fb"
)

// Vendor protocol service and characteristics. Every value on these is an
// encrypted frame. The notify characteristic carries no payload; it signals
// that the read characteristic holds fresh data.
const (
	ServiceUUID    = "8e320200-64d2-11e6-bdf4-0800200c9a66"
	ReadCharUUID   = "8e320201-64d2-11e6-bdf4-0800200c9a66"
	WriteCharUUID  = "8e320202-64d2-11e6-bdf4-0800200c9a66"
	NotifyCharUUID = "8e320203-64d2-11e6-bdf4-0800200c9a66"
)

// ExpectedManufacturer is the manufacturer string a genuine device reports.
const ExpectedManufacturer = "PAX Labs, Inc"

// Known model number strings.
const (
	ModelNumberEra  = "ERA"
	ModelNumberPax3 = "PAX3"
)

// DeviceProfile identifies which capability profile the connected device
// supports, gated by the model number check during the handshake.
type DeviceProfile int

const (
	ProfileUnknown DeviceProfile = iota
	ProfileEra
	ProfilePax3
)

func (p DeviceProfile) String() string {
	switch p {
	case ProfileEra:
		return "ERA"
	case ProfilePax3:
		return "PAX3"
	default:
		return "unknown"
	}
}

// DeviceIdentity holds the plaintext identity characteristics read during
// the handshake. Immutable once populated. HardwareRevision and
// SoftwareRevision are empty when the device does not expose them.
type DeviceIdentity struct {
	Manufacturer     string
	ModelNumber      string
	SerialNumber     string
	HardwareRevision string
	SoftwareRevision string
}

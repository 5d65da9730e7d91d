// Package ble abstracts the Bluetooth Low Energy transport used to reach a
// vaporizer. It covers adapter management, scanning, connections, and GATT
// characteristic access; everything protocol-specific lives in internal/pax.
package ble

import (
	"context"
	"errors"
)

var (
	// ErrServiceNotFound is returned when a GATT service is absent on the
	// connected peripheral.
	ErrServiceNotFound = errors.New("ble: service not found")
	// ErrCharacteristicNotFound is returned when a characteristic is absent
	// within a discovered service.
	ErrCharacteristicNotFound = errors.New("ble: characteristic not found")
)

// Device represents a discovered BLE peripheral.
type Device struct {
	Name    string
	Address string
	RSSI    int
}

// Characteristic is an addressable data point within a GATT service.
type Characteristic interface {
	// Read fetches the current characteristic value.
	Read() ([]byte, error)
	// Write sends data without waiting for an acknowledgment.
	Write(data []byte) error
	// Subscribe registers a callback for notifications on this characteristic.
	Subscribe(callback func(data []byte)) error
	// Unsubscribe stops notification delivery.
	Unsubscribe() error
}

// Service is a discovered GATT service on an active connection.
type Service interface {
	// DiscoverCharacteristic finds a characteristic by UUID within this
	// service. Returns ErrCharacteristicNotFound if absent.
	DiscoverCharacteristic(charUUID string) (Characteristic, error)
}

// Connection represents an active BLE connection to a peripheral.
type Connection interface {
	// DiscoverService finds a service by UUID. Returns ErrServiceNotFound
	// if the peripheral does not expose it.
	DiscoverService(serviceUUID string) (Service, error)
	// Disconnect terminates the connection.
	Disconnect() error
	// OnDisconnect registers a callback invoked when the connection drops.
	OnDisconnect(callback func())
}

// Adapter abstracts the BLE hardware adapter for testing.
type Adapter interface {
	// Enable powers on the BLE adapter.
	Enable() error
	// Scan discovers BLE peripherals whose advertised name starts with
	// namePrefix (empty matches all), until ctx is cancelled.
	Scan(ctx context.Context, namePrefix string) ([]Device, error)
	// Connect establishes a connection to the device at the given address.
	Connect(ctx context.Context, address string) (Connection, error)
}

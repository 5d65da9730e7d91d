package pax

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/openpax/paxctl/internal/ble"
	paxcrypto "github.com/openpax/paxctl/internal/pax/crypto"
)

// State is the session lifecycle state.
type State int

const (
	StateDisconnected State = iota
	StateDiscovering
	StateDerivingKey
	StateSubscribing
	StateReady
	StateClosed
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateDiscovering:
		return "discovering"
	case StateDerivingKey:
		return "deriving-key"
	case StateSubscribing:
		return "subscribing"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	case StateFaulted:
		return "faulted"
	default:
		return "invalid"
	}
}

var (
	// ErrUnexpectedManufacturer is returned when the device's manufacturer
	// string is not the expected vendor string. Fatal to establishment.
	ErrUnexpectedManufacturer = errors.New("pax: unexpected manufacturer")
	// ErrUnsupportedDevice is returned when the model number is not one of
	// the known identifiers. Fatal to establishment.
	ErrUnsupportedDevice = errors.New("pax: unsupported device model")
	// ErrNotReady is returned by Send when the session has not completed
	// its handshake, or is closed or faulted. Indicates caller misuse.
	ErrNotReady = errors.New("pax: session not ready")
	// ErrSessionConsumed is returned by Connect on a session that already
	// ran its handshake. Sessions are single-use.
	ErrSessionConsumed = errors.New("pax: session already used")
)

// Sink receives every inbound message the session decodes, or the decode
// error for that one notification. Errors are informational: an unknown
// message type from newer firmware does not end the session. The sink is
// called from the session's notify goroutine and must not block for long.
type Sink func(msg Message, err error)

// ProbeResult reports a successful handshake: the identity characteristics
// read from the device and the capability profile its model maps to.
type ProbeResult struct {
	Identity DeviceIdentity
	Profile  DeviceProfile
}

// Session drives one encrypted connection to a device. It owns the session
// key for its lifetime and serializes all GATT reads on its notify loop;
// the underlying transport has no per-request correlation, so overlapping
// reads on one characteristic could be misattributed.
type Session struct {
	adapter ble.Adapter
	sink    Sink

	mu       sync.Mutex
	state    State
	faultErr error
	conn     ble.Connection
	identity DeviceIdentity
	profile  DeviceProfile
	key      []byte

	readChar   ble.Characteristic
	writeChar  ble.Characteristic
	notifyChar ble.Characteristic

	// pending coalesces notification triggers. Capacity 1: a burst of
	// notifications while a read is in flight collapses into a single
	// follow-up read, repeating at most one stale value.
	pending  chan struct{}
	done     chan struct{}
	loopDone chan struct{}

	closeOnce sync.Once
}

// NewSession creates a session that will dispatch inbound messages to sink.
// A nil sink drops inbound telemetry.
func NewSession(adapter ble.Adapter, sink Sink) (*Session, error) {
	if adapter == nil {
		return nil, errors.New("pax: adapter must not be nil")
	}
	if sink == nil {
		sink = func(Message, error) {}
	}
	return &Session{
		adapter:  adapter,
		sink:     sink,
		state:    StateDisconnected,
		pending:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}, nil
}

// Connect runs the handshake: connect, read the identity characteristics,
// validate manufacturer and model, derive the session key, locate the
// vendor characteristics, and subscribe for notifications. On success the
// session is Ready; on any failure it is Faulted and must be discarded.
func (s *Session) Connect(ctx context.Context, address string) (*ProbeResult, error) {
	s.mu.Lock()
	if s.state != StateDisconnected {
		state := s.state
		s.mu.Unlock()
		return nil, fmt.Errorf("%w (state %s)", ErrSessionConsumed, state)
	}
	s.state = StateDiscovering
	s.mu.Unlock()

	if err := s.adapter.Enable(); err != nil {
		return nil, s.fault(fmt.Errorf("pax: enable adapter: %w", err))
	}

	conn, err := s.adapter.Connect(ctx, address)
	if err != nil {
		return nil, s.fault(fmt.Errorf("pax: connect to %s: %w", address, err))
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	identity, profile, err := readIdentity(conn)
	if err != nil {
		return nil, s.fault(err)
	}
	s.mu.Lock()
	s.identity = identity
	s.profile = profile
	s.state = StateDerivingKey
	s.mu.Unlock()

	key, err := paxcrypto.DeriveSessionKey(identity.SerialNumber)
	if err != nil {
		return nil, s.fault(err)
	}

	svc, err := conn.DiscoverService(ServiceUUID)
	if err != nil {
		return nil, s.fault(err)
	}
	readChar, err := svc.DiscoverCharacteristic(ReadCharUUID)
	if err != nil {
		return nil, s.fault(err)
	}
	writeChar, err := svc.DiscoverCharacteristic(WriteCharUUID)
	if err != nil {
		return nil, s.fault(err)
	}
	notifyChar, err := svc.DiscoverCharacteristic(NotifyCharUUID)
	if err != nil {
		return nil, s.fault(err)
	}

	s.mu.Lock()
	s.key = key
	s.readChar = readChar
	s.writeChar = writeChar
	s.notifyChar = notifyChar
	s.state = StateSubscribing
	s.mu.Unlock()

	// The notification carries no payload of its own; it only signals that
	// the read characteristic holds fresh data. The loop goroutine fetches
	// it with an explicit read, so a slow consumer never loses payloads.
	if err := notifyChar.Subscribe(func([]byte) {
		select {
		case s.pending <- struct{}{}:
		default:
		}
	}); err != nil {
		return nil, s.fault(fmt.Errorf("pax: subscribe: %w", err))
	}

	go s.notifyLoop()

	s.mu.Lock()
	s.state = StateReady
	s.mu.Unlock()

	slog.Info("[pax] session ready",
		"model", identity.ModelNumber,
		"serial", identity.SerialNumber,
		"profile", profile)

	return &ProbeResult{Identity: identity, Profile: profile}, nil
}

// readIdentity reads the Device Information service and gates on the
// manufacturer and model strings.
func readIdentity(conn ble.Connection) (DeviceIdentity, DeviceProfile, error) {
	var id DeviceIdentity

	svc, err := conn.DiscoverService(DeviceInfoServiceUUID)
	if err != nil {
		return id, ProfileUnknown, err
	}

	read := func(charUUID string, required bool) (string, error) {
		char, err := svc.DiscoverCharacteristic(charUUID)
		if err != nil {
			if !required && errors.Is(err, ble.ErrCharacteristicNotFound) {
				return "", nil
			}
			return "", err
		}
		value, err := char.Read()
		if err != nil {
			return "", fmt.Errorf("pax: read characteristic %s: %w", charUUID, err)
		}
		return string(value), nil
	}

	if id.Manufacturer, err = read(ManufacturerNameUUID, true); err != nil {
		return id, ProfileUnknown, err
	}
	if id.ModelNumber, err = read(ModelNumberUUID, true); err != nil {
		return id, ProfileUnknown, err
	}
	if id.SerialNumber, err = read(SerialNumberUUID, true); err != nil {
		return id, ProfileUnknown, err
	}
	if id.HardwareRevision, err = read(HardwareRevisionUUID, false); err != nil {
		return id, ProfileUnknown, err
	}
	if id.SoftwareRevision, err = read(SoftwareRevisionUUID, false); err != nil {
		return id, ProfileUnknown, err
	}

	if id.Manufacturer != ExpectedManufacturer {
		return id, ProfileUnknown, fmt.Errorf("%w: %q", ErrUnexpectedManufacturer, id.Manufacturer)
	}

	switch id.ModelNumber {
	case ModelNumberEra:
		return id, ProfileEra, nil
	case ModelNumberPax3:
		return id, ProfilePax3, nil
	default:
		return id, ProfileUnknown, fmt.Errorf("%w: %q", ErrUnsupportedDevice, id.ModelNumber)
	}
}

// notifyLoop services notification triggers in arrival order. It is the
// only goroutine that reads the read characteristic.
func (s *Session) notifyLoop() {
	defer close(s.loopDone)

	for {
		select {
		case <-s.done:
			return
		case <-s.pending:
		}

		frame, err := s.readChar.Read()
		if err != nil {
			s.dispatch(nil, fmt.Errorf("pax: read after notify: %w", err))
			continue
		}

		plaintext, err := paxcrypto.Decrypt(s.key, frame)
		if err != nil {
			s.dispatch(nil, err)
			continue
		}

		msg, err := Decode(plaintext)
		s.dispatch(msg, err)
	}
}

// dispatch hands a result to the sink unless the session is shutting down.
func (s *Session) dispatch(msg Message, err error) {
	select {
	case <-s.done:
		return
	default:
	}
	s.sink(msg, err)
}

// Send encodes, encrypts, and writes a message to the command
// characteristic without waiting for acknowledgment. Write failures are
// returned but do not end the session.
func (s *Session) Send(m Message) error {
	s.mu.Lock()
	if s.state != StateReady {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w (state %s)", ErrNotReady, state)
	}
	key := s.key
	writeChar := s.writeChar
	s.mu.Unlock()

	plaintext, err := Encode(m)
	if err != nil {
		return err
	}
	frame, err := paxcrypto.Encrypt(key, plaintext)
	if err != nil {
		return err
	}
	if err := writeChar.Write(frame); err != nil {
		return fmt.Errorf("pax: write %s: %w", m.MessageType(), err)
	}
	return nil
}

// RequestStatus asks the device to publish the current value of each
// attribute in the set. Replies arrive through the sink.
func (s *Session) RequestStatus(attrs AttributeSet) error {
	return s.Send(StatusUpdateRequest{Attributes: attrs})
}

// Close stops the notify loop, unsubscribes, and releases the connection.
// Idempotent. No message is dispatched after Close returns. A faulted
// session stays faulted; any other state becomes Closed.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		started := s.state == StateReady
		notifyChar := s.notifyChar
		conn := s.conn
		if s.state != StateFaulted {
			s.state = StateClosed
		}
		s.conn = nil
		s.mu.Unlock()

		close(s.done)
		if started {
			<-s.loopDone
		}
		if notifyChar != nil {
			if err := notifyChar.Unsubscribe(); err != nil {
				slog.Warn("[pax] unsubscribe failed", "error", err)
			}
		}
		if conn != nil {
			if err := conn.Disconnect(); err != nil {
				slog.Warn("[pax] disconnect failed", "error", err)
			}
		}
	})
	return nil
}

// fault records the terminal error, releases the connection, and returns
// the error for the caller. Faulted sessions cannot transition further.
func (s *Session) fault(err error) error {
	s.mu.Lock()
	s.state = StateFaulted
	s.faultErr = err
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn != nil {
		_ = conn.Disconnect()
	}
	return err
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the terminal error of a faulted session, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faultErr
}

// Identity returns the identity read during the handshake. Zero value
// before the handshake completes the identity phase.
func (s *Session) Identity() DeviceIdentity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Profile returns the capability profile gated by the model check.
func (s *Session) Profile() DeviceProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Package crypto implements the PAX application-layer cryptography: AES-ECB
// session key derivation from the device serial number and AES-OFB packet
// framing with a trailing 16-byte IV.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const (
	// KeySize is the session key length in bytes.
	KeySize = 16
	// IVSize is the length of the IV appended to every encrypted frame.
	IVSize = 16
)

// deviceKeyBase64 is the fixed vendor master key, distributed base64-encoded
// with every client. It only ever encrypts the single derivation block.
const deviceKeyBase64 = "98hzLEBTwDhTUN7THasDEw=="

var deviceKey = mustDecodeDeviceKey()

func mustDecodeDeviceKey() []byte {
	key, err := base64.StdEncoding.DecodeString(deviceKeyBase64)
	if err != nil || len(key) != KeySize {
		panic("crypto: invalid embedded device key")
	}
	return key
}

var (
	// ErrKeyDerivation is returned when the serial number cannot be
	// expanded into a single AES block.
	ErrKeyDerivation = errors.New("crypto: key derivation failed")
	// ErrFrameTooShort is returned when an encrypted frame is not longer
	// than the trailing IV.
	ErrFrameTooShort = errors.New("crypto: frame too short")
)

// DeriveSessionKey derives the per-device session key from its serial
// number. The serial concatenated with itself must form exactly one AES
// block (the firmware uses 8-character serials); that block is encrypted
// AES-ECB under the vendor master key and the ciphertext is the key.
// The derivation is deterministic.
func DeriveSessionKey(serial string) ([]byte, error) {
	input := serial + serial
	if len(input) != aes.BlockSize {
		return nil, fmt.Errorf("%w: serial must be %d characters, got %d",
			ErrKeyDerivation, aes.BlockSize/2, len(serial))
	}

	block, err := aes.NewCipher(deviceKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyDerivation, err)
	}

	key := make([]byte, KeySize)
	block.Encrypt(key, []byte(input))
	return key, nil
}

// Encrypt encrypts plaintext under the session key and returns the wire
// frame ciphertext || iv. A fresh random 16-byte IV is generated per call,
// so two encryptions of the same plaintext never produce the same frame.
// Plaintexts shorter than one block are right-padded with zero bytes; the
// firmware never sends partial blocks under 16 bytes.
func Encrypt(key, plaintext []byte) ([]byte, error) {
	block, err := newSessionCipher(key)
	if err != nil {
		return nil, err
	}

	if len(plaintext) < aes.BlockSize {
		padded := make([]byte, aes.BlockSize)
		copy(padded, plaintext)
		plaintext = padded
	}

	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("crypto: random IV: %w", err)
	}

	frame := make([]byte, len(plaintext)+IVSize)
	cipher.NewOFB(block, iv).XORKeyStream(frame, plaintext)
	copy(frame[len(plaintext):], iv)
	return frame, nil
}

// Decrypt splits a wire frame into ciphertext and trailing IV and decrypts
// under the session key. Zero padding added by Encrypt is preserved;
// message decoders tolerate trailing zeros. Frames of 16 bytes or fewer
// fail with ErrFrameTooShort.
func Decrypt(key, frame []byte) ([]byte, error) {
	block, err := newSessionCipher(key)
	if err != nil {
		return nil, err
	}

	if len(frame) <= IVSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooShort, len(frame))
	}

	ciphertext := frame[:len(frame)-IVSize]
	iv := frame[len(frame)-IVSize:]

	plaintext := make([]byte, len(ciphertext))
	cipher.NewOFB(block, iv).XORKeyStream(plaintext, ciphertext)
	return plaintext, nil
}

func newSessionCipher(key []byte) (cipher.Block, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("crypto: session key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: new cipher: %w", err)
	}
	return block, nil
}

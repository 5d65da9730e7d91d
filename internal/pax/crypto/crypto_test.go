package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestDeriveSessionKeyDeterministic(t *testing.T) {
	key1, err := DeriveSessionKey("AB12CD34")
	if err != nil {
		t.Fatalf("DeriveSessionKey() error = %v", err)
	}
	if len(key1) != KeySize {
		t.Fatalf("key length = %d, want %d", len(key1), KeySize)
	}

	key2, err := DeriveSessionKey("AB12CD34")
	if err != nil {
		t.Fatalf("DeriveSessionKey() second call error = %v", err)
	}
	if !bytes.Equal(key1, key2) {
		t.Error("DeriveSessionKey is not deterministic")
	}
}

func TestDeriveSessionKeyDistinctSerials(t *testing.T) {
	key1, err := DeriveSessionKey("AB12CD34")
	if err != nil {
		t.Fatalf("DeriveSessionKey() error = %v", err)
	}
	key2, err := DeriveSessionKey("ZZ99XX00")
	if err != nil {
		t.Fatalf("DeriveSessionKey() error = %v", err)
	}
	if bytes.Equal(key1, key2) {
		t.Error("distinct serials produced the same key")
	}
}

func TestDeriveSessionKeyRejectsWrongLength(t *testing.T) {
	for _, serial := range []string{"", "SHORT", "TOOLONGSERIAL"} {
		_, err := DeriveSessionKey(serial)
		if !errors.Is(err, ErrKeyDerivation) {
			t.Errorf("DeriveSessionKey(%q) error = %v, want ErrKeyDerivation", serial, err)
		}
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key, err := DeriveSessionKey("AB12CD34")
	if err != nil {
		t.Fatalf("DeriveSessionKey() error = %v", err)
	}

	// Plaintexts shorter than one block are zero-padded to 16 bytes, so
	// the round-tripped value is the padded form.
	for length := 0; length <= 40; length++ {
		plaintext := make([]byte, length)
		for i := range plaintext {
			plaintext[i] = byte(i + 1)
		}

		frame, err := Encrypt(key, plaintext)
		if err != nil {
			t.Fatalf("Encrypt(len=%d) error = %v", length, err)
		}

		wantFrameLen := length + IVSize
		if length < 16 {
			wantFrameLen = 16 + IVSize
		}
		if len(frame) != wantFrameLen {
			t.Errorf("frame length = %d for plaintext length %d, want %d", len(frame), length, wantFrameLen)
		}

		decrypted, err := Decrypt(key, frame)
		if err != nil {
			t.Fatalf("Decrypt(len=%d) error = %v", length, err)
		}

		want := plaintext
		if length < 16 {
			want = make([]byte, 16)
			copy(want, plaintext)
		}
		if !bytes.Equal(decrypted, want) {
			t.Errorf("round trip mismatch for length %d: got %x, want %x", length, decrypted, want)
		}
	}
}

func TestEncryptFreshIV(t *testing.T) {
	key, err := DeriveSessionKey("AB12CD34")
	if err != nil {
		t.Fatalf("DeriveSessionKey() error = %v", err)
	}

	plaintext := []byte{0x06, 0x01}
	frame1, err := Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	frame2, err := Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if bytes.Equal(frame1, frame2) {
		t.Error("two encryptions of the same plaintext produced identical frames")
	}
	iv1 := frame1[len(frame1)-IVSize:]
	iv2 := frame2[len(frame2)-IVSize:]
	if bytes.Equal(iv1, iv2) {
		t.Error("two encryptions reused the IV")
	}
}

func TestDecryptFrameTooShort(t *testing.T) {
	key, err := DeriveSessionKey("AB12CD34")
	if err != nil {
		t.Fatalf("DeriveSessionKey() error = %v", err)
	}

	for _, length := range []int{0, 1, 15, 16} {
		_, err := Decrypt(key, make([]byte, length))
		if !errors.Is(err, ErrFrameTooShort) {
			t.Errorf("Decrypt(len=%d) error = %v, want ErrFrameTooShort", length, err)
		}
	}
}

func TestEncryptRejectsBadKey(t *testing.T) {
	if _, err := Encrypt(make([]byte, 8), []byte{0x01}); err == nil {
		t.Error("Encrypt() with 8-byte key should fail")
	}
	if _, err := Decrypt(make([]byte, 8), make([]byte, 32)); err == nil {
		t.Error("Decrypt() with 8-byte key should fail")
	}
}

// TestLockCommandScenario drives the full framing path: serial "AB12CD34"
// doubles into one AES block, the derived key encrypts
// the two-byte lock command, and decrypting the frame recovers the command
// zero-padded to a full block.
func TestLockCommandScenario(t *testing.T) {
	key, err := DeriveSessionKey("AB12CD34")
	if err != nil {
		t.Fatalf("DeriveSessionKey() error = %v", err)
	}

	lock := []byte{0x06, 0x01}
	frame, err := Encrypt(key, lock)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if len(frame) != 16+IVSize {
		t.Fatalf("frame length = %d, want %d", len(frame), 16+IVSize)
	}

	plaintext, err := Decrypt(key, frame)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}

	want := make([]byte, 16)
	want[0], want[1] = 0x06, 0x01
	if !bytes.Equal(plaintext, want) {
		t.Errorf("decrypted = %x, want %x", plaintext, want)
	}
}

package backup

import (
	"bytes"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintext := []byte("competition standings snapshot")

	encrypted, err := Encrypt(plaintext, "correct horse")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(encrypted, plaintext) {
		t.Error("ciphertext contains plaintext")
	}

	decrypted, err := Decrypt(encrypted, "correct horse")
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("round trip mismatch: got %q", decrypted)
	}
}

func TestEncryptUniqueOutput(t *testing.T) {
	plaintext := []byte("same input")

	a, err := Encrypt(plaintext, "p")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	b, err := Encrypt(plaintext, "p")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Error("two encryptions produced identical output")
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	encrypted, err := Encrypt([]byte("secret"), "right")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := Decrypt(encrypted, "wrong"); err == nil {
		t.Error("decrypt with wrong passphrase succeeded")
	}
}

func TestDecryptTruncatedData(t *testing.T) {
	if _, err := Decrypt([]byte("short"), "p"); err == nil {
		t.Error("decrypt of truncated data succeeded")
	}

	encrypted, err := Encrypt([]byte("secret"), "p")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := Decrypt(encrypted[:len(encrypted)-1], "p"); err == nil {
		t.Error("decrypt of corrupted ciphertext succeeded")
	}
}

package cookie

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andrasnagy-data/productdesk/internal/shared/config"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestJar(t *testing.T) *Jar {
	t.Helper()
	jar, err := NewJar(&config.Config{SecretKey: testKey})
	if err != nil {
		t.Fatalf("NewJar() error = %v", err)
	}
	return jar
}

// A token written by Set is read back unchanged by Get.
func TestJar_RoundTrip(t *testing.T) {
	// Arrange
	jar := newTestJar(t)
	rec := httptest.NewRecorder()

	// Act
	if err := jar.Set(rec, "12|abcdefTOKEN"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	got, err := jar.Get(req)

	// Assert
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "12|abcdefTOKEN" {
		t.Errorf("Get() = %q, want %q", got, "12|abcdefTOKEN")
	}
	c := rec.Result().Cookies()[0]
	if !c.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
	if strings.Contains(c.Value, "TOKEN") {
		t.Error("cookie value should not contain the plaintext token")
	}
}

func TestNewJar_RejectsBadKeys(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{name: "not hex", key: "zz"},
		{name: "wrong length", key: "0001020304"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := NewJar(&config.Config{SecretKey: test.key}); err == nil {
				t.Fatal("NewJar() should fail")
			}
		})
	}
}

func TestDecrypt_Rejects(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	sealed, err := encrypt("token", secret, "other")
	if err != nil {
		t.Fatalf("encrypt() error = %v", err)
	}

	tests := []struct {
		name  string
		value string
	}{
		{name: "value sealed for another cookie name", value: sealed},
		{name: "not base64", value: "%%%"},
		{name: "shorter than nonce", value: "AAAA"},
		{name: "tampered ciphertext", value: sealed[:len(sealed)-4] + "AAA="},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := decrypt(test.value, secret, cookieName)
			if !errors.Is(err, ErrInvalidValue) {
				t.Errorf("decrypt() error = %v, want ErrInvalidValue", err)
			}
		})
	}
}

func TestEncrypt_TooLong(t *testing.T) {
	secret := []byte("0123456789abcdef")
	_, err := encrypt(strings.Repeat("x", 4000), secret, cookieName)
	if !errors.Is(err, ErrValueTooLong) {
		t.Errorf("encrypt() error = %v, want ErrValueTooLong", err)
	}
}

func TestJar_Clear(t *testing.T) {
	jar := newTestJar(t)
	rec := httptest.NewRecorder()

	jar.Clear(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	if cookies[0].MaxAge >= 0 {
		t.Errorf("MaxAge = %d, want negative", cookies[0].MaxAge)
	}
}

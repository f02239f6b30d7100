package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andrasnagy-data/productdesk/internal/shared/config"
)

const (
	cookieName string = "session"

	// Browsers drop cookies above 4096 bytes, name and attributes included.
	maxValueLen = 3800

	// Matches the lifetime the API gives its personal access tokens.
	maxAge = 7 * 24 * time.Hour
)

var (
	ErrValueTooLong = errors.New("cookie value too long")
	ErrInvalidValue = errors.New("invalid cookie value")
)

// Jar persists the bearer token in an encrypted, HttpOnly cookie.
type Jar struct {
	secret []byte
	secure bool
}

// NewJar decodes the hex secret from config. The key length selects AES-128, -192 or -256.
func NewJar(cfg *config.Config) (*Jar, error) {
	secret, err := hex.DecodeString(cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("decode SECRET_KEY: %w", err)
	}
	switch len(secret) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("SECRET_KEY must be 16, 24 or 32 bytes, got %d", len(secret))
	}
	return &Jar{secret: secret, secure: cfg.CookieSecure}, nil
}

// encrypt seals the token together with the cookie name using AES-GCM so a value
// cannot be moved to a cookie with a different name.
func encrypt(token string, secret []byte, name string) (string, error) {
	block, err := aes.NewCipher(secret)
	if err != nil {
		return "", err
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	// ':' is not valid in a cookie name, so the first one separates name from value.
	plaintext := fmt.Sprintf("%s:%s", name, token)

	// Output is "{nonce}{ciphertext}".
	encryptedValue := aesGCM.Seal(nonce, nonce, []byte(plaintext), nil)

	res := base64.URLEncoding.EncodeToString(encryptedValue)
	if len(res) > maxValueLen {
		return "", ErrValueTooLong
	}
	return res, nil
}

// decrypt authenticates the value and checks it was issued for expectedName.
func decrypt(encrypted string, secret []byte, expectedName string) (string, error) {
	value, err := base64.URLEncoding.DecodeString(encrypted)
	if err != nil {
		return "", ErrInvalidValue
	}

	block, err := aes.NewCipher(secret)
	if err != nil {
		return "", err
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := aesGCM.NonceSize()
	if len(value) < nonceSize {
		return "", ErrInvalidValue
	}

	nonce := value[:nonceSize]
	ciphertext := value[nonceSize:]

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrInvalidValue
	}

	actualName, token, ok := strings.Cut(string(plaintext), ":")
	if !ok {
		return "", ErrInvalidValue
	}

	if actualName != expectedName {
		return "", ErrInvalidValue
	}

	if token == "" {
		return "", ErrInvalidValue
	}
	return token, nil
}

// Get returns the token stored in the session cookie.
func (j *Jar) Get(r *http.Request) (string, error) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return "", err
	}

	return decrypt(c.Value, j.secret, cookieName)
}

// Set stores token in the session cookie.
func (j *Jar) Set(w http.ResponseWriter, token string) error {
	encryptedValue, err := encrypt(token, j.secret, cookieName)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    encryptedValue,
		HttpOnly: true,
		// Send cookie to all routes in the app
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (j *Jar) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		HttpOnly: true,
		Path:     "/",
		MaxAge:   -1,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

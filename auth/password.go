package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength  = 16
	keyLength   = 32
	timeCost    = 1
	memoryCost  = 64 * 1024
	parallelism = 4
)

// HashPassword returns the argon2id hash of password, salt included, base64 encoded
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, timeCost, memoryCost, parallelism, keyLength)
	return base64.RawStdEncoding.EncodeToString(append(salt, hash...)), nil
}

// VerifyPassword reports whether password matches a hash produced by HashPassword
func VerifyPassword(encoded string, password string) (bool, error) {
	decoded, err := base64.RawStdEncoding.DecodeString(encoded)
	if err != nil {
		return false, err
	}
	if len(decoded) != saltLength+keyLength {
		return false, errors.New("invalid password hash")
	}

	salt, expected := decoded[:saltLength], decoded[saltLength:]
	actual := argon2.IDKey([]byte(password), salt, timeCost, memoryCost, parallelism, keyLength)
	return subtle.ConstantTimeCompare(expected, actual) == 1, nil
}

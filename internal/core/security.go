// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLength   = 16
)

// randReader is swapped in tests to simulate an unavailable RNG.
var randReader io.Reader = rand.Reader

// CreatePasswordHash derives an argon2id hash of password keyed by a fresh
// random salt. Both values must be stored together.
func CreatePasswordHash(password string) ([]byte, []byte, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(randReader, salt); err != nil {
		return nil, nil, fmt.Errorf("generate salt: %w: %w", ErrCryptoFailure, err)
	}

	return deriveKey(password, salt), salt, nil
}

// VerifyPasswordHash reports whether password hashes to hash under salt.
func VerifyPasswordHash(password string, hash, salt []byte) bool {
	if len(hash) == 0 || len(salt) == 0 {
		return false
	}

	computed := deriveKey(password, salt)
	return subtle.ConstantTimeCompare(hash, computed) == 1
}

var dummyHash, dummySalt []byte

func init() {
	hash, salt, err := CreatePasswordHash("dummy_password_for_timing_attack_prevention")
	if err != nil {
		panic(fmt.Sprintf("security: failed to generate dummy hash: %v", err))
	}
	dummyHash, dummySalt = hash, salt
}

// VerifyPasswordDummy spends the cost of one verification without a stored
// credential, so unknown accounts take as long to reject as wrong passwords.
func VerifyPasswordDummy(password string) {
	_ = VerifyPasswordHash(password, dummyHash, dummySalt)
}

func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey(
		[]byte(password),
		salt,
		argonTime,
		argonMemory,
		argonThreads,
		argonKeyLen,
	)
}

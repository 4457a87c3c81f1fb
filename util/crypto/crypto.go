// Package crypto provides credential hashing for the SecureAuth service.
package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword generates a bcrypt hash of the given password with the
// given cost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(hash), err
}

// CheckPasswordHash verifies the given password against a bcrypt hash.
func CheckPasswordHash(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// insecureSalt keeps offline digests from matching plain sha256 rainbow
// tables. A constant salt is tolerable here: the offline store holds
// demo data on the local machine only.
const insecureSalt = "secureauth-local:"

// InsecureDigest is a fast salted SHA-256 digest used ONLY by the
// offline fallback store. It is not an acceptable password hash for
// anything that leaves the local process.
func InsecureDigest(password string) string {
	sum := sha256.Sum256([]byte(insecureSalt + password))
	return hex.EncodeToString(sum[:])
}

// CheckInsecureDigest compares an offline digest in constant time.
func CheckInsecureDigest(digest, password string) bool {
	computed := InsecureDigest(password)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(computed)) == 1
}

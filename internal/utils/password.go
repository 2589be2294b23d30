package utils

import (
	"crypto/sha512"
	"encoding/hex"
)

// Digest returns the lowercase hex SHA-512 digest of src.
func Digest(src string) string {
	sum := sha512.Sum512([]byte(src))
	return hex.EncodeToString(sum[:])
}

// Salt derives the password salt for an account.  The account name itself is
// the only salt input, so two accounts with the same name would share a salt;
// account names are unique, which is the sole thing keeping salts distinct.
func Salt(accountName string) string {
	return Digest(accountName)
}

// Passhash computes the stored credential hash for an account/password pair.
// Deterministic: the same inputs always produce the same hash, which is what
// makes the register-then-login comparison work without storing the salt.
func Passhash(accountName, password string) string {
	return Digest(password + ":" + Salt(accountName))
}

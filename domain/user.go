// Package domain contains core concepts of the relay.
// This file defines User entries of the credential table.
// No runtime mutation exists: users are loaded once and never change.
package domain

// User is a single entry of the credential table. PasswordDigest is a
// hex-encoded one-way hash; the relay never sees plaintext passwords.
type User struct {
	Username       string
	PasswordDigest string
}

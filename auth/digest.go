// Package auth provides the credential digest helpers shared by the
// relay tooling and the terminal client.
//
// The digest algorithm is a parameter, not part of the protocol: the
// relay itself only ever compares stored and supplied digests for
// equality. MD5 is the default purely because the legacy credential
// tables were built with it; it is a weak choice and tables hashed with
// anything stronger work unchanged as long as client and table agree.
package auth

import (
	"crypto/md5"
	"encoding/hex"
	"hash"
)

// Digester turns a plaintext password into the hex digest stored in the
// credential table and sent on the login channel.
type Digester struct {
	newHash func() hash.Hash
}

// NewDigester builds a Digester around the given hash constructor.
func NewDigester(newHash func() hash.Hash) Digester {
	return Digester{newHash: newHash}
}

// DefaultDigester matches the legacy credential tables (MD5).
func DefaultDigester() Digester {
	return NewDigester(md5.New)
}

// Digest returns the lowercase hex digest of the given password.
func (d Digester) Digest(password string) string {
	h := d.newHash()
	h.Write([]byte(password))
	return hex.EncodeToString(h.Sum(nil))
}

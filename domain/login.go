// Package domain contains core concepts of the relay.
// This file defines the login exchange payloads.
package domain

// LoginType is the only request type accepted on the login channel.
const LoginType = "LOGIN"

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// LoginRequest is the payload received on the login channel. The
// password field carries a digest, never a plaintext password.
type LoginRequest struct {
	Type           string `json:"type" validate:"required,eq=LOGIN"`
	Username       string `json:"username" validate:"required"`
	PasswordDigest string `json:"passwordDigest"`
}

// LoginResponse is the reply sent for every login attempt. Successful
// replies carry a snapshot of recent messages so late joiners can prime
// their display; failed replies carry the status alone. Unknown users
// and wrong digests produce identical responses.
type LoginResponse struct {
	Status   string        `json:"status"`
	Messages []ChatMessage `json:"messages,omitempty"`
}

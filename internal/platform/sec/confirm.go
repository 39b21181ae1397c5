// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// # Confirmation Codes
//
// A confirmation code is never stored. It is a keyed one-way function of the
// user's mutable identity state: re-deriving it for a resend yields the same
// value, and any change to the user record (or a rotation of the server
// secret) silently invalidates every outstanding code.

const (
	// codeBytes is the number of MAC bytes exposed in the code (hex-encoded x2).
	codeBytes = 16

	// kdfIterations is the PBKDF2 round count for the signing-key derivation.
	// Runs once at startup, so a high count costs nothing per request.
	kdfIterations = 10_000

	// kdfSalt is a fixed domain-separation salt. The secret itself is the
	// rotating input; the salt only keeps this key distinct from any other
	// derivation of the same secret.
	kdfSalt = "kritika/confirmation-code/v1"
)

// CodeState captures the mutable user state a confirmation code is bound to.
type CodeState struct {
	UserID   string
	Username string
	Email    string
	Role     string
}

// CodeService derives and verifies signup confirmation codes.
type CodeService struct {
	key []byte
}

// NewCodeService stretches the configured secret into an HMAC signing key.
func NewCodeService(secret string) *CodeService {
	key := pbkdf2.Key([]byte(secret), []byte(kdfSalt), kdfIterations, sha256.Size, sha256.New)
	return &CodeService{key: key}
}

// DeriveCode computes the confirmation code for the given user state.
//
// # Idempotency
//
// The derivation is deterministic: calling it twice for an unchanged user
// yields the same code, which is what makes signup resends safe.
func (service *CodeService) DeriveCode(state CodeState) string {
	mac := hmac.New(sha256.New, service.key)
	// NUL separators prevent ambiguity between concatenated fields.
	fmt.Fprintf(mac, "%s\x00%s\x00%s\x00%s", state.UserID, state.Username, state.Email, state.Role)
	return hex.EncodeToString(mac.Sum(nil)[:codeBytes])
}

// VerifyCode reports whether the presented code matches the user's current
// state. Comparison is constant-time.
func (service *CodeService) VerifyCode(state CodeState, code string) bool {
	expected := service.DeriveCode(state)
	return hmac.Equal([]byte(expected), []byte(code))
}

// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/kritika/internal/platform/sec"
)

func testState() sec.CodeState {
	return sec.CodeState{
		UserID:   "0190a1b2-0000-7000-8000-000000000001",
		Username: "reader",
		Email:    "reader@example.com",
		Role:     "user",
	}
}

/*
TestCodeService_DeriveIsDeterministic verifies that re-deriving a code for an
unchanged user yields the same value. This is what makes signup resends safe.
*/
func TestCodeService_DeriveIsDeterministic(t *testing.T) {
	service := sec.NewCodeService("test-secret")

	first := service.DeriveCode(testState())
	second := service.DeriveCode(testState())

	assert.Equal(t, first, second)
	assert.Len(t, first, 32) // 16 MAC bytes, hex encoded
}

/*
TestCodeService_VerifyRoundTrip checks derive-then-verify for the same state.
*/
func TestCodeService_VerifyRoundTrip(t *testing.T) {
	service := sec.NewCodeService("test-secret")

	code := service.DeriveCode(testState())
	assert.True(t, service.VerifyCode(testState(), code))
}

/*
TestCodeService_StateChangeInvalidates verifies that any change to the signed
identity state invalidates an outstanding code.
*/
func TestCodeService_StateChangeInvalidates(t *testing.T) {
	service := sec.NewCodeService("test-secret")
	code := service.DeriveCode(testState())

	mutations := map[string]func(*sec.CodeState){
		"username": func(s *sec.CodeState) { s.Username = "renamed" },
		"email":    func(s *sec.CodeState) { s.Email = "other@example.com" },
		"role":     func(s *sec.CodeState) { s.Role = "moderator" },
		"user_id":  func(s *sec.CodeState) { s.UserID = "different" },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			state := testState()
			mutate(&state)
			assert.False(t, service.VerifyCode(state, code))
		})
	}
}

/*
TestCodeService_WrongCodeRejected checks garbage and near-miss inputs.
*/
func TestCodeService_WrongCodeRejected(t *testing.T) {
	service := sec.NewCodeService("test-secret")
	code := service.DeriveCode(testState())

	assert.False(t, service.VerifyCode(testState(), ""))
	assert.False(t, service.VerifyCode(testState(), "not-a-code"))
	assert.False(t, service.VerifyCode(testState(), code[:len(code)-1]))
}

/*
TestCodeService_SecretRotationInvalidates verifies that rotating the server
secret invalidates every outstanding code.
*/
func TestCodeService_SecretRotationInvalidates(t *testing.T) {
	oldService := sec.NewCodeService("old-secret")
	newService := sec.NewCodeService("new-secret")

	code := oldService.DeriveCode(testState())
	assert.False(t, newService.VerifyCode(testState(), code))
}

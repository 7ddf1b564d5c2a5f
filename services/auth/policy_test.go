package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/accounts/config"
	"github.com/tech-arch1tect/accounts/testutils"
)

func TestPolicy_Validate(t *testing.T) {
	base := testutils.GetTestConfig().Auth

	tests := []struct {
		name       string
		password   string
		attributes []string
		mutate     func(cfg *config.AuthConfig)
		wantCodes  []string
	}{
		{
			name:     "valid password",
			password: testutils.TestPasswords.Valid,
		},
		{
			name:      "too short",
			password:  testutils.TestPasswords.TooShort,
			wantCodes: []string{CodePasswordTooShort},
		},
		{
			name:      "too long",
			password:  "Aa1" + strings.Repeat("x", 70),
			wantCodes: []string{CodePasswordTooLong},
		},
		{
			name:      "multi-byte password over the bcrypt limit",
			password:  "Aa1" + strings.Repeat("é", 60),
			wantCodes: []string{CodePasswordTooLong},
		},
		{
			name:     "multi-byte password within the bcrypt limit",
			password: "Aa1" + strings.Repeat("é", 30),
		},
		{
			name:      "missing uppercase",
			password:  testutils.TestPasswords.NoUpper,
			wantCodes: []string{CodePasswordMissingUppercase},
		},
		{
			name:      "missing lowercase",
			password:  testutils.TestPasswords.NoLower,
			wantCodes: []string{CodePasswordMissingLowercase},
		},
		{
			name:      "missing number",
			password:  testutils.TestPasswords.NoNumber,
			wantCodes: []string{CodePasswordMissingNumber},
		},
		{
			name:     "special required and present",
			password: testutils.TestPasswords.WithSpecial,
			mutate: func(cfg *config.AuthConfig) {
				cfg.RequireSpecial = true
			},
		},
		{
			name:     "special required and absent",
			password: "Quietharbour7",
			mutate: func(cfg *config.AuthConfig) {
				cfg.RequireSpecial = true
			},
			wantCodes: []string{CodePasswordMissingSpecial},
		},
		{
			name:      "common password",
			password:  testutils.TestPasswords.Common,
			wantCodes: []string{CodePasswordTooCommon},
		},
		{
			name:     "common check disabled",
			password: testutils.TestPasswords.Common,
			mutate: func(cfg *config.AuthConfig) {
				cfg.RejectCommon = false
			},
		},
		{
			name:       "similar to email",
			password:   "Alice@example1",
			attributes: []string{"Alice", "alice@example.com"},
			wantCodes:  []string{CodePasswordTooSimilar},
		},
		{
			name:       "similar to name",
			password:   "Wilhelmina9",
			attributes: []string{"Wilhelmina", "w@example.com"},
			wantCodes:  []string{CodePasswordTooSimilar},
		},
		{
			name:       "dissimilar attributes",
			password:   testutils.TestPasswords.Valid,
			attributes: []string{"Alice", "alice@example.com"},
		},
		{
			name:      "multiple violations",
			password:  "abc",
			wantCodes: []string{CodePasswordTooShort, CodePasswordMissingUppercase, CodePasswordMissingNumber},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			policy := NewPolicy(cfg)

			err := policy.Validate(tt.password, tt.attributes...)

			if len(tt.wantCodes) == 0 {
				require.NoError(t, err)
				return
			}

			var policyErr *PolicyError
			require.True(t, errors.As(err, &policyErr))
			assert.Equal(t, tt.wantCodes, policyErr.Codes())
			assert.NotEmpty(t, policyErr.Error())
		})
	}
}

func TestPolicy_IsCommon(t *testing.T) {
	policy := NewPolicy(config.AuthConfig{})

	assert.True(t, policy.IsCommon("password"))
	assert.True(t, policy.IsCommon("PASSWORD123"))
	assert.True(t, policy.IsCommon(" qwerty "))
	assert.False(t, policy.IsCommon(testutils.TestPasswords.Valid))
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, similarity("abc", "abc"), 0.0001)
	assert.InDelta(t, 0.0, similarity("abc", "xyz"), 0.0001)
	assert.InDelta(t, 1.0, similarity("", ""), 0.0001)
	assert.InDelta(t, 0.8, similarity("abcd", "abcdef"), 0.0001)
}

package validator_test

import (
	"fmt"
	"testing"

	"concord-backend/internal/validator"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		expectedError error
	}{
		{
			name:          "Valid: lowercase with underscore",
			username:      "some_user99",
			expectedError: nil,
		},
		{
			name:          "Error: too short",
			username:      "ab",
			expectedError: fmt.Errorf("short_username"),
		},
		{
			name:          "Error: uppercase not allowed",
			username:      "SomeUser",
			expectedError: fmt.Errorf("bad_format"),
		},
		{
			name:          "Error: spaces not allowed",
			username:      "some user",
			expectedError: fmt.Errorf("bad_format"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validator.Username(tc.username)

			if tc.expectedError == nil {
				if err != nil {
					t.Errorf("Username(%q) failed unexpectedly: got error %v, want nil", tc.username, err)
				}
				return
			}

			if err == nil || err.Error() != tc.expectedError.Error() {
				t.Errorf("Username(%q) got error %v, want %v", tc.username, err, tc.expectedError)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	tests := []struct {
		name          string
		password      string
		expectedError error
	}{
		{
			name:          "Valid: minimum length",
			password:      "aA1bB2",
			expectedError: nil,
		},
		{
			name:          "Error: too short",
			password:      "aA1",
			expectedError: fmt.Errorf("short_password"),
		},
		{
			name:          "Error: missing lowercase",
			password:      "AABBCC1234",
			expectedError: fmt.Errorf("no_lowercase"),
		},
		{
			name:          "Error: missing uppercase",
			password:      "aabbcc1234",
			expectedError: fmt.Errorf("no_uppercase"),
		},
		{
			name:          "Error: missing number",
			password:      "PasswordABC",
			expectedError: fmt.Errorf("no_number"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validator.Password(tc.password)

			if tc.expectedError == nil {
				if err != nil {
					t.Errorf("Password(%q) failed unexpectedly: got error %v, want nil", tc.password, err)
				}
				return
			}

			if err == nil || err.Error() != tc.expectedError.Error() {
				t.Errorf("Password(%q) got error %v, want %v", tc.password, err, tc.expectedError)
			}
		})
	}
}

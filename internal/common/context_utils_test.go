package common

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUUID(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectError  bool
		expectedUUID uuid.UUID
	}{
		{
			name:         "valid UUID",
			input:        "550e8400-e29b-41d4-a716-446655440000",
			expectedUUID: uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		},
		{
			name:         "surrounding whitespace trimmed",
			input:        " 550e8400-e29b-41d4-a716-446655440000 ",
			expectedUUID: uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
		{
			name:        "whitespace only",
			input:       "   ",
			expectError: true,
		},
		{
			name:        "not a UUID",
			input:       "not-a-uuid",
			expectError: true,
		},
		{
			name:        "truncated UUID",
			input:       "550e8400-e29b-41d4-a716",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ValidateUUID(tt.input, "id")
			if tt.expectError {
				require.Error(t, err)
				assert.Equal(t, KindValidation, KindOf(err))
				assert.Equal(t, uuid.Nil, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedUUID, id)
		})
	}
}

func TestValidateRequiredString(t *testing.T) {
	assert.NoError(t, ValidateRequiredString("名古屋医学会", "name"))
	assert.Error(t, ValidateRequiredString("", "name"))
	assert.Error(t, ValidateRequiredString("   ", "name"))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("tanaka@example.org", "email"))
	assert.Error(t, ValidateEmail("tanaka@", "email"))
	assert.Error(t, ValidateEmail("", "email"))
}

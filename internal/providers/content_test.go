package providers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/providers"
)

func TestVerifyContentHash(t *testing.T) {
	data := []byte("hello")
	const digest = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

	assert.Equal(t, digest, providers.ContentHash(data))

	tests := []struct {
		name     string
		expected string
		wantErr  bool
	}{
		{"no expectation", "", false},
		{"exact", digest, false},
		{"prefixed upper case", "0x2CF24DBA5FB0A30E26E83B2AC5B9E29E1B161E5C1FA7425E73043362938B9824", false},
		{"mismatch", "00" + digest[2:], true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := providers.VerifyContentHash(data, tt.expected)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrContentHashMismatch)
				assert.False(t, domain.IsStorageError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, digest, actual)
		})
	}
}

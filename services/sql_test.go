package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vantech-digital/corsite_api/shared"
	"gorm.io/gorm"
)

func TestHandleError_Mapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"record not found", gorm.ErrRecordNotFound, 404},
		{"duplicated key", gorm.ErrDuplicatedKey, 400},
		{"sqlite unique violation", errors.New("UNIQUE constraint failed: posts.slug"), 400},
		{"postgres unique violation", errors.New(`ERROR: duplicate key value violates unique constraint "idx_posts_slug"`), 400},
		{"foreign key violated", gorm.ErrForeignKeyViolated, 400},
		{"anything else", errors.New("disk I/O error"), 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := HandleError(tc.err)
			require.Error(t, mapped)

			appErr, ok := shared.GetAppError(mapped)
			require.True(t, ok)
			assert.Equal(t, tc.status, appErr.StatusCode)
		})
	}
}

func TestHandleError_NilPassesThrough(t *testing.T) {
	assert.NoError(t, HandleError(nil))
}

package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/estatepilot/estatepilot/app/models"
)

// Registration's email pre-check races with concurrent inserts; the unique
// index is the real guard and must surface as gorm.ErrDuplicatedKey so the
// handler can answer 409 instead of 500.
func TestCreateUserDuplicateEmailIsDuplicatedKey(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	first, err := models.CreateUser("Omar Farooq", "omar@example.com", "s3cretpw", models.USER_TYPE_AGENT)
	require.NoError(t, err)
	require.NoError(t, repo.Create(first))

	second, err := models.CreateUser("Omar F. Khan", "omar@example.com", "s3cretpw", models.USER_TYPE_AGENT)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(second), gorm.ErrDuplicatedKey)
}

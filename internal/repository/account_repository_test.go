package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edusphere-api/internal/models"
	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
)

func TestAccountRepository(t *testing.T) {
	repo, err := NewAccountRepository("password", bcrypt.MinCost)
	require.NoError(t, err)

	acc, err := repo.FindByEmail(" Parent@EduSphere.com ")
	require.NoError(t, err)
	assert.Equal(t, models.RoleParent, acc.Role)
	assert.Equal(t, []string{"S001"}, acc.LinkedStudentIDs)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte("password")))

	_, err = repo.FindByEmail("nobody@edusphere.com")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestAccountRepositoryRequiresPassword(t *testing.T) {
	_, err := NewAccountRepository("", bcrypt.MinCost)
	assert.Error(t, err)
}

package repository

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edusphere-api/internal/models"
	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
)

// AccountRepository holds the demo login accounts, one per role.
type AccountRepository struct {
	byEmail map[string]models.Account
}

// DemoAccounts lists the demo identities without credentials.
func DemoAccounts() []models.Account {
	return []models.Account{
		{ID: "A001", Email: "admin@edusphere.com", Name: "Principal Skinner", Role: models.RoleAdmin},
		{ID: "T001", Email: "teacher@edusphere.com", Name: "Mrs. Krabappel", Role: models.RoleTeacher},
		{ID: "P001", Email: "parent@edusphere.com", Name: "Robert Johnson", Role: models.RoleParent, LinkedStudentIDs: []string{"S001"}},
		{ID: "S001", Email: "student@edusphere.com", Name: "Alice Johnson", Role: models.RoleStudent, LinkedStudentIDs: []string{"S001"}},
	}
}

// NewAccountRepository hashes password for every demo account. cost 0 uses bcrypt.DefaultCost.
func NewAccountRepository(password string, cost int) (*AccountRepository, error) {
	if password == "" {
		return nil, fmt.Errorf("demo password required")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	repo := &AccountRepository{byEmail: make(map[string]models.Account)}
	for _, acc := range DemoAccounts() {
		acc.PasswordHash = string(hash)
		repo.byEmail[strings.ToLower(acc.Email)] = acc
	}
	return repo, nil
}

// FindByEmail returns the account registered under email.
func (r *AccountRepository) FindByEmail(email string) (models.Account, error) {
	acc, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return models.Account{}, appErrors.Clone(appErrors.ErrNotFound, "account not found")
	}
	return acc, nil
}

package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"personachat/internal/models"
)

// ErrInvalidCredentials is returned for a bad email/password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialStore holds the users loaded from the credential file. It is
// populated once at startup and read-only afterwards.
type CredentialStore struct {
	byID    map[string]models.User
	byEmail map[string]models.User
}

// LoadCredentials reads the user file; when the file is missing, the default
// demo users are written out and used.
func LoadCredentials(path string) (*CredentialStore, error) {
	if path == "" {
		return nil, fmt.Errorf("users path is required")
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		users := defaultUsers()
		if werr := writeUsers(path, users); werr != nil {
			return nil, werr
		}
		return indexUsers(users), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}

	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode users file: %w", err)
	}
	return indexUsers(users), nil
}

// Authenticate checks an email/password pair against the store.
func (s *CredentialStore) Authenticate(email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, ok := s.byEmail[email]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if user.PasswordHash != HashPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// FindByID looks a user up by id.
func (s *CredentialStore) FindByID(id string) (*models.User, bool) {
	user, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &user, true
}

// HashPassword hashes a password the same way the credential file stores it.
func HashPassword(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

func indexUsers(users []models.User) *CredentialStore {
	s := &CredentialStore{
		byID:    make(map[string]models.User, len(users)),
		byEmail: make(map[string]models.User, len(users)),
	}
	for _, u := range users {
		s.byID[u.ID] = u
		s.byEmail[strings.ToLower(u.Email)] = u
	}
	return s
}

func defaultUsers() []models.User {
	return []models.User{
		{ID: "1", Email: "exec@company.com", PasswordHash: HashPassword("exec123"), Persona: models.PersonaExecutive},
		{ID: "2", Email: "dev@company.com", PasswordHash: HashPassword("dev123"), Persona: models.PersonaDeveloper},
		{ID: "3", Email: "hr@company.com", PasswordHash: HashPassword("hr123"), Persona: models.PersonaHRSpecialist},
		{ID: "4", Email: "student@university.edu", PasswordHash: HashPassword("student123"), Persona: models.PersonaStudent},
	}
}

func writeUsers(path string, users []models.User) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create users dir: %w", err)
	}
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write users file: %w", err)
	}
	return nil
}

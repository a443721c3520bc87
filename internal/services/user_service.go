package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/madatlas/madatlas-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	FindByUsername(username string) (models.User, error)
	Create(username, password, role string) (models.User, error)
	Authenticate(username, password string) (models.User, error)
}

// UserService provides business logic for user accounts.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// FindByUsername retrieves a single user by exact username match.
func (s *UserService) FindByUsername(username string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, password_hash, role FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// Create registers a new user, hashing their password. The role defaults to
// "public" when empty.
func (s *UserService) Create(username, password, role string) (models.User, error) {
	if _, err := s.FindByUsername(username); err == nil {
		return models.User{}, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	if role == "" {
		role = models.RolePublic
	}

	res, err := s.db.Exec("INSERT INTO users(username, password_hash, role) VALUES(?, ?, ?)",
		username, string(hashedPassword), role)
	if err != nil {
		// The UNIQUE constraint backstops the pre-check against racing inserts.
		if strings.Contains(err.Error(), "UNIQUE") {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}

	return models.User{ID: id, Username: username, Role: role}, nil
}

// Authenticate verifies a user's credentials. Unknown usernames and wrong
// passwords both yield ErrInvalidCredentials.
func (s *UserService) Authenticate(username, password string) (models.User, error) {
	user, err := s.FindByUsername(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't hand the password hash back to callers
	user.PasswordHash = ""
	return user, nil
}

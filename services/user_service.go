package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/CSES-Open-Source/LowPriceCenter-sub000/models"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a user on first login exchange. The external uid is
// assigned here because this service doubles as the identity provider.
func (s *UserService) Register(displayName, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:          uuid.New().String(),
		ExternalUID: uuid.New().String(),
		DisplayName: displayName,
		Email:       email,
		Password:    string(hash),
		Active:      true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrUserDisabled
	}
	return &user, nil
}

// GetByExternalUID resolves a verified identity-provider subject to the
// application user. Inactive users fail the lookup: a disabled account must
// not pass any authentication gate.
func (s *UserService) GetByExternalUID(uid string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("external_uid = ?", uid).First(&user).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if !user.Active {
		return nil, ErrUserDisabled
	}
	return &user, nil
}

func (s *UserService) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// ResolveEmails maps emails to users. The second return value lists every
// email with no matching user, in input order.
func (s *UserService) ResolveEmails(emails []string) ([]models.User, []string, error) {
	normalized := make([]string, 0, len(emails))
	seen := make(map[string]bool, len(emails))
	for _, e := range emails {
		e = normalizeEmail(e)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		normalized = append(normalized, e)
	}

	var users []models.User
	if len(normalized) > 0 {
		if err := s.db.Where("email IN ?", normalized).Find(&users).Error; err != nil {
			return nil, nil, err
		}
	}

	found := make(map[string]bool, len(users))
	for _, u := range users {
		found[u.Email] = true
	}
	var failed []string
	for _, e := range normalized {
		if !found[e] {
			failed = append(failed, e)
		}
	}
	return users, failed, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

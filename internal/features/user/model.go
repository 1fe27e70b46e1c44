package user

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/salama968/LearnTube/pkg/types"
)

// User represents an account. Accounts are created either with an email and
// password or through Google sign-in, in which case GoogleID is set and
// PasswordHash stays nil.
type User struct {
	types.BaseModel

	GoogleID     *string `gorm:"type:varchar(64);column:google_id;uniqueIndex" json:"-"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Name         string  `gorm:"type:varchar(100);not null" json:"name"`
	AvatarURL    *string `gorm:"type:text;column:avatar_url" json:"avatarUrl,omitempty"`
	PasswordHash *string `gorm:"type:varchar(255);column:password_hash" json:"-"`
	RefreshToken *string `gorm:"type:text;column:refresh_token" json:"-"`
}

// TableName overrides the default table name.
func (User) TableName() string { return "users" }

// ComparePassword checks a plaintext password against the stored hash.
// Google-only accounts have no hash and never match.
func (u *User) ComparePassword(password string) bool {
	if u.PasswordHash == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)) == nil
}

// CreateInput carries data for creating a password-based user.
type CreateInput struct {
	Email    string
	Name     string
	Password string
}

// GoogleProfile carries the fields received from Google sign-in.
type GoogleProfile struct {
	GoogleID  string
	Email     string
	Name      string
	AvatarURL string
}

// Get retrieves a user by ID.
func Get(db *gorm.DB, id uuid.UUID) (User, error) {
	var usr User
	if err := db.First(&usr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usr, ErrUserNotFound
		}
		return usr, err
	}
	return usr, nil
}

// GetByEmail retrieves a user by email, case-insensitively.
func GetByEmail(db *gorm.DB, email string) (User, error) {
	var usr User
	if err := db.First(&usr, "LOWER(email) = ?", strings.ToLower(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usr, ErrUserNotFound
		}
		return usr, err
	}
	return usr, nil
}

// Create inserts a new password-based user.
func Create(db *gorm.DB, input CreateInput) (User, error) {
	var usr User

	if len(input.Password) < 8 {
		return usr, ErrInvalidPassword
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var count int64
	if err := db.Model(&User{}).Where("LOWER(email) = ?", email).Count(&count).Error; err != nil {
		return usr, err
	}
	if count > 0 {
		return usr, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return usr, err
	}
	hashStr := string(hash)

	usr = User{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: &hashStr,
	}
	if err := db.Create(&usr).Error; err != nil {
		return usr, err
	}
	return usr, nil
}

// UpsertByGoogleID finds the user for a Google profile, creating or linking
// as needed. An existing password account with the same email gets its
// Google ID attached rather than a duplicate row.
func UpsertByGoogleID(db *gorm.DB, profile GoogleProfile) (User, error) {
	var usr User
	err := db.First(&usr, "google_id = ?", profile.GoogleID).Error
	if err == nil {
		changed := false
		if usr.Name != profile.Name && profile.Name != "" {
			usr.Name = profile.Name
			changed = true
		}
		if profile.AvatarURL != "" && (usr.AvatarURL == nil || *usr.AvatarURL != profile.AvatarURL) {
			usr.AvatarURL = &profile.AvatarURL
			changed = true
		}
		if changed {
			if err := db.Save(&usr).Error; err != nil {
				return usr, err
			}
		}
		return usr, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return usr, err
	}

	existing, err := GetByEmail(db, profile.Email)
	if err == nil {
		existing.GoogleID = &profile.GoogleID
		if profile.AvatarURL != "" {
			existing.AvatarURL = &profile.AvatarURL
		}
		if err := db.Save(&existing).Error; err != nil {
			return existing, err
		}
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return usr, err
	}

	usr = User{
		GoogleID: &profile.GoogleID,
		Email:    strings.ToLower(profile.Email),
		Name:     profile.Name,
	}
	if profile.AvatarURL != "" {
		usr.AvatarURL = &profile.AvatarURL
	}
	if err := db.Create(&usr).Error; err != nil {
		return usr, err
	}
	return usr, nil
}

// SetRefreshToken stores (or clears, with nil) the user's refresh token.
func SetRefreshToken(db *gorm.DB, id uuid.UUID, token *string) error {
	return db.Model(&User{}).Where("id = ?", id).Update("refresh_token", token).Error
}

package auth

import (
	"context"
	"errors"
	"regexp"
	"time"

	"gorm.io/gorm"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/salama968/LearnTube/internal/features/user"
	"github.com/salama968/LearnTube/internal/utils/jwt"
	"github.com/salama968/LearnTube/pkg/config"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResponse struct {
	User         *user.User `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
}

type TokenConfig struct {
	JWTSecret          string
	JWTRefreshSecret   string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// TokenConfigFrom builds the token config from app configuration.
func TokenConfigFrom(cfg *config.Config) TokenConfig {
	return TokenConfig{
		JWTSecret:          cfg.JWTSecret,
		JWTRefreshSecret:   cfg.JWTRefreshSecret,
		AccessTokenExpiry:  jwt.AccessTokenExpiry,
		RefreshTokenExpiry: jwt.RefreshTokenExpiry,
	}
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Register creates a new password-based account.
func Register(db *gorm.DB, input RegisterInput, cfg TokenConfig) (*AuthResponse, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	if !emailRegex.MatchString(input.Email) {
		return nil, ErrInvalidEmail
	}

	if len(input.Password) < 8 {
		return nil, ErrWeakPassword
	}

	newUser, err := user.Create(db, user.CreateInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return nil, err
	}

	return issueTokens(db, &newUser, cfg)
}

// Login authenticates a password-based user and returns tokens.
func Login(db *gorm.DB, input LoginInput, cfg TokenConfig) (*AuthResponse, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	usr, err := user.GetByEmail(db, input.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !usr.ComparePassword(input.Password) {
		return nil, ErrInvalidCredentials
	}

	return issueTokens(db, &usr, cfg)
}

// RefreshToken rotates the refresh token and returns a fresh pair.
// The presented token must match the one stored for the user.
func RefreshToken(db *gorm.DB, refreshToken string, cfg TokenConfig) (*AuthResponse, error) {
	claims, err := jwt.VerifyToken(refreshToken, cfg.JWTRefreshSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	usr, err := user.Get(db, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if usr.RefreshToken == nil || *usr.RefreshToken != refreshToken {
		return nil, ErrInvalidToken
	}

	return issueTokens(db, &usr, cfg)
}

// Logout clears the stored refresh token for a user.
func Logout(db *gorm.DB, accessToken string, cfg TokenConfig) error {
	claims, err := jwt.VerifyToken(accessToken, cfg.JWTSecret)
	if err != nil {
		return ErrInvalidToken
	}

	return user.SetRefreshToken(db, claims.UserID, nil)
}

func issueTokens(db *gorm.DB, usr *user.User, cfg TokenConfig) (*AuthResponse, error) {
	accessToken, err := jwt.GenerateAccessToken(usr.ID, cfg.JWTSecret, cfg.AccessTokenExpiry)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(usr.ID, cfg.JWTRefreshSecret, cfg.RefreshTokenExpiry)
	if err != nil {
		return nil, err
	}

	if err := user.SetRefreshToken(db, usr.ID, &refreshToken); err != nil {
		return nil, err
	}
	usr.RefreshToken = &refreshToken

	return &AuthResponse{
		User:         usr,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GoogleOAuth wraps the Google sign-in flow.
type GoogleOAuth struct {
	config *oauth2.Config
}

// NewGoogleOAuth builds the oauth2 config for Google sign-in.
func NewGoogleOAuth(cfg config.GoogleConfig) *GoogleOAuth {
	return &GoogleOAuth{
		config: &oauth2.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// AuthURL returns the Google consent page URL for the given state.
func (g *GoogleOAuth) AuthURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for the user's Google profile.
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*user.GoogleProfile, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Join(ErrGoogleExchange, err)
	}

	svc, err := googleoauth.NewService(ctx, option.WithTokenSource(g.config.TokenSource(ctx, token)))
	if err != nil {
		return nil, errors.Join(ErrGoogleExchange, err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, errors.Join(ErrGoogleExchange, err)
	}

	return &user.GoogleProfile{
		GoogleID:  info.Id,
		Email:     info.Email,
		Name:      info.Name,
		AvatarURL: info.Picture,
	}, nil
}

// LoginWithGoogle completes the OAuth flow: upserts the account and issues tokens.
func LoginWithGoogle(db *gorm.DB, profile *user.GoogleProfile, cfg TokenConfig) (*AuthResponse, error) {
	usr, err := user.UpsertByGoogleID(db, *profile)
	if err != nil {
		return nil, err
	}
	return issueTokens(db, &usr, cfg)
}

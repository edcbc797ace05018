package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long an admin token stays valid.
const TokenTTL = 72 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// Authenticator signs and checks the tokens that guard the admin API's
// write routes. There is a single admin account, configured by email and
// bcrypt hash.
type Authenticator struct {
	secret     []byte
	adminEmail string
	adminHash  []byte
	now        func() time.Time
}

func NewAuthenticator(secret, adminEmail, adminPasswordHash string) *Authenticator {
	return &Authenticator{
		secret:     []byte(secret),
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
		adminHash:  []byte(adminPasswordHash),
		now:        time.Now,
	}
}

// HashPassword returns the bcrypt hash to put in ADMIN_PASSWORD_HASH.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login checks the admin credentials and returns a signed token.
func (a *Authenticator) Login(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.adminEmail)) == 1

	// Always run bcrypt so a wrong email costs the same as a wrong password.
	err := bcrypt.CompareHashAndPassword(a.adminHash, []byte(password))
	if !emailOK || err != nil {
		return "", ErrInvalidCredentials
	}
	return a.GenerateToken(email)
}

// GenerateToken creates a new JWT for the given subject.
func (a *Authenticator) GenerateToken(subject string) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ValidateToken parses and validates a JWT token string and returns its subject.
func (a *Authenticator) ValidateToken(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		// Reject anything not signed with HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Package auth issues and validates the bearer tokens of the API and hashes passwords.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/protomem/medicall/internal/model"
)

const _issuer = "medicall"

const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

type Claims struct {
	UserID    model.ID   `json:"userId"`
	Role      model.Role `json:"userType"`
	TokenType TokenType  `json:"tokenType"`
	jwt.RegisteredClaims
}

// Pair is the credential pair returned by register and login.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock replaces the time source; tests use it to expire tokens.
func (iss *Issuer) WithClock(now func() time.Time) *Issuer {
	iss.now = now
	return iss
}

func (iss *Issuer) IssuePair(user model.User) (Pair, error) {
	access, err := iss.Issue(user, TokenAccess)
	if err != nil {
		return Pair{}, err
	}

	refresh, err := iss.Issue(user, TokenRefresh)
	if err != nil {
		return Pair{}, err
	}

	return Pair{Access: access, Refresh: refresh}, nil
}

func (iss *Issuer) Issue(user model.User, typ TokenType) (string, error) {
	ttl := iss.accessTTL
	if typ == TokenRefresh {
		ttl = iss.refreshTTL
	}

	jti, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	now := iss.now()
	claims := Claims{
		UserID:    user.ID,
		Role:      user.Role,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti.String(),
			Issuer:    _issuer,
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(iss.secret)
}

// Parse validates signature, expiry and token type.
func (iss *Issuer) Parse(token string, typ TokenType) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return iss.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(_issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(iss.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", model.ErrInvalidToken, err)
	}

	if claims.TokenType != typ {
		return Claims{}, fmt.Errorf("%w: want %s token", model.ErrInvalidToken, typ)
	}

	return claims, nil
}

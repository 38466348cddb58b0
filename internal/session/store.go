// Package session authenticates students and admins and issues session tokens.
package session

import (
	"context"
	"errors"
	"fmt"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/storage"
	"log"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "grievance-portal"

// Store logs principals in and out. Tokens are HS256 JWTs; logout revokes a
// token's jti in storage until the token would have expired anyway.
type Store struct {
	Storage storage.Storage
	Hasher  PasswordHasher
	Secret  []byte
	TTL     time.Duration
	Now     func() time.Time

	// dummyHash is compared against when the identity is unknown so that a
	// missing account costs the same as a wrong password.
	dummyHash string
}

func NewStore(s storage.Storage, hasher PasswordHasher, secret []byte, ttl time.Duration) *Store {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		log.Printf("WARNING: Failed to prepare dummy password hash: %v", err)
	}
	return &Store{
		Storage:   s,
		Hasher:    hasher,
		Secret:    secret,
		TTL:       ttl,
		Now:       time.Now,
		dummyHash: dummy,
	}
}

// Login verifies credentials and returns the principal with a signed session token.
// Unknown identities and wrong passwords both yield models.ErrInvalidCredentials.
func (s *Store) Login(ctx context.Context, creds Credentials) (*models.Principal, string, error) {
	if err := creds.Validate(); err != nil {
		return nil, "", err
	}

	var principal *models.Principal
	var hash string

	switch creds.UserType {
	case models.RoleStudent:
		student, err := s.Storage.FindStudentByRegistrationNumber(ctx, creds.RegistrationNumber)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, "", fmt.Errorf("look up student: %w", err)
		}
		if student != nil {
			hash = student.PasswordHash
			principal = &models.Principal{
				ID:                 student.ID,
				DisplayName:        student.FullName,
				Role:               models.RoleStudent,
				RegistrationNumber: student.RegistrationNumber,
			}
		}
	case models.RoleAdmin:
		admin, err := s.Storage.FindAdminByEmail(ctx, creds.Email)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, "", fmt.Errorf("look up admin: %w", err)
		}
		if admin != nil {
			hash = admin.PasswordHash
			principal = &models.Principal{
				ID:          admin.ID,
				DisplayName: admin.FullName,
				Role:        models.RoleAdmin,
			}
		}
	}

	if principal == nil {
		_ = s.Hasher.Compare(s.dummyHash, creds.Password)
		return nil, "", models.ErrInvalidCredentials
	}
	if err := s.Hasher.Compare(hash, creds.Password); err != nil {
		return nil, "", models.ErrInvalidCredentials
	}

	token, err := s.Issue(principal)
	if err != nil {
		return nil, "", err
	}
	log.Printf("INFO: %s %s signed in", principal.Role, principal.ID)
	return principal, token, nil
}

// Issue signs a session token for p.
func (s *Store) Issue(p *models.Principal) (string, error) {
	now := s.Now()
	claims := jwt.MapClaims{
		"sub":  p.ID,
		"name": p.DisplayName,
		"role": string(p.Role),
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(s.TTL).Unix(),
		"iss":  issuer,
	}
	if p.RegistrationNumber != "" {
		claims["reg"] = p.RegistrationNumber
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (s *Store) parse(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.Now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Current resolves a session token to its principal. Expired, forged or
// logged-out tokens yield models.ErrUnauthenticated.
func (s *Store) Current(ctx context.Context, tokenString string) (*models.Principal, error) {
	if tokenString == "" {
		return nil, models.ErrUnauthenticated
	}
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, models.ErrUnauthenticated
	}

	jti, _ := claims["jti"].(string)
	revoked, err := s.Storage.IsTokenRevoked(ctx, jti)
	if err != nil {
		return nil, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return nil, models.ErrUnauthenticated
	}

	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	reg, _ := claims["reg"].(string)
	principal := &models.Principal{ID: sub, DisplayName: name, Role: models.Role(role), RegistrationNumber: reg}
	if principal.ID == "" || !principal.Role.Valid() {
		return nil, models.ErrUnauthenticated
	}
	return principal, nil
}

// Logout revokes the token. An already invalid token is not an error.
func (s *Store) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	ttl := exp.Sub(s.Now())
	if err := s.Storage.RevokeToken(ctx, jti, ttl); err != nil {
		return fmt.Errorf("revoke session token: %w", err)
	}
	return nil
}

package session_test

import (
	"context"
	"errors"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/session"
	"grievanceportal/backend/internal/storage/storagemock"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var secret = []byte("test-secret")

func newStore(t *testing.T) (*session.Store, *storagemock.MockStorage, *session.BcryptHasher) {
	t.Helper()
	m := new(storagemock.MockStorage)
	hasher := session.NewBcryptHasher(bcrypt.MinCost)
	return session.NewStore(m, hasher, secret, time.Hour), m, hasher
}

func hashOf(t *testing.T, h *session.BcryptHasher, pw string) string {
	t.Helper()
	hash, err := h.Hash(pw)
	require.NoError(t, err)
	return hash
}

func TestLogin_StudentSuccess(t *testing.T) {
	// Arrange
	store, m, hasher := newStore(t)
	student := &models.Student{ID: "s1", RegistrationNumber: "RA2111003", FullName: "Asha Verma", PasswordHash: hashOf(t, hasher, "secret1")}
	m.On("FindStudentByRegistrationNumber", mock.Anything, "RA2111003").Return(student, nil)
	m.On("IsTokenRevoked", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)

	// Act
	principal, token, err := store.Login(context.Background(), session.Credentials{
		UserType: models.RoleStudent, RegistrationNumber: "RA2111003", Password: "secret1",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, principal.Role)
	assert.Equal(t, "Asha Verma", principal.DisplayName)
	assert.Equal(t, "RA2111003", principal.RegistrationNumber)
	assert.NotEmpty(t, token)

	current, err := store.Current(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, principal, current)
}

func TestLogin_AdminSuccess(t *testing.T) {
	store, m, hasher := newStore(t)
	admin := &models.User{ID: "a1", Email: "dean@example.edu", FullName: "Dean", Role: models.RoleAdmin, PasswordHash: hashOf(t, hasher, "password123")}
	m.On("FindAdminByEmail", mock.Anything, "dean@example.edu").Return(admin, nil)

	principal, _, err := store.Login(context.Background(), session.Credentials{
		UserType: models.RoleAdmin, Email: " dean@example.edu ", Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, principal.Role)
	assert.Equal(t, "a1", principal.ID)
}

func TestLogin_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	store, m, hasher := newStore(t)
	student := &models.Student{ID: "s1", RegistrationNumber: "RA1", FullName: "Asha", PasswordHash: hashOf(t, hasher, "secret1")}
	m.On("FindStudentByRegistrationNumber", mock.Anything, "RA1").Return(student, nil)
	m.On("FindStudentByRegistrationNumber", mock.Anything, "RA2").Return(nil, models.ErrNotFound)

	p1, tok1, errWrong := store.Login(context.Background(), session.Credentials{UserType: models.RoleStudent, RegistrationNumber: "RA1", Password: "wrong-pw"})
	p2, tok2, errUnknown := store.Login(context.Background(), session.Credentials{UserType: models.RoleStudent, RegistrationNumber: "RA2", Password: "secret1"})

	assert.Nil(t, p1)
	assert.Nil(t, p2)
	assert.Empty(t, tok1)
	assert.Empty(t, tok2)
	assert.ErrorIs(t, errWrong, models.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, models.ErrInvalidCredentials)
	assert.Equal(t, errWrong.Error(), errUnknown.Error())
}

func TestLogin_ShapeErrorsBeforeLookup(t *testing.T) {
	tests := []struct {
		name  string
		creds session.Credentials
		field string
	}{
		{"missing user type", session.Credentials{Password: "secret1"}, "user_type"},
		{"empty registration", session.Credentials{UserType: models.RoleStudent, Password: "secret1"}, "registration_number"},
		{"lowercase prefix", session.Credentials{UserType: models.RoleStudent, RegistrationNumber: "ra123", Password: "secret1"}, "registration_number"},
		{"non digits", session.Credentials{UserType: models.RoleStudent, RegistrationNumber: "RA12x", Password: "secret1"}, "registration_number"},
		{"short student password", session.Credentials{UserType: models.RoleStudent, RegistrationNumber: "RA123", Password: "12345"}, "password"},
		{"bad email", session.Credentials{UserType: models.RoleAdmin, Email: "not-an-email", Password: "password123"}, "email"},
		{"short admin password", session.Credentials{UserType: models.RoleAdmin, Email: "a@b.co", Password: "1234567"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, m, _ := newStore(t)

			_, _, err := store.Login(context.Background(), tt.creds)

			var vErr *models.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
			m.AssertNotCalled(t, "FindStudentByRegistrationNumber", mock.Anything, mock.Anything)
			m.AssertNotCalled(t, "FindAdminByEmail", mock.Anything, mock.Anything)
		})
	}
}

func TestLogin_BackendErrorIsNotCredentialError(t *testing.T) {
	store, m, _ := newStore(t)
	m.On("FindAdminByEmail", mock.Anything, "dean@example.edu").Return(nil, errors.New("connection refused"))

	_, _, err := store.Login(context.Background(), session.Credentials{UserType: models.RoleAdmin, Email: "dean@example.edu", Password: "password123"})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestCurrent_RejectsBadTokens(t *testing.T) {
	store, _, _ := newStore(t)
	other := session.NewStore(new(storagemock.MockStorage), session.NewBcryptHasher(bcrypt.MinCost), []byte("other-secret"), time.Hour)
	forged, err := other.Issue(&models.Principal{ID: "a1", Role: models.RoleAdmin, DisplayName: "x"})
	require.NoError(t, err)

	for name, token := range map[string]string{"empty": "", "garbage": "abc.def.ghi", "forged": forged} {
		t.Run(name, func(t *testing.T) {
			_, err := store.Current(context.Background(), token)
			assert.ErrorIs(t, err, models.ErrUnauthenticated)
		})
	}
}

func TestCurrent_Expired(t *testing.T) {
	store, _, _ := newStore(t)
	issuedAt := time.Now().Add(-2 * time.Hour)
	store.Now = func() time.Time { return issuedAt }
	token, err := store.Issue(&models.Principal{ID: "s1", Role: models.RoleStudent, DisplayName: "x"})
	require.NoError(t, err)
	store.Now = time.Now

	_, err = store.Current(context.Background(), token)

	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestLogout_RevokesToken(t *testing.T) {
	// Arrange
	store, m, _ := newStore(t)
	token, err := store.Issue(&models.Principal{ID: "s1", Role: models.RoleStudent, DisplayName: "Asha", RegistrationNumber: "RA1"})
	require.NoError(t, err)

	var revokedID string
	m.On("RevokeToken", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).
		Run(func(args mock.Arguments) { revokedID = args.String(1) }).
		Return(nil)

	// Act
	require.NoError(t, store.Logout(context.Background(), token))
	m.On("IsTokenRevoked", mock.Anything, revokedID).Return(true, nil)
	_, err = store.Current(context.Background(), token)

	// Assert
	assert.NotEmpty(t, revokedID)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestLogout_InvalidTokenIsNoop(t *testing.T) {
	store, m, _ := newStore(t)

	assert.NoError(t, store.Logout(context.Background(), "not-a-token"))
	m.AssertNotCalled(t, "RevokeToken", mock.Anything, mock.Anything, mock.Anything)
}

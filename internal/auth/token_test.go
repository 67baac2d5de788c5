package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobboard/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	tm, err := NewTokenManager("secret", 0)
	require.NoError(t, err)

	uid := primitive.NewObjectID()
	tok, err := tm.Issue(uid, "a@example.com", models.RoleCompany)
	require.NoError(t, err)

	id, err := tm.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, uid, id.UserID)
	assert.Equal(t, "a@example.com", id.Email)
	assert.Equal(t, models.RoleCompany, id.Role)
}

func TestDefaultTTLIsThirtyDays(t *testing.T) {
	tm, err := NewTokenManager("secret", 0)
	require.NoError(t, err)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tm.now = func() time.Time { return start }

	tok, err := tm.Issue(primitive.NewObjectID(), "a@example.com", models.RoleUser)
	require.NoError(t, err)

	tm.now = func() time.Time { return start.Add(29 * 24 * time.Hour) }
	_, err = tm.Verify(tok)
	assert.NoError(t, err)

	tm.now = func() time.Time { return start.Add(31 * 24 * time.Hour) }
	_, err = tm.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer, _ := NewTokenManager("one", time.Hour)
	verifier, _ := NewTokenManager("two", time.Hour)

	tok, err := issuer.Issue(primitive.NewObjectID(), "a@example.com", models.RoleUser)
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	tm, _ := NewTokenManager("secret", time.Hour)
	c := claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   primitive.NewObjectID().Hex(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, c).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = tm.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyRejectsGarbageAndBadSubject(t *testing.T) {
	tm, _ := NewTokenManager("secret", time.Hour)

	_, err := tm.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	c := claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "not-an-object-id",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("secret"))
	_, err = tm.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestIdentityCanManage(t *testing.T) {
	owner := primitive.NewObjectID()
	assert.True(t, Identity{UserID: owner, Role: models.RoleUser}.CanManage(owner))
	assert.False(t, Identity{UserID: primitive.NewObjectID(), Role: models.RoleCompany}.CanManage(owner))
	assert.True(t, Identity{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}.CanManage(owner))
	assert.False(t, Identity{Role: models.RoleUser}.CanManage(primitive.NilObjectID))
}

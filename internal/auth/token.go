package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yoockh/jobboard/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultTTL is the validity of an issued credential.
const DefaultTTL = 30 * 24 * time.Hour

var (
	ErrInvalidCredential = errors.New("invalid or expired credential")
	ErrMissingSecret     = errors.New("signing secret is empty")
)

// Identity is the authenticated caller resolved from a credential.
type Identity struct {
	UserID primitive.ObjectID `json:"id"`
	Email  string             `json:"email"`
	Role   models.Role        `json:"role"`
}

func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }

// CanManage reports whether the identity owns the resource or is an admin.
func (i Identity) CanManage(owner primitive.ObjectID) bool {
	return i.IsAdmin() || (!owner.IsZero() && owner == i.UserID)
}

type claims struct {
	jwt.RegisteredClaims
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// TokenManager signs and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (m *TokenManager) Issue(userID primitive.ObjectID, email string, role models.Role) (string, error) {
	now := m.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Email: email,
		Role:  role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

func (m *TokenManager) Verify(raw string) (Identity, error) {
	c := &claims{}
	tok, err := jwt.ParseWithClaims(raw, c, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || tok == nil || !tok.Valid {
		return Identity{}, ErrInvalidCredential
	}

	id, err := primitive.ObjectIDFromHex(c.Subject)
	if err != nil {
		return Identity{}, ErrInvalidCredential
	}
	return Identity{UserID: id, Email: c.Email, Role: c.Role}, nil
}

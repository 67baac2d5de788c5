package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yoockh/jobboard/internal/auth"
	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/repositories"
	"github.com/yoockh/jobboard/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const minPasswordLen = 6

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Session is what register and login hand back to the client.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Me describes the caller together with the profiles it owns.
type Me struct {
	User           *models.User        `json:"user"`
	Role           models.Role         `json:"role"`
	CompanyID      *primitive.ObjectID `json:"company_id,omitempty"`
	ProfessionalID *primitive.ObjectID `json:"professional_id,omitempty"`
	TraineeID      *primitive.ObjectID `json:"trainee_id,omitempty"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*Session, error)
	Login(ctx context.Context, in LoginInput) (*Session, error)
	Me(ctx context.Context, id auth.Identity) (*Me, error)
	// Refresh reloads the identity from the user record so role changes
	// and deactivations apply to tokens already issued.
	Refresh(ctx context.Context, id auth.Identity) (auth.Identity, error)
}

type authService struct {
	repos  repositories.Set
	tokens *auth.TokenManager
}

func NewAuthService(repos repositories.Set, tokens *auth.TokenManager) AuthService {
	return &authService{repos: repos, tokens: tokens}
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *authService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	const op = "AuthService.Register"

	if len(in.Password) < minPasswordLen {
		return nil, utils.E(utils.CodeInvalidArgument, op, "password must be at least 6 characters", nil)
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	u := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         models.RoleUser,
		Phone:        strings.TrimSpace(in.Phone),
		IsActive:     true,
	}
	u.Touch(now())
	if err := models.Validate(u); err != nil {
		return nil, invalid(op, err)
	}
	if err := s.repos.Users.Create(ctx, u); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "email is already registered", err)
		}
		return nil, repoErr(op, "user", err)
	}
	return s.session(op, u)
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	const op = "AuthService.Login"
	badCredentials := utils.E(utils.CodeUnauthorized, op, "invalid email or password", nil)

	u, err := s.repos.Users.GetByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, utils.ErrNotFound) {
		utils.BurnPasswordCheck(in.Password)
		return nil, badCredentials
	}
	if err != nil {
		return nil, repoErr(op, "user", err)
	}
	if utils.CheckPassword(u.PasswordHash, in.Password) != nil {
		return nil, badCredentials
	}
	if !u.IsActive {
		return nil, utils.E(utils.CodeForbidden, op, "account is disabled", nil)
	}
	return s.session(op, u)
}

func (s *authService) session(op string, u *models.User) (*Session, error) {
	token, err := s.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return &Session{Token: token, User: u}, nil
}

func (s *authService) Me(ctx context.Context, id auth.Identity) (*Me, error) {
	const op = "AuthService.Me"

	u, err := s.repos.Users.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, repoErr(op, "user", err)
	}
	me := &Me{User: u, Role: u.Role}

	if c, err := s.repos.Companies.GetByUser(ctx, u.ID); err == nil {
		me.CompanyID = &c.ID
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, repoErr(op, "company", err)
	}
	if p, err := s.repos.Professionals.GetByUser(ctx, u.ID); err == nil {
		me.ProfessionalID = &p.ID
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, repoErr(op, "professional", err)
	}
	if t, err := s.repos.Trainees.GetByUser(ctx, u.ID); err == nil {
		me.TraineeID = &t.ID
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, repoErr(op, "trainee", err)
	}

	me.Role = effectiveRole(u.Role, me.ProfessionalID != nil, me.TraineeID != nil)
	return me, nil
}

// effectiveRole reports plain users by the job-seeker profile they own.
func effectiveRole(stored models.Role, professional, trainee bool) models.Role {
	if stored != models.RoleUser {
		return stored
	}
	switch {
	case professional:
		return models.RoleProfessional
	case trainee:
		return models.RoleTrainee
	}
	return stored
}

func (s *authService) Refresh(ctx context.Context, id auth.Identity) (auth.Identity, error) {
	const op = "AuthService.Refresh"

	u, err := s.repos.Users.GetByID(ctx, id.UserID)
	if errors.Is(err, utils.ErrNotFound) {
		return auth.Identity{}, utils.E(utils.CodeUnauthorized, op, "user no longer exists", err)
	}
	if err != nil {
		return auth.Identity{}, repoErr(op, "user", err)
	}
	if !u.IsActive {
		return auth.Identity{}, utils.E(utils.CodeUnauthorized, op, "account is disabled", nil)
	}
	return auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}, nil
}

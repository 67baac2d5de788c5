package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yoockh/jobboard/internal/auth"
	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/repositories"
	"github.com/yoockh/jobboard/internal/utils"
)

type UserUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Phone    *string `json:"phone"`
	Avatar   *string `json:"avatar"`

	// admin only
	Role       *models.Role `json:"role"`
	IsActive   *bool        `json:"is_active"`
	IsVerified *bool        `json:"is_verified"`
}

type UserService interface {
	List(ctx context.Context, role string) ([]models.User, error)
	Get(ctx context.Context, caller auth.Identity, id string) (*models.User, error)
	Update(ctx context.Context, caller auth.Identity, id string, in UserUpdate) (*models.User, error)
}

type userService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) List(ctx context.Context, role string) ([]models.User, error) {
	const op = "UserService.List"

	var f repositories.UserFilter
	if role = strings.TrimSpace(role); role != "" {
		r := models.Role(role)
		if !r.Valid() {
			return nil, utils.E(utils.CodeInvalidArgument, op, "unknown role "+role, nil)
		}
		f.Role = &r
	}
	out, err := s.users.List(ctx, f)
	if err != nil {
		return nil, repoErr(op, "users", err)
	}
	return out, nil
}

func (s *userService) Get(ctx context.Context, caller auth.Identity, id string) (*models.User, error) {
	const op = "UserService.Get"

	uid, err := pathID(op, "user", id)
	if err != nil {
		return nil, err
	}
	if !caller.CanManage(uid) {
		return nil, utils.E(utils.CodeForbidden, op, "you can only view your own account", nil)
	}
	u, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, repoErr(op, "user", err)
	}
	return u, nil
}

func (s *userService) Update(ctx context.Context, caller auth.Identity, id string, in UserUpdate) (*models.User, error) {
	const op = "UserService.Update"

	uid, err := pathID(op, "user", id)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, repoErr(op, "user", err)
	}
	if !caller.CanManage(u.ID) {
		return nil, forbidden(op)
	}
	if !caller.IsAdmin() && (in.Role != nil || in.IsActive != nil || in.IsVerified != nil) {
		return nil, utils.E(utils.CodeForbidden, op, "only admins can change role or account status", nil)
	}

	setString(&u.Name, in.Name)
	setString(&u.Phone, in.Phone)
	setString(&u.Avatar, in.Avatar)
	if in.Email != nil {
		u.Email = normalizeEmail(*in.Email)
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLen {
			return nil, utils.E(utils.CodeInvalidArgument, op, "password must be at least 6 characters", nil)
		}
		hash, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
		}
		u.PasswordHash = hash
	}
	setValue(&u.Role, in.Role)
	setValue(&u.IsActive, in.IsActive)
	setValue(&u.IsVerified, in.IsVerified)

	u.Touch(now())
	if err := models.Validate(u); err != nil {
		return nil, invalid(op, err)
	}
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "email is already registered", err)
		}
		return nil, repoErr(op, "user", err)
	}
	return u, nil
}

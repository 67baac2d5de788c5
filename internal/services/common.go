package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/repositories"
	"github.com/yoockh/jobboard/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileDownload is a stored file ready to stream. Callers close Body.
type FileDownload struct {
	Name        string
	ContentType string
	Body        io.ReadCloser
}

func now() time.Time { return time.Now().UTC() }

// repoErr turns a repository failure into an AppError.
func repoErr(op, what string, err error) error {
	var ae *utils.AppError
	switch {
	case errors.As(err, &ae):
		return err
	case errors.Is(err, utils.ErrNotFound):
		return utils.E(utils.CodeNotFound, op, what+" not found", err)
	case errors.Is(err, utils.ErrDuplicate):
		return utils.E(utils.CodeConflict, op, what+" already exists", err)
	default:
		return utils.E(utils.CodeInternal, op, "failed to access "+what, err)
	}
}

func invalid(op string, err error) error {
	return utils.E(utils.CodeInvalidArgument, op, err.Error(), err)
}

// pathID parses an id taken from the URL; malformed ids cannot match a
// document so they read as not found.
func pathID(op, what, s string) (primitive.ObjectID, error) {
	id, ok := models.ParseID(s)
	if !ok {
		return primitive.NilObjectID, utils.E(utils.CodeNotFound, op, what+" not found", utils.ErrNotFound)
	}
	return id, nil
}

// bodyID parses an id supplied in a payload or query string.
func bodyID(op, field, s string) (primitive.ObjectID, error) {
	id, ok := models.ParseID(strings.TrimSpace(s))
	if !ok {
		return primitive.NilObjectID, utils.E(utils.CodeInvalidArgument, op, field+" is not a valid id", nil)
	}
	return id, nil
}

// optionalID is bodyID for filters: blank means unset.
func optionalID(op, field, s string) (*primitive.ObjectID, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	id, err := bodyID(op, field, s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func forbidden(op string) error {
	return utils.E(utils.CodeForbidden, op, "you are not allowed to modify this resource", nil)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setValue[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// lookupProfession resolves a profession id from a request body. Unknown
// professions are a client error, not a missing resource.
func lookupProfession(ctx context.Context, op string, professions repositories.ProfessionRepository, raw string) (*models.Profession, error) {
	pid, err := bodyID(op, "profession_id", raw)
	if err != nil {
		return nil, err
	}
	p, err := professions.GetByID(ctx, pid)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "profession does not exist", err)
	}
	if err != nil {
		return nil, repoErr(op, "profession", err)
	}
	return p, nil
}

// ensureNoSeekerProfile fails when userID already owns a professional or a
// trainee profile. A user applies to jobs through exactly one of them.
func ensureNoSeekerProfile(ctx context.Context, op string, repos repositories.Set, userID primitive.ObjectID) error {
	if _, err := repos.Professionals.GetByUser(ctx, userID); err == nil {
		return utils.E(utils.CodeConflict, op, "you already have a professional profile", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return repoErr(op, "professional", err)
	}
	if _, err := repos.Trainees.GetByUser(ctx, userID); err == nil {
		return utils.E(utils.CodeConflict, op, "you already have a trainee profile", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return repoErr(op, "trainee", err)
	}
	return nil
}

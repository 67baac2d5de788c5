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

type TraineeInput struct {
	ProfileInput

	Institution  *string `json:"institution"`
	FieldOfStudy *string `json:"field_of_study"`
}

type TraineeService interface {
	List(ctx context.Context, q ProfileQuery) ([]models.Trainee, error)
	Get(ctx context.Context, id string) (*models.Trainee, error)
	Mine(ctx context.Context, caller auth.Identity) (*models.Trainee, error)
	Create(ctx context.Context, caller auth.Identity, in TraineeInput) (*models.Trainee, error)
	Update(ctx context.Context, caller auth.Identity, id string, in TraineeInput) (*models.Trainee, error)
}

type traineeService struct {
	repos repositories.Set
	refs  *resolver
}

func NewTraineeService(repos repositories.Set) TraineeService {
	return &traineeService{repos: repos, refs: &resolver{repos: repos}}
}

func (s *traineeService) List(ctx context.Context, q ProfileQuery) ([]models.Trainee, error) {
	const op = "TraineeService.List"

	f, err := profileFilter(op, q)
	if err != nil {
		return nil, err
	}
	out, err := s.repos.Trainees.List(ctx, f)
	if err != nil {
		return nil, repoErr(op, "trainees", err)
	}
	if err := s.expand(ctx, out); err != nil {
		return nil, repoErr(op, "references", err)
	}
	return out, nil
}

func (s *traineeService) Get(ctx context.Context, id string) (*models.Trainee, error) {
	const op = "TraineeService.Get"

	oid, err := pathID(op, "trainee", id)
	if err != nil {
		return nil, err
	}
	t, err := s.repos.Trainees.GetByID(ctx, oid)
	if err != nil {
		return nil, repoErr(op, "trainee", err)
	}
	return s.expandOne(ctx, op, t)
}

func (s *traineeService) Mine(ctx context.Context, caller auth.Identity) (*models.Trainee, error) {
	const op = "TraineeService.Mine"

	t, err := s.repos.Trainees.GetByUser(ctx, caller.UserID)
	if err != nil {
		return nil, repoErr(op, "trainee", err)
	}
	return s.expandOne(ctx, op, t)
}

func (s *traineeService) expandOne(ctx context.Context, op string, t *models.Trainee) (*models.Trainee, error) {
	one := []models.Trainee{*t}
	if err := s.expand(ctx, one); err != nil {
		return nil, repoErr(op, "references", err)
	}
	return &one[0], nil
}

func (s *traineeService) expand(ctx context.Context, ts []models.Trainee) error {
	q := refQuery{}
	for i := range ts {
		q.add(kindProfession, ts[i].ProfessionID)
		q.add(kindUser, &ts[i].UserID)
		q.addLocation(&ts[i].LocationRefs)
	}
	tab, err := s.refs.resolve(ctx, q)
	if err != nil {
		return err
	}
	for i := range ts {
		ts[i].Profession = tab.ref(kindProfession, ts[i].ProfessionID)
		ts[i].User = tab.ref(kindUser, &ts[i].UserID)
		tab.fillLocation(&ts[i].LocationRefs)
	}
	return nil
}

func (s *traineeService) Create(ctx context.Context, caller auth.Identity, in TraineeInput) (*models.Trainee, error) {
	const op = "TraineeService.Create"

	if err := ensureNoSeekerProfile(ctx, op, s.repos, caller.UserID); err != nil {
		return nil, err
	}
	t := &models.Trainee{UserID: caller.UserID, Email: caller.Email, Skills: []string{}}
	if err := s.merge(ctx, op, t, in); err != nil {
		return nil, err
	}
	t.Touch(now())
	if err := models.Validate(t); err != nil {
		return nil, invalid(op, err)
	}
	if err := s.repos.Trainees.Create(ctx, t); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "you already have a trainee profile", err)
		}
		return nil, repoErr(op, "trainee", err)
	}
	return s.expandOne(ctx, op, t)
}

func (s *traineeService) Update(ctx context.Context, caller auth.Identity, id string, in TraineeInput) (*models.Trainee, error) {
	const op = "TraineeService.Update"

	oid, err := pathID(op, "trainee", id)
	if err != nil {
		return nil, err
	}
	t, err := s.repos.Trainees.GetByID(ctx, oid)
	if err != nil {
		return nil, repoErr(op, "trainee", err)
	}
	if !caller.CanManage(t.UserID) {
		return nil, forbidden(op)
	}
	if err := s.merge(ctx, op, t, in); err != nil {
		return nil, err
	}
	t.Touch(now())
	if err := models.Validate(t); err != nil {
		return nil, invalid(op, err)
	}
	if err := s.repos.Trainees.Update(ctx, t); err != nil {
		return nil, repoErr(op, "trainee", err)
	}
	return s.expandOne(ctx, op, t)
}

func (s *traineeService) merge(ctx context.Context, op string, t *models.Trainee, in TraineeInput) error {
	if err := mergeProfile(ctx, op, s.repos.Professions, &profileFields{
		loc:        &t.LocationRefs,
		firstName:  &t.FirstName,
		lastName:   &t.LastName,
		email:      &t.Email,
		phone:      &t.Phone,
		profession: &t.ProfessionID,
		skills:     &t.Skills,
		bio:        &t.Bio,
		avatar:     &t.Avatar,
	}, in.ProfileInput); err != nil {
		return err
	}
	setString(&t.Institution, in.Institution)
	setString(&t.FieldOfStudy, in.FieldOfStudy)
	return nil
}

// profileFields points at the fields professionals and trainees share.
type profileFields struct {
	loc        *models.LocationRefs
	firstName  *string
	lastName   *string
	email      *string
	phone      *string
	profession **primitive.ObjectID
	skills     *[]string
	bio        *string
	avatar     *string
}

func mergeProfile(ctx context.Context, op string, professions repositories.ProfessionRepository, f *profileFields, in ProfileInput) error {
	if err := in.LocationInput.Apply(f.loc); err != nil {
		return utils.E(utils.CodeInvalidArgument, op, "location ids must be valid ids", err)
	}
	if in.ProfessionID != nil {
		if strings.TrimSpace(*in.ProfessionID) == "" {
			*f.profession = nil
		} else {
			p, err := lookupProfession(ctx, op, professions, *in.ProfessionID)
			if err != nil {
				return err
			}
			*f.profession = &p.ID
		}
	}
	setString(f.firstName, in.FirstName)
	setString(f.lastName, in.LastName)
	if in.Email != nil {
		*f.email = normalizeEmail(*in.Email)
	}
	setString(f.phone, in.Phone)
	setString(f.bio, in.Bio)
	setString(f.avatar, in.Avatar)
	if in.Skills != nil {
		*f.skills = cleanList(in.Skills)
	}
	return nil
}

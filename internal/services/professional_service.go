package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yoockh/jobboard/internal/auth"
	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/repositories"
	"github.com/yoockh/jobboard/internal/storage"
	"github.com/yoockh/jobboard/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxCVSize = 10 << 20

var cvTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// CVContentType returns the content type stored CVs with ext are served as.
func CVContentType(ext string) (string, bool) {
	ct, ok := cvTypes[strings.ToLower(ext)]
	return ct, ok
}

type ProfileQuery struct {
	Profession string
	Country    string
	City       string
	Search     string
}

type ProfileInput struct {
	models.LocationInput

	FirstName    *string  `json:"first_name"`
	LastName     *string  `json:"last_name"`
	Email        *string  `json:"email"`
	Phone        *string  `json:"phone"`
	ProfessionID *string  `json:"profession_id"`
	Skills       []string `json:"skills"`
	Bio          *string  `json:"bio"`
	Avatar       *string  `json:"avatar"`
}

type ProfessionalInput struct {
	ProfileInput

	Title           *string                  `json:"title"`
	ExperienceYears *int                     `json:"experience_years"`
	Education       *[]models.EducationEntry `json:"education"`
	IsAvailable     *bool                    `json:"is_available"`

	// Unclaimed lets an admin import a profile without an owner.
	Unclaimed bool `json:"unclaimed"`
}

type ProfessionalService interface {
	List(ctx context.Context, q ProfileQuery) ([]models.Professional, error)
	Get(ctx context.Context, id string) (*models.Professional, error)
	Mine(ctx context.Context, caller auth.Identity) (*models.Professional, error)
	Create(ctx context.Context, caller auth.Identity, in ProfessionalInput) (*models.Professional, error)
	Update(ctx context.Context, caller auth.Identity, id string, in ProfessionalInput) (*models.Professional, error)
	// Claim binds an unowned profile to the caller.
	Claim(ctx context.Context, caller auth.Identity, id string) (*models.Professional, error)

	UploadCV(ctx context.Context, caller auth.Identity, filename string, size int64, r io.Reader) (*models.Professional, error)
	OpenCV(ctx context.Context, id string) (*FileDownload, error)
}

type professionalService struct {
	repos repositories.Set
	refs  *resolver
	store storage.Store
}

func NewProfessionalService(repos repositories.Set, store storage.Store) ProfessionalService {
	return &professionalService{repos: repos, refs: &resolver{repos: repos}, store: store}
}

func profileFilter(op string, q ProfileQuery) (repositories.ProfileFilter, error) {
	f := repositories.ProfileFilter{Search: strings.TrimSpace(q.Search)}
	var err error
	if f.ProfessionID, err = optionalID(op, "profession", q.Profession); err != nil {
		return f, err
	}
	if f.CountryID, err = optionalID(op, "country", q.Country); err != nil {
		return f, err
	}
	if f.CityID, err = optionalID(op, "city", q.City); err != nil {
		return f, err
	}
	return f, nil
}

func (s *professionalService) List(ctx context.Context, q ProfileQuery) ([]models.Professional, error) {
	const op = "ProfessionalService.List"

	f, err := profileFilter(op, q)
	if err != nil {
		return nil, err
	}
	out, err := s.repos.Professionals.List(ctx, f)
	if err != nil {
		return nil, repoErr(op, "professionals", err)
	}
	if err := s.expand(ctx, out); err != nil {
		return nil, repoErr(op, "references", err)
	}
	return out, nil
}

func (s *professionalService) Get(ctx context.Context, id string) (*models.Professional, error) {
	const op = "ProfessionalService.Get"

	oid, err := pathID(op, "professional", id)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, op, func() (*models.Professional, error) {
		return s.repos.Professionals.GetByID(ctx, oid)
	})
}

func (s *professionalService) Mine(ctx context.Context, caller auth.Identity) (*models.Professional, error) {
	const op = "ProfessionalService.Mine"

	return s.load(ctx, op, func() (*models.Professional, error) {
		return s.repos.Professionals.GetByUser(ctx, caller.UserID)
	})
}

func (s *professionalService) load(ctx context.Context, op string, get func() (*models.Professional, error)) (*models.Professional, error) {
	p, err := get()
	if err != nil {
		return nil, repoErr(op, "professional", err)
	}
	one := []models.Professional{*p}
	if err := s.expand(ctx, one); err != nil {
		return nil, repoErr(op, "references", err)
	}
	return &one[0], nil
}

func (s *professionalService) expand(ctx context.Context, ps []models.Professional) error {
	q := refQuery{}
	for i := range ps {
		q.add(kindProfession, ps[i].ProfessionID)
		q.add(kindUser, ps[i].UserID)
		q.addLocation(&ps[i].LocationRefs)
	}
	t, err := s.refs.resolve(ctx, q)
	if err != nil {
		return err
	}
	for i := range ps {
		ps[i].Profession = t.ref(kindProfession, ps[i].ProfessionID)
		ps[i].User = t.ref(kindUser, ps[i].UserID)
		t.fillLocation(&ps[i].LocationRefs)
	}
	return nil
}

func (s *professionalService) Create(ctx context.Context, caller auth.Identity, in ProfessionalInput) (*models.Professional, error) {
	const op = "ProfessionalService.Create"

	p := &models.Professional{
		Skills:      []string{},
		Education:   []models.EducationEntry{},
		IsAvailable: true,
	}
	switch {
	case in.Unclaimed && caller.IsAdmin():
	case in.Unclaimed:
		return nil, utils.E(utils.CodeForbidden, op, "only admins can import unclaimed profiles", nil)
	default:
		if err := ensureNoSeekerProfile(ctx, op, s.repos, caller.UserID); err != nil {
			return nil, err
		}
		owner := caller.UserID
		p.UserID = &owner
		p.Email = caller.Email
	}

	if err := s.merge(ctx, op, p, in); err != nil {
		return nil, err
	}
	p.Touch(now())
	if err := models.Validate(p); err != nil {
		return nil, invalid(op, err)
	}
	if err := s.repos.Professionals.Create(ctx, p); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "you already have a professional profile", err)
		}
		return nil, repoErr(op, "professional", err)
	}
	return s.Get(ctx, p.ID.Hex())
}

func (s *professionalService) Update(ctx context.Context, caller auth.Identity, id string, in ProfessionalInput) (*models.Professional, error) {
	const op = "ProfessionalService.Update"

	oid, err := pathID(op, "professional", id)
	if err != nil {
		return nil, err
	}
	p, err := s.repos.Professionals.GetByID(ctx, oid)
	if err != nil {
		return nil, repoErr(op, "professional", err)
	}
	if !caller.CanManage(ownerOf(p.UserID)) {
		return nil, forbidden(op)
	}
	if err := s.merge(ctx, op, p, in); err != nil {
		return nil, err
	}
	p.Touch(now())
	if err := models.Validate(p); err != nil {
		return nil, invalid(op, err)
	}
	if err := s.repos.Professionals.Update(ctx, p); err != nil {
		return nil, repoErr(op, "professional", err)
	}
	return s.Get(ctx, id)
}

func ownerOf(id *primitive.ObjectID) primitive.ObjectID {
	if id == nil {
		return primitive.NilObjectID
	}
	return *id
}

func (s *professionalService) merge(ctx context.Context, op string, p *models.Professional, in ProfessionalInput) error {
	if err := mergeProfile(ctx, op, s.repos.Professions, &profileFields{
		loc:        &p.LocationRefs,
		firstName:  &p.FirstName,
		lastName:   &p.LastName,
		email:      &p.Email,
		phone:      &p.Phone,
		profession: &p.ProfessionID,
		skills:     &p.Skills,
		bio:        &p.Bio,
		avatar:     &p.Avatar,
	}, in.ProfileInput); err != nil {
		return err
	}
	setString(&p.Title, in.Title)
	setValue(&p.ExperienceYears, in.ExperienceYears)
	if in.Education != nil {
		p.Education = *in.Education
		if p.Education == nil {
			p.Education = []models.EducationEntry{}
		}
	}
	setValue(&p.IsAvailable, in.IsAvailable)
	return nil
}

func (s *professionalService) Claim(ctx context.Context, caller auth.Identity, id string) (*models.Professional, error) {
	const op = "ProfessionalService.Claim"

	oid, err := pathID(op, "professional", id)
	if err != nil {
		return nil, err
	}
	if err := ensureNoSeekerProfile(ctx, op, s.repos, caller.UserID); err != nil {
		return nil, err
	}

	if err := s.repos.Professionals.Claim(ctx, oid, caller.UserID, now()); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "profile is already claimed", err)
		}
		return nil, repoErr(op, "professional", err)
	}
	return s.Get(ctx, id)
}

func (s *professionalService) UploadCV(ctx context.Context, caller auth.Identity, filename string, size int64, r io.Reader) (*models.Professional, error) {
	const op = "ProfessionalService.UploadCV"

	p, err := s.repos.Professionals.GetByUser(ctx, caller.UserID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "create a professional profile before uploading a CV", err)
	}
	if err != nil {
		return nil, repoErr(op, "professional", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := CVContentType(ext)
	if !ok {
		return nil, utils.E(utils.CodeInvalidArgument, op, "only .pdf, .doc and .docx files are allowed", nil)
	}
	if size <= 0 || size > MaxCVSize {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file too large (max 10MB)", nil)
	}
	if s.store == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "file storage is not configured", nil)
	}

	object := "cv/" + p.ID.Hex() + "/" + uuid.NewString() + ext
	stored, err := s.store.Upload(ctx, object, contentType, io.LimitReader(r, MaxCVSize+1))
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to store CV", err)
	}
	if err := s.repos.Professionals.SetCV(ctx, p.ID, stored, filepath.Base(filename), now()); err != nil {
		_ = s.store.Delete(ctx, stored)
		return nil, repoErr(op, "professional", err)
	}
	if p.CV != "" && p.CV != stored {
		_ = s.store.Delete(ctx, p.CV)
	}
	return s.Get(ctx, p.ID.Hex())
}

func (s *professionalService) OpenCV(ctx context.Context, id string) (*FileDownload, error) {
	const op = "ProfessionalService.OpenCV"

	oid, err := pathID(op, "professional", id)
	if err != nil {
		return nil, err
	}
	p, err := s.repos.Professionals.GetByID(ctx, oid)
	if err != nil {
		return nil, repoErr(op, "professional", err)
	}
	return openCV(ctx, op, s.store, p)
}

// openCV streams the stored CV of p.
func openCV(ctx context.Context, op string, store storage.Store, p *models.Professional) (*FileDownload, error) {
	if p.CV == "" {
		return nil, utils.E(utils.CodeNotFound, op, "professional has no CV", nil)
	}
	if store == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "file storage is not configured", nil)
	}
	body, err := store.Open(ctx, p.CV)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "CV file not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to read CV", err)
	}

	name := p.CVOriginalName
	if name == "" {
		name = filepath.Base(p.CV)
	}
	ct, ok := CVContentType(filepath.Ext(p.CV))
	if !ok {
		ct = "application/octet-stream"
	}
	return &FileDownload{Name: name, ContentType: ct, Body: body}, nil
}

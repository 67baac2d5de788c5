package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/jobboard/internal/auth"
	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/notify"
	"github.com/yoockh/jobboard/internal/repositories"
	"github.com/yoockh/jobboard/internal/storage"
	"github.com/yoockh/jobboard/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxImageSize = 5 << 20

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// JobQuery filters the job list. Status defaults to active; "all" lifts it.
type JobQuery struct {
	Company    string
	Profession string
	Country    string
	Province   string
	City       string
	Status     string
	JobType    string
	Urgent     *bool
	Search     string
}

type JobInput struct {
	models.LocationInput

	// admins may post on behalf of any company
	CompanyID     *string              `json:"company_id"`
	Title         *string              `json:"title"`
	Description   *string              `json:"description"`
	ProfessionID  *string              `json:"profession_id"`
	JobType       *models.JobType      `json:"job_type"`
	Requirements  *models.Requirements `json:"requirements"`
	Salary        *models.Salary       `json:"salary"`
	Status        *models.JobStatus    `json:"status"`
	Deadline      *time.Time           `json:"deadline"`
	ClearDeadline bool                 `json:"clear_deadline"`
	IsUrgent      *bool                `json:"is_urgent"`
}

type ApplyInput struct {
	JobID string `json:"job_id" binding:"required"`
	Notes string `json:"notes"`
}

type ReviewInput struct {
	Status models.ApplicationStatus `json:"status" binding:"required"`
	Notes  *string                  `json:"notes"`
}

// MyApplication pairs an application with the job it was sent to.
type MyApplication struct {
	Job         models.Job         `json:"job"`
	Application models.Application `json:"application"`
}

type JobService interface {
	List(ctx context.Context, q JobQuery) ([]models.Job, error)
	// Get counts a view and returns the job with every reference expanded.
	Get(ctx context.Context, id string) (*models.Job, error)
	Create(ctx context.Context, caller auth.Identity, in JobInput) (*models.Job, error)
	Update(ctx context.Context, caller auth.Identity, id string, in JobInput) (*models.Job, error)

	Apply(ctx context.Context, caller auth.Identity, in ApplyInput) (*models.Application, error)
	ReviewApplication(ctx context.Context, caller auth.Identity, jobID, applicantID string, in ReviewInput) (*models.Application, error)
	ListApplications(ctx context.Context, caller auth.Identity, jobID string) ([]models.Application, error)
	MyApplications(ctx context.Context, caller auth.Identity) ([]MyApplication, error)
	// Authorize reports whether caller may follow the job's applications.
	Authorize(ctx context.Context, caller auth.Identity, jobID string) error

	UploadImage(ctx context.Context, caller auth.Identity, jobID, filename string, size int64, r io.Reader) (*models.Job, error)
	OpenApplicantCV(ctx context.Context, caller auth.Identity, jobID, applicantID string) (*FileDownload, error)

	// CloseExpired moves active jobs past their deadline to closed.
	CloseExpired(ctx context.Context) (int64, error)
}

type jobService struct {
	repos  repositories.Set
	refs   *resolver
	store  storage.Store
	events notify.Publisher
}

func NewJobService(repos repositories.Set, store storage.Store, events notify.Publisher) JobService {
	if events == nil {
		events = notify.Noop{}
	}
	return &jobService{repos: repos, refs: &resolver{repos: repos}, store: store, events: events}
}

func (s *jobService) List(ctx context.Context, q JobQuery) ([]models.Job, error) {
	const op = "JobService.List"

	f := repositories.JobFilter{Urgent: q.Urgent, Search: strings.TrimSpace(q.Search)}
	var err error
	if f.CompanyID, err = optionalID(op, "company", q.Company); err != nil {
		return nil, err
	}
	if f.ProfessionID, err = optionalID(op, "profession", q.Profession); err != nil {
		return nil, err
	}
	if f.CountryID, err = optionalID(op, "country", q.Country); err != nil {
		return nil, err
	}
	if f.ProvinceID, err = optionalID(op, "province", q.Province); err != nil {
		return nil, err
	}
	if f.CityID, err = optionalID(op, "city", q.City); err != nil {
		return nil, err
	}

	switch status := strings.TrimSpace(q.Status); status {
	case "all":
	case "":
		active := models.JobStatusActive
		f.Status = &active
	default:
		st := models.JobStatus(status)
		if !st.Valid() {
			return nil, utils.E(utils.CodeInvalidArgument, op, "unknown status "+status, nil)
		}
		f.Status = &st
	}
	if jt := strings.TrimSpace(q.JobType); jt != "" {
		t := models.JobType(jt)
		if !t.Valid() {
			return nil, utils.E(utils.CodeInvalidArgument, op, "unknown job_type "+jt, nil)
		}
		f.JobType = &t
	}

	out, err := s.repos.Jobs.List(ctx, f)
	if err != nil {
		return nil, repoErr(op, "jobs", err)
	}
	if err := s.expand(ctx, out); err != nil {
		return nil, repoErr(op, "references", err)
	}
	return out, nil
}

func (s *jobService) Get(ctx context.Context, id string) (*models.Job, error) {
	const op = "JobService.Get"

	oid, err := pathID(op, "job", id)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Jobs.IncViews(ctx, oid); err != nil {
		return nil, repoErr(op, "job", err)
	}
	return s.load(ctx, op, oid)
}

// load reads a job and expands it for output.
func (s *jobService) load(ctx context.Context, op string, id primitive.ObjectID) (*models.Job, error) {
	j, err := s.repos.Jobs.GetByID(ctx, id)
	if err != nil {
		return nil, repoErr(op, "job", err)
	}
	one := []models.Job{*j}
	if err := s.expand(ctx, one); err != nil {
		return nil, repoErr(op, "references", err)
	}
	return &one[0], nil
}

// expand fills company, profession and location refs. Applications are
// dropped; owners read them through ListApplications.
func (s *jobService) expand(ctx context.Context, jobs []models.Job) error {
	q := refQuery{}
	for i := range jobs {
		q.add(kindCompany, &jobs[i].CompanyID)
		q.add(kindProfession, &jobs[i].ProfessionID)
		q.addLocation(&jobs[i].LocationRefs)
	}
	t, err := s.refs.resolve(ctx, q)
	if err != nil {
		return err
	}
	for i := range jobs {
		j := &jobs[i]
		j.Applications = nil
		j.Company = t.ref(kindCompany, &j.CompanyID)
		j.Profession = t.ref(kindProfession, &j.ProfessionID)
		if j.Profession == nil && j.ProfessionName != "" {
			// profession was deleted; keep showing the stored name
			j.Profession = &models.Ref{ID: j.ProfessionID, Name: j.ProfessionName}
		}
		t.fillLocation(&j.LocationRefs)
	}
	return nil
}

func (s *jobService) Create(ctx context.Context, caller auth.Identity, in JobInput) (*models.Job, error) {
	const op = "JobService.Create"

	company, err := s.postingCompany(ctx, op, caller, in.CompanyID)
	if err != nil {
		return nil, err
	}

	j := &models.Job{
		CompanyID: company.ID,
		JobType:   models.JobTypeFullTime,
		Status:    models.JobStatusActive,
		Requirements: models.Requirements{
			Skills:         []string{},
			Certifications: []string{},
		},
		Salary:       models.Salary{Currency: "USD", Period: models.PeriodMonthly},
		Applications: []models.Application{},
	}
	if in.ProfessionID == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "profession_id is required", nil)
	}
	if err := s.merge(ctx, op, j, in); err != nil {
		return nil, err
	}
	t := now()
	j.PostedAt = t
	j.Touch(t)
	if err := models.Validate(j); err != nil {
		return nil, invalid(op, err)
	}
	if err := s.repos.Jobs.Create(ctx, j); err != nil {
		return nil, repoErr(op, "job", err)
	}
	return s.load(ctx, op, j.ID)
}

// postingCompany is the company a new job belongs to: the caller's own, or
// for admins the one named in the payload.
func (s *jobService) postingCompany(ctx context.Context, op string, caller auth.Identity, companyID *string) (*models.Company, error) {
	if caller.IsAdmin() && companyID != nil {
		cid, err := bodyID(op, "company_id", *companyID)
		if err != nil {
			return nil, err
		}
		c, err := s.repos.Companies.GetByID(ctx, cid)
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeInvalidArgument, op, "company does not exist", err)
		}
		if err != nil {
			return nil, repoErr(op, "company", err)
		}
		return c, nil
	}

	c, err := s.repos.Companies.GetByUser(ctx, caller.UserID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeForbidden, op, "register a company before posting jobs", err)
	}
	if err != nil {
		return nil, repoErr(op, "company", err)
	}
	return c, nil
}

func (s *jobService) Update(ctx context.Context, caller auth.Identity, id string, in JobInput) (*models.Job, error) {
	const op = "JobService.Update"

	j, _, err := s.owned(ctx, op, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.merge(ctx, op, j, in); err != nil {
		return nil, err
	}
	j.Touch(now())
	if err := models.Validate(j); err != nil {
		return nil, invalid(op, err)
	}
	if err := s.repos.Jobs.UpdateDetails(ctx, j); err != nil {
		return nil, repoErr(op, "job", err)
	}
	return s.load(ctx, op, j.ID)
}

func (s *jobService) merge(ctx context.Context, op string, j *models.Job, in JobInput) error {
	if err := in.LocationInput.Apply(&j.LocationRefs); err != nil {
		return utils.E(utils.CodeInvalidArgument, op, "location ids must be valid ids", err)
	}
	if in.ProfessionID != nil {
		p, err := lookupProfession(ctx, op, s.repos.Professions, *in.ProfessionID)
		if err != nil {
			return err
		}
		j.ProfessionID, j.ProfessionName = p.ID, p.Name
	}
	setString(&j.Title, in.Title)
	setString(&j.Description, in.Description)
	setValue(&j.JobType, in.JobType)
	if in.Requirements != nil {
		r := *in.Requirements
		r.Skills = cleanList(r.Skills)
		r.Certifications = cleanList(r.Certifications)
		j.Requirements = r
	}
	if in.Salary != nil {
		sal := *in.Salary
		sal.Currency = strings.ToUpper(strings.TrimSpace(sal.Currency))
		if sal.Currency == "" {
			sal.Currency = j.Salary.Currency
		}
		if sal.Period == "" {
			sal.Period = j.Salary.Period
		}
		j.Salary = sal
	}
	setValue(&j.Status, in.Status)
	setValue(&j.IsUrgent, in.IsUrgent)
	if in.Deadline != nil {
		d := in.Deadline.UTC()
		j.Deadline = &d
	}
	if in.ClearDeadline {
		j.Deadline = nil
	}
	return nil
}

// owned loads a job the caller may manage, with its company.
func (s *jobService) owned(ctx context.Context, op string, caller auth.Identity, id string) (*models.Job, *models.Company, error) {
	oid, err := pathID(op, "job", id)
	if err != nil {
		return nil, nil, err
	}
	j, err := s.repos.Jobs.GetByID(ctx, oid)
	if err != nil {
		return nil, nil, repoErr(op, "job", err)
	}
	c, err := s.repos.Companies.GetByID(ctx, j.CompanyID)
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return nil, nil, repoErr(op, "company", err)
	}
	var owner primitive.ObjectID
	if c != nil {
		owner = c.UserID
	}
	if !caller.CanManage(owner) {
		return nil, nil, forbidden(op)
	}
	return j, c, nil
}

func (s *jobService) Authorize(ctx context.Context, caller auth.Identity, jobID string) error {
	_, _, err := s.owned(ctx, "JobService.Authorize", caller, jobID)
	return err
}

func (s *jobService) CloseExpired(ctx context.Context) (int64, error) {
	n, err := s.repos.Jobs.CloseExpired(ctx, now())
	if err != nil {
		return 0, utils.E(utils.CodeInternal, "JobService.CloseExpired", "failed to close expired jobs", err)
	}
	return n, nil
}

// applicant is the job-seeker profile the caller applies with.
func (s *jobService) applicant(ctx context.Context, op string, caller auth.Identity) (primitive.ObjectID, models.ApplicantType, error) {
	p, err := s.repos.Professionals.GetByUser(ctx, caller.UserID)
	if err == nil {
		return p.ID, models.ApplicantProfessional, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return primitive.NilObjectID, "", repoErr(op, "professional", err)
	}
	t, err := s.repos.Trainees.GetByUser(ctx, caller.UserID)
	if err == nil {
		return t.ID, models.ApplicantTrainee, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return primitive.NilObjectID, "", repoErr(op, "trainee", err)
	}
	return primitive.NilObjectID, "", utils.ErrNotFound
}

func (s *jobService) Apply(ctx context.Context, caller auth.Identity, in ApplyInput) (*models.Application, error) {
	const op = "JobService.Apply"

	jid, err := pathID(op, "job", in.JobID)
	if err != nil {
		return nil, err
	}
	j, err := s.repos.Jobs.GetByID(ctx, jid)
	if err != nil {
		return nil, repoErr(op, "job", err)
	}
	if j.Status != models.JobStatusActive {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job is not accepting applications", nil)
	}
	if j.Deadline != nil && now().After(*j.Deadline) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "application deadline has passed", nil)
	}

	applicantID, kind, err := s.applicant(ctx, op, caller)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeForbidden, op, "a professional or trainee profile is required to apply", nil)
	}
	if err != nil {
		return nil, err
	}

	a := models.Application{
		ApplicantID:   applicantID,
		ApplicantType: kind,
		AppliedAt:     now(),
		Status:        models.ApplicationPending,
		Notes:         strings.TrimSpace(in.Notes),
	}
	if err := models.Validate(a); err != nil {
		return nil, invalid(op, err)
	}
	if err := s.repos.Jobs.AddApplication(ctx, jid, a); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "you have already applied to this job", err)
		}
		return nil, repoErr(op, "job", err)
	}
	// second write; not atomic with the append
	if err := s.repos.Jobs.IncApplications(ctx, jid, 1); err != nil {
		return nil, repoErr(op, "job", err)
	}
	switch kind {
	case models.ApplicantProfessional:
		err = s.repos.Professionals.IncApplications(ctx, applicantID)
	case models.ApplicantTrainee:
		err = s.repos.Trainees.IncApplications(ctx, applicantID)
	}
	if err != nil {
		return nil, repoErr(op, string(kind), err)
	}

	_ = s.events.Publish(ctx, jid.Hex(), notify.Event{
		Type:          notify.EventApplicationCreated,
		JobID:         jid.Hex(),
		ApplicantID:   applicantID.Hex(),
		ApplicantType: string(kind),
		Status:        string(a.Status),
		At:            a.AppliedAt,
	})
	return &a, nil
}

func (s *jobService) ReviewApplication(ctx context.Context, caller auth.Identity, jobID, applicantID string, in ReviewInput) (*models.Application, error) {
	const op = "JobService.ReviewApplication"

	if !in.Status.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unknown application status "+string(in.Status), nil)
	}
	j, _, err := s.owned(ctx, op, caller, jobID)
	if err != nil {
		return nil, err
	}
	aid, err := pathID(op, "application", applicantID)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Jobs.UpdateApplication(ctx, j.ID, aid, in.Status, in.Notes); err != nil {
		return nil, repoErr(op, "application", err)
	}

	j, err = s.repos.Jobs.GetByID(ctx, j.ID)
	if err != nil {
		return nil, repoErr(op, "job", err)
	}
	a := j.ApplicationBy(aid)
	if a == nil {
		return nil, utils.E(utils.CodeNotFound, op, "application not found", nil)
	}
	_ = s.events.Publish(ctx, j.ID.Hex(), notify.Event{
		Type:          notify.EventApplicationReviewed,
		JobID:         j.ID.Hex(),
		ApplicantID:   aid.Hex(),
		ApplicantType: string(a.ApplicantType),
		Status:        string(a.Status),
		At:            now(),
	})
	return a, nil
}

func (s *jobService) ListApplications(ctx context.Context, caller auth.Identity, jobID string) ([]models.Application, error) {
	const op = "JobService.ListApplications"

	j, _, err := s.owned(ctx, op, caller, jobID)
	if err != nil {
		return nil, err
	}
	apps := j.Applications
	if apps == nil {
		apps = []models.Application{}
	}

	q := refQuery{}
	for i := range apps {
		q.add(applicantKind(apps[i].ApplicantType), &apps[i].ApplicantID)
	}
	t, err := s.refs.resolve(ctx, q)
	if err != nil {
		return nil, repoErr(op, "applicants", err)
	}
	for i := range apps {
		apps[i].Applicant = t.ref(applicantKind(apps[i].ApplicantType), &apps[i].ApplicantID)
	}
	return apps, nil
}

func applicantKind(t models.ApplicantType) refKind {
	if t == models.ApplicantTrainee {
		return kindTrainee
	}
	return kindProfessional
}

func (s *jobService) MyApplications(ctx context.Context, caller auth.Identity) ([]MyApplication, error) {
	const op = "JobService.MyApplications"

	applicantID, _, err := s.applicant(ctx, op, caller)
	if errors.Is(err, utils.ErrNotFound) {
		return []MyApplication{}, nil
	}
	if err != nil {
		return nil, err
	}

	jobs, err := s.repos.Jobs.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, repoErr(op, "jobs", err)
	}
	apps := make([]*models.Application, len(jobs))
	for i := range jobs {
		if a := jobs[i].ApplicationBy(applicantID); a != nil {
			cp := *a
			apps[i] = &cp
		}
	}
	if err := s.expand(ctx, jobs); err != nil {
		return nil, repoErr(op, "references", err)
	}

	out := make([]MyApplication, 0, len(jobs))
	for i := range jobs {
		if apps[i] != nil {
			out = append(out, MyApplication{Job: jobs[i], Application: *apps[i]})
		}
	}
	return out, nil
}

func (s *jobService) UploadImage(ctx context.Context, caller auth.Identity, jobID, filename string, size int64, r io.Reader) (*models.Job, error) {
	const op = "JobService.UploadImage"

	j, _, err := s.owned(ctx, op, caller, jobID)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := imageTypes[ext]
	if !ok {
		return nil, utils.E(utils.CodeInvalidArgument, op, "only .jpg, .jpeg, .png and .webp images are allowed", nil)
	}
	if size <= 0 || size > MaxImageSize {
		return nil, utils.E(utils.CodeInvalidArgument, op, "image too large (max 5MB)", nil)
	}
	if s.store == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "file storage is not configured", nil)
	}

	object := "images/jobs/" + j.ID.Hex() + "/" + uuid.NewString() + ext
	stored, err := s.store.Upload(ctx, object, contentType, io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to store image", err)
	}
	if err := s.repos.Jobs.SetImage(ctx, j.ID, s.store.PublicURL(stored), now()); err != nil {
		return nil, repoErr(op, "job", err)
	}
	return s.load(ctx, op, j.ID)
}

func (s *jobService) OpenApplicantCV(ctx context.Context, caller auth.Identity, jobID, applicantID string) (*FileDownload, error) {
	const op = "JobService.OpenApplicantCV"

	j, _, err := s.owned(ctx, op, caller, jobID)
	if err != nil {
		return nil, err
	}
	aid, err := pathID(op, "applicant", applicantID)
	if err != nil {
		return nil, err
	}
	a := j.ApplicationBy(aid)
	if a == nil {
		return nil, utils.E(utils.CodeNotFound, op, "application not found", nil)
	}
	if a.ApplicantType != models.ApplicantProfessional {
		return nil, utils.E(utils.CodeNotFound, op, "applicant has no CV", nil)
	}
	p, err := s.repos.Professionals.GetByID(ctx, aid)
	if err != nil {
		return nil, repoErr(op, "professional", err)
	}
	return openCV(ctx, op, s.store, p)
}

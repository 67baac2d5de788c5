package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeTemporary  JobType = "Temporary"
	JobTypeInternship JobType = "Internship"
)

func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeTemporary, JobTypeInternship:
		return true
	}
	return false
}

type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
	JobStatusFilled JobStatus = "filled"
	JobStatusDraft  JobStatus = "draft"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusActive, JobStatusClosed, JobStatusFilled, JobStatusDraft:
		return true
	}
	return false
}

type SalaryPeriod string

const (
	PeriodHourly  SalaryPeriod = "hourly"
	PeriodDaily   SalaryPeriod = "daily"
	PeriodWeekly  SalaryPeriod = "weekly"
	PeriodMonthly SalaryPeriod = "monthly"
	PeriodYearly  SalaryPeriod = "yearly"
)

func (p SalaryPeriod) Valid() bool {
	switch p {
	case PeriodHourly, PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationReviewed    ApplicationStatus = "reviewed"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationHired       ApplicationStatus = "hired"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationReviewed, ApplicationShortlisted, ApplicationRejected, ApplicationHired:
		return true
	}
	return false
}

type ApplicantType string

const (
	ApplicantProfessional ApplicantType = "professional"
	ApplicantTrainee      ApplicantType = "trainee"
)

func (t ApplicantType) Valid() bool {
	return t == ApplicantProfessional || t == ApplicantTrainee
}

type Experience struct {
	Min int `bson:"min" json:"min" validate:"gte=0,lte=60"`
	Max int `bson:"max" json:"max" validate:"gte=0,lte=60,gtefield=Min"`
}

type Requirements struct {
	Experience     Experience `bson:"experience" json:"experience"`
	Education      string     `bson:"education,omitempty" json:"education,omitempty"`
	Skills         []string   `bson:"skills" json:"skills"`
	Certifications []string   `bson:"certifications" json:"certifications"`
}

type Salary struct {
	Min      float64      `bson:"min" json:"min" validate:"gte=0"`
	Max      float64      `bson:"max" json:"max" validate:"gte=0,gtefield=Min"`
	Currency string       `bson:"currency" json:"currency" validate:"required,len=3"`
	Period   SalaryPeriod `bson:"period" json:"period" validate:"enum"`
}

// Application is embedded in its job and has no identity of its own; an
// applicant appears at most once per job.
type Application struct {
	ApplicantID   primitive.ObjectID `bson:"applicant" json:"applicant_id"`
	ApplicantType ApplicantType      `bson:"applicant_type" json:"applicant_type" validate:"enum"`
	AppliedAt     time.Time          `bson:"applied_at" json:"applied_at"`
	Status        ApplicationStatus  `bson:"status" json:"status" validate:"enum"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty" validate:"max=2000"`

	Applicant *Ref `bson:"-" json:"applicant,omitempty"`
}

type Job struct {
	Base         `bson:",inline"`
	LocationRefs `bson:",inline"`

	CompanyID      primitive.ObjectID `bson:"company" json:"company_id" validate:"required"`
	Title          string             `bson:"title" json:"title" validate:"required,max=200"`
	Description    string             `bson:"description" json:"description" validate:"required,max=20000"`
	ProfessionID   primitive.ObjectID `bson:"profession" json:"profession_id" validate:"required"`
	ProfessionName string             `bson:"profession_name" json:"profession_name"`
	JobType        JobType            `bson:"job_type" json:"job_type" validate:"enum"`
	Requirements   Requirements       `bson:"requirements" json:"requirements"`
	Salary         Salary             `bson:"salary" json:"salary"`
	Status         JobStatus          `bson:"status" json:"status" validate:"enum"`

	Applications      []Application `bson:"applications" json:"applications,omitempty"`
	Views             int64         `bson:"views" json:"views"`
	ApplicationsCount int64         `bson:"applications_count" json:"applications_count"`

	PostedAt time.Time  `bson:"posted_at" json:"posted_at"`
	Deadline *time.Time `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Image    string     `bson:"image,omitempty" json:"image,omitempty"`
	IsUrgent bool       `bson:"is_urgent" json:"is_urgent"`

	Company    *Ref `bson:"-" json:"company,omitempty"`
	Profession *Ref `bson:"-" json:"profession,omitempty"`
}

func (j Job) Summary() Ref { return Ref{ID: j.ID, Name: j.Title} }

// ApplicationBy returns the application of the given applicant, if any.
func (j *Job) ApplicationBy(applicant primitive.ObjectID) *Application {
	for i := range j.Applications {
		if j.Applications[i].ApplicantID == applicant {
			return &j.Applications[i]
		}
	}
	return nil
}

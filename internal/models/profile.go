package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type ProfileStats struct {
	ProfileViews int64 `bson:"profile_views" json:"profile_views"`
	Applications int64 `bson:"applications" json:"applications"`
}

type EducationEntry struct {
	Institution string `bson:"institution" json:"institution" validate:"required"`
	Degree      string `bson:"degree,omitempty" json:"degree,omitempty"`
	Field       string `bson:"field,omitempty" json:"field,omitempty"`
	StartYear   int    `bson:"start_year,omitempty" json:"start_year,omitempty"`
	EndYear     int    `bson:"end_year,omitempty" json:"end_year,omitempty"`
}

// Professional is an experienced job seeker. Profiles imported by an admin
// have no user until someone claims them.
type Professional struct {
	Base         `bson:",inline"`
	LocationRefs `bson:",inline"`

	UserID          *primitive.ObjectID `bson:"user,omitempty" json:"user_id,omitempty"`
	FirstName       string              `bson:"first_name" json:"first_name" validate:"required,max=80"`
	LastName        string              `bson:"last_name" json:"last_name" validate:"required,max=80"`
	Email           string              `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Phone           string              `bson:"phone,omitempty" json:"phone,omitempty"`
	ProfessionID    *primitive.ObjectID `bson:"profession,omitempty" json:"profession_id,omitempty"`
	Title           string              `bson:"title,omitempty" json:"title,omitempty" validate:"max=150"`
	Bio             string              `bson:"bio,omitempty" json:"bio,omitempty" validate:"max=5000"`
	Skills          []string            `bson:"skills" json:"skills"`
	ExperienceYears int                 `bson:"experience_years" json:"experience_years" validate:"gte=0,lte=60"`
	Education       []EducationEntry    `bson:"education" json:"education" validate:"dive"`
	Avatar          string              `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CV              string              `bson:"cv,omitempty" json:"cv,omitempty"`
	CVOriginalName  string              `bson:"cv_original_name,omitempty" json:"cv_original_name,omitempty"`
	IsAvailable     bool                `bson:"is_available" json:"is_available"`
	Stats           ProfileStats        `bson:"stats" json:"stats"`

	Profession *Ref `bson:"-" json:"profession,omitempty"`
	User       *Ref `bson:"-" json:"user,omitempty"`
}

func (p Professional) Summary() Ref {
	return Ref{ID: p.ID, Name: p.FirstName + " " + p.LastName}
}

// OwnedBy reports whether the profile has been claimed by user.
func (p *Professional) OwnedBy(user primitive.ObjectID) bool {
	return p.UserID != nil && *p.UserID == user
}

// Trainee is a student or apprentice looking for internships.
type Trainee struct {
	Base         `bson:",inline"`
	LocationRefs `bson:",inline"`

	UserID       primitive.ObjectID  `bson:"user" json:"user_id" validate:"required"`
	FirstName    string              `bson:"first_name" json:"first_name" validate:"required,max=80"`
	LastName     string              `bson:"last_name" json:"last_name" validate:"required,max=80"`
	Email        string              `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Phone        string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Institution  string              `bson:"institution,omitempty" json:"institution,omitempty" validate:"max=150"`
	FieldOfStudy string              `bson:"field_of_study,omitempty" json:"field_of_study,omitempty" validate:"max=150"`
	ProfessionID *primitive.ObjectID `bson:"profession,omitempty" json:"profession_id,omitempty"`
	Skills       []string            `bson:"skills" json:"skills"`
	Bio          string              `bson:"bio,omitempty" json:"bio,omitempty" validate:"max=5000"`
	Avatar       string              `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Stats        ProfileStats        `bson:"stats" json:"stats"`

	Profession *Ref `bson:"-" json:"profession,omitempty"`
	User       *Ref `bson:"-" json:"user,omitempty"`
}

func (t Trainee) Summary() Ref {
	return Ref{ID: t.ID, Name: t.FirstName + " " + t.LastName}
}

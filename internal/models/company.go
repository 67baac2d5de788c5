package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type CompanySize string

const (
	CompanySizeMicro      CompanySize = "1-10"
	CompanySizeSmall      CompanySize = "11-50"
	CompanySizeMedium     CompanySize = "51-200"
	CompanySizeLarge      CompanySize = "201-500"
	CompanySizeEnterprise CompanySize = "500+"
)

func (s CompanySize) Valid() bool {
	switch s {
	case CompanySizeMicro, CompanySizeSmall, CompanySizeMedium, CompanySizeLarge, CompanySizeEnterprise:
		return true
	}
	return false
}

type SocialLinks struct {
	LinkedIn  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
}

// Company is a hiring organisation; at most one per user (unique index on user).
type Company struct {
	Base         `bson:",inline"`
	LocationRefs `bson:",inline"`

	UserID      primitive.ObjectID `bson:"user" json:"user_id" validate:"required"`
	Name        string             `bson:"name" json:"name" validate:"required,max=150"`
	Description string             `bson:"description,omitempty" json:"description,omitempty" validate:"max=5000"`
	Industry    string             `bson:"industry,omitempty" json:"industry,omitempty"`
	Size        CompanySize        `bson:"size,omitempty" json:"size,omitempty" validate:"omitempty,enum"`
	FoundedYear int                `bson:"founded_year,omitempty" json:"founded_year,omitempty" validate:"omitempty,gte=1800,lte=2100"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	Website     string             `bson:"website,omitempty" json:"website,omitempty" validate:"omitempty,url"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Logo        string             `bson:"logo,omitempty" json:"logo,omitempty"`
	Social      SocialLinks        `bson:"social,omitempty" json:"social"`
	IsVerified  bool               `bson:"is_verified" json:"is_verified"`

	User *Ref `bson:"-" json:"user,omitempty"`
}

func (c Company) Summary() Ref { return Ref{ID: c.ID, Name: c.Name} }

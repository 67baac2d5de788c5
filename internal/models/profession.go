package models

// Profession is the admin-managed reference list used by jobs and profiles.
type Profession struct {
	Base `bson:",inline"`

	Name        string `bson:"name" json:"name" validate:"required,max=120"`
	Category    string `bson:"category,omitempty" json:"category,omitempty" validate:"max=120"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	IsActive    bool   `bson:"is_active" json:"is_active"`
}

func (p Profession) Summary() Ref { return Ref{ID: p.ID, Name: p.Name} }

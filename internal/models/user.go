package models

type Role string

const (
	RoleUser    Role = "user"
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"

	// inferred from profile ownership, never stored
	RoleProfessional Role = "professional"
	RoleTrainee      Role = "trainee"
)

// Valid reports whether r may be persisted on a user.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	Base `bson:",inline"`

	Name         string `bson:"name" json:"name" validate:"required,max=120"`
	Email        string `bson:"email" json:"email" validate:"required,email"`
	PasswordHash string `bson:"password" json:"-" validate:"required"`
	Role         Role   `bson:"role" json:"role" validate:"enum"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
	Avatar       string `bson:"avatar,omitempty" json:"avatar,omitempty"`
	IsVerified   bool   `bson:"is_verified" json:"is_verified"`
	IsActive     bool   `bson:"is_active" json:"is_active"`
}

func (u User) Summary() Ref { return Ref{ID: u.ID, Name: u.Name} }

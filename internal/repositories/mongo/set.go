package mongo

import (
	"github.com/yoockh/jobboard/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// NewSet wires every collection of db.
func NewSet(db *mongo.Database) repositories.Set {
	return repositories.Set{
		Users:         NewUserRepo(db),
		Continents:    NewContinentRepo(db),
		Countries:     NewCountryRepo(db),
		Provinces:     NewProvinceRepo(db),
		Cities:        NewCityRepo(db),
		Professions:   NewProfessionRepo(db),
		Companies:     NewCompanyRepo(db),
		Jobs:          NewJobRepo(db),
		Professionals: NewProfessionalRepo(db),
		Trainees:      NewTraineeRepo(db),
	}
}

package services

import (
	"github.com/yoockh/jobboard/internal/auth"
	"github.com/yoockh/jobboard/internal/cache"
	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/notify"
	"github.com/yoockh/jobboard/internal/repositories"
	"github.com/yoockh/jobboard/internal/storage"
)

type Deps struct {
	Repos  repositories.Set
	Tokens *auth.TokenManager
	Cache  cache.Cache
	Store  storage.Store
	Events notify.Publisher
}

// Set is every service the HTTP layer exposes.
type Set struct {
	Auth          AuthService
	Users         UserService
	Continents    GeoService[models.Continent]
	Countries     GeoService[models.Country]
	Provinces     GeoService[models.Province]
	Cities        GeoService[models.City]
	Professions   ProfessionService
	Companies     CompanyService
	Jobs          JobService
	Professionals ProfessionalService
	Trainees      TraineeService
}

func New(d Deps) Set {
	return Set{
		Auth:          NewAuthService(d.Repos, d.Tokens),
		Users:         NewUserService(d.Repos.Users),
		Continents:    NewContinentService(d.Repos, d.Cache),
		Countries:     NewCountryService(d.Repos, d.Cache),
		Provinces:     NewProvinceService(d.Repos, d.Cache),
		Cities:        NewCityService(d.Repos, d.Cache),
		Professions:   NewProfessionService(d.Repos.Professions, d.Cache),
		Companies:     NewCompanyService(d.Repos),
		Jobs:          NewJobService(d.Repos, d.Store, d.Events),
		Professionals: NewProfessionalService(d.Repos, d.Store),
		Trainees:      NewTraineeService(d.Repos),
	}
}

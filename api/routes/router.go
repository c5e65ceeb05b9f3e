package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pawfinder/pawfinder-backend/api/controllers"
	"github.com/pawfinder/pawfinder-backend/api/middleware"
	"github.com/pawfinder/pawfinder-backend/internal/accounts"
	"github.com/pawfinder/pawfinder-backend/internal/applications"
	"github.com/pawfinder/pawfinder-backend/internal/blog"
	"github.com/pawfinder/pawfinder-backend/internal/pets"
	"github.com/pawfinder/pawfinder-backend/pkg/config"
	"github.com/pawfinder/pawfinder-backend/pkg/db"
	"github.com/pawfinder/pawfinder-backend/pkg/enums"
	"github.com/pawfinder/pawfinder-backend/pkg/logger"
	"github.com/pawfinder/pawfinder-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	accountsService accounts.Service,
	petsService pets.Service,
	applicationsService applications.Service,
	blogService blog.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	authn := middleware.Auth(cfg.JWT, accountsService, logg)
	adminOnly := middleware.RequireRole(logg, enums.RoleAdmin)
	adoptersOnly := middleware.RequireRole(logg, enums.RoleAdoptante)
	sheltersAndAdmins := middleware.RequireRole(logg, enums.RoleRefugio, enums.RoleAdmin)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(accountsService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(accountsService, logg))
		r.With(authn).Get("/validate", controllers.AuthValidate(logg))
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(authn)
		r.Get("/profile", controllers.ProfileGet(logg))
		r.Put("/profile", controllers.ProfileUpdate(accountsService, logg))
		r.With(adminOnly).Get("/", controllers.UsersList(accountsService, logg))
		r.With(adminOnly).Get("/admin/refugios/pending", controllers.PendingShelters(accountsService, logg))
		r.With(adminOnly).Put("/admin/refugios/{refugioId}/approve", controllers.ApproveShelter(accountsService, logg))
		r.With(adminOnly).Put("/admin/refugios/{refugioId}/reject", controllers.RejectShelter(accountsService, logg))
		r.With(adminOnly).Delete("/{userId}", controllers.UserDelete(accountsService, logg))
	})

	r.Route("/pets", func(r chi.Router) {
		r.Get("/", controllers.PetsList(petsService, logg))
		r.Get("/{petId}", controllers.PetsGetOne(petsService, logg))
		r.With(authn, middleware.RequireRole(logg, enums.RoleRefugio)).Post("/", controllers.PetsCreate(petsService, logg))
		r.With(authn, sheltersAndAdmins).Put("/{petId}", controllers.PetsUpdate(petsService, logg))
		r.With(authn, sheltersAndAdmins).Delete("/{petId}", controllers.PetsDelete(petsService, logg))
	})

	r.Route("/applications", func(r chi.Router) {
		r.Use(authn)
		r.With(adoptersOnly).Post("/pet/{petId}/apply", controllers.ApplicationsSubmit(applicationsService, logg))
		r.With(adoptersOnly).Get("/my", controllers.ApplicationsMine(applicationsService, logg))
		r.With(adoptersOnly).Get("/check-user-app/pet/{petId}", controllers.ApplicationsCheckMine(applicationsService, logg))
		r.With(sheltersAndAdmins).Get("/received", controllers.ApplicationsReceived(applicationsService, logg))
		r.With(sheltersAndAdmins).Get("/for-pet/{petId}", controllers.ApplicationsForPet(applicationsService, logg))
		r.With(sheltersAndAdmins).Put("/{applicationId}/status", controllers.ApplicationsSetStatus(applicationsService, logg))
	})

	r.Route("/blog", func(r chi.Router) {
		r.Get("/", controllers.BlogList(blogService, logg))
		r.Get("/{postId}", controllers.BlogGetOne(blogService, logg))
		r.With(authn, sheltersAndAdmins).Post("/", controllers.BlogCreate(blogService, logg))
		r.With(authn, sheltersAndAdmins).Put("/{postId}", controllers.BlogUpdate(blogService, logg))
		r.With(authn, sheltersAndAdmins).Delete("/{postId}", controllers.BlogDelete(blogService, logg))
	})

	return r
}

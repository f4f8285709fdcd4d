package wire

import (
	"net/http"

	"salty-fish/internal/adaptor"
	"salty-fish/internal/data/repository"
	"salty-fish/internal/usecase"
	"salty-fish/pkg/metrics"
	"salty-fish/pkg/middleware"
	"salty-fish/pkg/notify"
	"salty-fish/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
	Metrics *metrics.Metrics
}

// Wiring menginisialisasi semua dependencies
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	m := metrics.New()
	notifier := NewNotifier(config, logger)

	service := usecase.NewService(repo, config, notifier, m, logger)
	handler := adaptor.NewHandler(service, config, logger)

	router := setupRouter(handler, service, repo, config, m, logger)

	return &App{
		Router:  router,
		Service: service,
		Metrics: m,
	}
}

// NewNotifier sends mail through Zoho when it is configured, and only logs
// the recipient otherwise. Production config refuses to load without Zoho.
func NewNotifier(config *utils.Config, logger *zap.Logger) *notify.Dispatcher {
	var mailer notify.Mailer
	if config.Zoho.Configured() {
		mailer = notify.NewZohoMailer(config.Zoho, notify.NewZohoTokenSource(config.Zoho))
	} else {
		logger.Warn("Zoho mail is not configured; OTP mails will not be sent")
		mailer = notify.NewNopMailer(logger)
	}

	return notify.NewDispatcher(mailer, notify.NewSMSLocalClient(config.SMS), config.OTP.Expiry, logger)
}

// setupRouter konfigurasi Chi router
func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	repo *repository.Repository,
	config *utils.Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))
	r.Use(middleware.Metrics(m))

	authenticate := middleware.Authenticate(service.Token, repo.User, logger)

	r.Route("/api/v1", func(r chi.Router) {
		wireAuth(r, handler, authenticate, config, logger)
		wireUser(r, handler.User, authenticate)
		wireItem(r, handler.Item, authenticate)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseError(w, utils.NewNotFoundError("Can't find "+r.URL.Path+" on this server"))
	})

	return r
}

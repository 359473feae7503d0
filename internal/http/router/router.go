package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/firstrankcoders/credential-service/internal/http/handler"
	"github.com/firstrankcoders/credential-service/internal/http/middleware"
	"github.com/firstrankcoders/credential-service/internal/security"
)

const defaultBodyLimit = 1 << 20

type Dependencies struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	BannerHandler  *handler.BannerHandler
	HealthHandler  *handler.HealthHandler
	JWTManager     *security.JWTManager
	CORSOrigins    []string
	BodyLimitBytes int64
	EnableOTelHTTP bool
}

func NewRouter(dep Dependencies) http.Handler {
	bodyLimit := dep.BodyLimitBytes
	if bodyLimit <= 0 {
		bodyLimit = defaultBodyLimit
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(bodyLimit))

	r.Get("/", dep.BannerHandler.Root)
	r.Get("/health/live", dep.HealthHandler.Live)
	r.Get("/health/ready", dep.HealthHandler.Ready)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", dep.AuthHandler.Signup)
		r.Post("/login", dep.AuthHandler.Login)
		r.Post("/reset-password", dep.AuthHandler.RequestPasswordReset)
		r.Post("/reset-password/confirm", dep.AuthHandler.ConfirmPasswordReset)
		r.Post("/change-password", dep.AuthHandler.ChangePassword)
		r.Post("/verify-email", dep.AuthHandler.VerifyEmail)
		r.Post("/refresh-token", dep.AuthHandler.RefreshToken)
	})

	r.Route("/users", func(r chi.Router) {
		r.With(middleware.AuthMiddleware(dep.JWTManager)).Get("/me", dep.UserHandler.Me)
		r.Post("/", dep.UserHandler.Create)
		r.Get("/", dep.UserHandler.List)
		r.Get("/{id}", dep.UserHandler.Get)
		r.Put("/{id}", dep.UserHandler.Update)
		r.Delete("/{id}", dep.UserHandler.Delete)
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}

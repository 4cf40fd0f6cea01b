// Package httpapi exposes the account and résumé services over a JSON REST API.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/resumehub/internal/logging"
	"github.com/dmitrijs2005/resumehub/internal/server/models"
	"github.com/dmitrijs2005/resumehub/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const shutdownTimeout = 10 * time.Second

// AccountService is the account lifecycle used by the handlers.
type AccountService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.Account, error)
	VerifyEmail(ctx context.Context, email, code string) error
	RegisterAdmin(ctx context.Context, in services.RegisterInput, secret string) (*models.Account, error)
	SignIn(ctx context.Context, email, password string) (*services.TokenPair, error)
	SignOut(ctx context.Context, accountID string) error
	Get(ctx context.Context, accountID string) (*services.AccountView, error)
	Actor(ctx context.Context, accountID string) (services.Actor, error)
	History(ctx context.Context, accountID string) ([]*models.ChangeRecord, error)
}

type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	VerifyAccess(token string) (string, error)
}

type ProfileService interface {
	Update(ctx context.Context, actor services.Actor, patch services.ProfilePatch) (*services.ProfileUpdate, error)
}

type ResumeService interface {
	Create(ctx context.Context, actor services.Actor, in services.ResumeInput) (*models.Resume, error)
	List(ctx context.Context, order models.ResumeOrder) ([]*models.Resume, error)
	Get(ctx context.Context, id string) (*models.Resume, error)
	Update(ctx context.Context, actor services.Actor, id string, patch services.ResumePatch) (*services.ResumeUpdate, error)
	AdminUpdate(ctx context.Context, actor services.Actor, id string, patch services.ResumePatch) (*services.ResumeUpdate, error)
	Delete(ctx context.Context, actor services.Actor, id string) (*models.Resume, error)
	AdminDelete(ctx context.Context, actor services.Actor, id string) (*models.Resume, error)
	AttachmentUploadURL(ctx context.Context, actor services.Actor, id string) (*services.Attachment, error)
	AttachmentDownloadURL(ctx context.Context, id string) (*services.Attachment, error)
}

// Services bundles the dependencies of the HTTP handlers.
type Services struct {
	Accounts AccountService
	Tokens   TokenService
	Profiles ProfileService
	Resumes  ResumeService
}

type HTTPServer struct {
	address     string
	services    Services
	logger      logging.Logger
	corsOrigins []string
}

func NewHTTPServer(address string, l logging.Logger, s Services, corsOrigins []string) *HTTPServer {
	return &HTTPServer{
		address:     address,
		services:    s,
		logger:      l.With("module", "http_server"),
		corsOrigins: corsOrigins,
	}
}

// Routes builds the router. Routes marked with the access middleware
// require "Authorization: Bearer <access token>".
func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Admin-Key"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/sign-up", s.signUp)
			r.Post("/sign-up/verify", s.verifySignUp)
			r.Post("/sign-up/admin", s.signUpAdmin)
			r.Post("/sign-in", s.signIn)
			r.Post("/token/refresh", s.refreshToken)

			r.Group(func(r chi.Router) {
				r.Use(s.accessTokenMiddleware)
				r.Post("/sign-out", s.signOut)
				r.Get("/me", s.getMe)
				r.Patch("/me", s.updateMe)
				r.Get("/me/history", s.getHistory)
			})
		})

		r.Route("/resumes", func(r chi.Router) {
			r.Get("/", s.listResumes)
			r.Get("/{id}", s.getResume)
			r.Get("/{id}/attachment", s.downloadAttachment)

			r.Group(func(r chi.Router) {
				r.Use(s.accessTokenMiddleware)
				r.Post("/", s.createResume)
				r.Patch("/{id}", s.updateResume)
				r.Delete("/{id}", s.deleteResume)
				r.Post("/{id}/attachment", s.uploadAttachment)
			})
		})

		r.Route("/admin/resumes", func(r chi.Router) {
			r.Use(s.accessTokenMiddleware)
			r.Patch("/{id}", s.adminUpdateResume)
			r.Delete("/{id}", s.adminDeleteResume)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/acadflow/syllabus-planner/internal/auth"
	"github.com/acadflow/syllabus-planner/internal/config"
	"github.com/acadflow/syllabus-planner/internal/events"
	handlers "github.com/acadflow/syllabus-planner/internal/handlers/v1alpha1"
	"github.com/acadflow/syllabus-planner/internal/service"
	"github.com/acadflow/syllabus-planner/internal/store"
	"github.com/acadflow/syllabus-planner/internal/tasks"
	"github.com/acadflow/syllabus-planner/pkg/metrics"
	"github.com/acadflow/syllabus-planner/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg           *config.Config
	store         store.Store
	listener      net.Listener
	eventProducer *events.EventProducer
	taskPublisher tasks.Publisher
}

// New returns a new instance of a syllabus-planner server.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
	eventProducer *events.EventProducer,
	taskPublisher tasks.Publisher,
) *Server {
	return &Server{
		cfg:           cfg,
		store:         store,
		listener:      listener,
		eventProducer: eventProducer,
		taskPublisher: taskPublisher,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	authenticator, err := auth.NewAuthenticator(s.cfg.Service.Auth)
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		authenticator.Authenticator,
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	h := handlers.NewServiceHandler(
		service.NewSyllabusService(s.store),
		service.NewWorkflowService(s.store, s.eventProducer),
		service.NewHistoryService(s.store),
		service.NewRevisionService(s.store, s.eventProducer),
		service.NewTaskService(s.store, s.taskPublisher),
		service.NewHealthService(s.store),
	)

	router.Get("/health", h.Health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/syllabi", func(r chi.Router) {
			r.Get("/", h.ListSyllabi)
			r.Post("/", h.CreateSyllabus)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetSyllabus)
				r.Get("/workflow", h.ListWorkflowSteps)
				r.Post("/workflow", h.InitializeWorkflow)
				r.Post("/workflow/decision", h.SubmitDecision)
				r.Get("/workflow/active-step", h.GetActiveStep)
				r.Get("/approval-history", h.ListApprovalHistory)
				r.Get("/revisions", h.ListRevisions)
				r.Get("/revisions/active", h.GetActiveRevision)
				r.Get("/revisions/awaiting-republish", h.GetRevisionAwaitingRepublish)
			})
		})

		r.Post("/approval-history", h.AppendApprovalHistory)

		r.Route("/revisions", func(r chi.Router) {
			r.Post("/start", h.StartRevision)
			r.Post("/submit", h.SubmitRevision)
			r.Post("/review", h.ReviewRevision)
			r.Post("/{id}/republish", h.RepublishRevision)
			r.Get("/pending-review", h.ListRevisionsPendingReview)
			r.Get("/pending-republish", h.ListRevisionsPendingRepublish)
		})

		r.Route("/ai", func(r chi.Router) {
			r.Post("/syllabus/{id}/check-clo-plo", h.CheckCLOPLO)
			r.Post("/syllabus/{id}/summarize", h.SummarizeSyllabus)
			r.Post("/syllabus/compare", h.CompareSyllabi)
			r.Get("/tasks/{taskId}/status", h.GetTaskStatus)
		})
	})

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}

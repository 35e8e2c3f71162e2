package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/alternativa-centar/site/config"
	"github.com/alternativa-centar/site/internal/db"
	"github.com/alternativa-centar/site/internal/handlers"
	"github.com/alternativa-centar/site/internal/images"
	"github.com/alternativa-centar/site/internal/logging"
	"github.com/alternativa-centar/site/internal/mail"
	"github.com/alternativa-centar/site/internal/mq"
	"github.com/alternativa-centar/site/internal/services"
	"github.com/alternativa-centar/site/internal/storage"
	"github.com/alternativa-centar/site/internal/store"
	"github.com/alternativa-centar/site/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Services bundles the use-case layer the router exposes.
type Services struct {
	Users         *services.UserService
	News          *services.NewsService
	Team          *services.TeamService
	Neighborhoods *services.NeighborhoodService
	Videos        *services.VideoService
	Contact       *services.ContactService
}

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	queue      *mq.MQ
	log        logrus.FieldLogger
}

// New connects every backing service and builds the router.
func New(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	objects, err := storage.FromConfig(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	if objects != nil {
		if err := objects.EnsureBucket(ctx); err != nil {
			_ = dbConn.Close()
			return nil, fmt.Errorf("ensure bucket: %w", err)
		}
		log.WithField("bucket", objects.Bucket()).Info("image uploads go to object storage")
	}

	queue, err := mq.FromConfig(ctx, cfg.Broker)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	neighborhoods := services.NewNeighborhoodService(store.NewNeighborhoodRepository(dbConn))
	processor := images.NewProcessor(cfg.Images, objects, log)

	svcs := Services{
		Users:         services.NewUserService(store.NewUserRepository(dbConn)),
		News:          services.NewNewsService(store.NewNewsRepository(dbConn), processor),
		Team:          services.NewTeamService(store.NewTeamRepository(dbConn), processor),
		Neighborhoods: neighborhoods,
		Videos:        services.NewVideoService(store.NewVideoRepository(dbConn)),
		Contact:       services.NewContactService(neighborhoods, contactDispatcher(cfg, queue, log)),
	}

	router := NewRouter(svcs, handlers.NewSessions(cfg.Auth), log, cfg.WebDir)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		queue:      queue,
		log:        log,
	}, nil
}

// contactDispatcher queues submissions when a broker is configured and
// mails them inline otherwise.
func contactDispatcher(cfg config.Config, queue *mq.MQ, log logrus.FieldLogger) services.ContactDispatcher {
	if queue != nil {
		log.WithField("topic", cfg.Broker.ContactTopic).Info("contact submissions are queued for the worker")
		return services.NewQueueDispatcher(queue, cfg.Broker.ContactTopic)
	}

	mailer, err := mail.FromConfig(cfg.Mail)
	if err != nil {
		log.WithError(err).Warn("mail is not configured; contact form submissions will fail")
		return unavailableDispatcher{err: err}
	}
	return services.NewMailDispatcher(mailer, cfg.Mail.From, cfg.Mail.Recipient())
}

type unavailableDispatcher struct {
	err error
}

func (d unavailableDispatcher) Dispatch(context.Context, types.ContactSubmission) error {
	return fmt.Errorf("mail is not configured: %w", d.err)
}

// NewRouter wires middleware, the route guard, the JSON API and, when
// webDir is set, the static site.
func NewRouter(svcs Services, sessions *handlers.Sessions, log logrus.FieldLogger, webDir string) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		logging.RequestLogger(log),
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
		handlers.RouteGuard(sessions),
	)
	router.Get("/healthz", handlers.Healthz)

	router.Route("/api", func(r chi.Router) {
		handlers.AuthRouter(r, svcs.Users, sessions, log)

		r.Route("/news", func(r chi.Router) {
			handlers.NewsRouter(r, svcs.News, log)
		})
		r.Route("/team", func(r chi.Router) {
			handlers.TeamRouter(r, svcs.Team, log)
		})
		r.Route("/neighborhoods", func(r chi.Router) {
			handlers.NeighborhoodRouter(r, svcs.Neighborhoods, log)
		})
		r.Route("/videos", func(r chi.Router) {
			handlers.VideoRouter(r, svcs.Videos, log)
		})
		r.Route("/contact", func(r chi.Router) {
			handlers.ContactRouter(r, svcs.Contact, log)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Route("/news", func(r chi.Router) {
				handlers.AdminNewsRouter(r, svcs.News, log)
			})
			r.Route("/team", func(r chi.Router) {
				handlers.AdminTeamRouter(r, svcs.Team, log)
			})
			r.Route("/neighborhoods", func(r chi.Router) {
				handlers.AdminNeighborhoodRouter(r, svcs.Neighborhoods, log)
			})
			r.Route("/videos", func(r chi.Router) {
				handlers.AdminVideoRouter(r, svcs.Videos, log)
			})
		})
	})

	if strings.TrimSpace(webDir) != "" {
		router.Handle("/*", staticSite(webDir))
	}

	return router
}

// staticSite serves a pre-built site directory. Extension-less page paths
// resolve to their .html file.
func staticSite(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clean := path.Clean("/" + r.URL.Path)
		if clean != "/" && path.Ext(clean) == "" {
			candidate := filepath.Join(dir, filepath.FromSlash(clean)+".html")
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				http.ServeFile(w, r, candidate)
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.log.WithField("addr", s.httpServer.Addr).Info("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then closes the broker and database.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}

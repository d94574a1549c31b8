package api

import (
	"log/slog"
	"net/http"
	"time"

	"loan-marketplace/internal/api/handler"
	mw "loan-marketplace/internal/api/middleware"
	"loan-marketplace/internal/config"
	"loan-marketplace/internal/domain/account"
	"loan-marketplace/internal/domain/loan"
	"loan-marketplace/internal/domain/notification"
	"loan-marketplace/internal/domain/origination"

	_ "loan-marketplace/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Services bundles everything the router wires to handlers.
type Services struct {
	Accounts      account.Service
	Engine        origination.Engine
	Ledger        loan.LedgerService
	Notifications notification.Service
}

func SetupRouter(svcs Services, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupAuthRoutes(router, svcs, cfg, logger)
	setupAccountRoutes(router, svcs, cfg, logger)
	setupMarketplaceRoutes(router, svcs, cfg, logger)
	setupLoanRoutes(router, svcs, cfg, logger)
	setupNotificationRoutes(router, svcs, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAuthRoutes(router *chi.Mux, svcs Services, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewAuthHandler(svcs.Accounts, *cfg, logger)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/creditors", h.RegisterCreditor)
		r.Post("/debtors", h.RegisterDebtor)
		r.Post("/login", h.Login)
	})
}

func setupAccountRoutes(router *chi.Mux, svcs Services, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewAccountHandler(svcs.Accounts, logger)

	router.Route("/creditors/me", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Use(mw.RequireRole(account.RoleCreditor, logger))
		r.Get("/", h.GetCreditorProfile)
		r.Post("/deposits", h.Deposit)
	})

	router.Route("/debtors/me", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Use(mw.RequireRole(account.RoleDebtor, logger))
		r.Get("/", h.GetDebtorProfile)
		r.Put("/profile", h.UpdateDebtorProfile)
	})
}

func setupMarketplaceRoutes(router *chi.Mux, svcs Services, cfg *config.Config, logger *slog.Logger) {
	offerHandler := handler.NewOfferHandler(svcs.Engine, logger)
	proposalHandler := handler.NewProposalHandler(svcs.Engine, logger)
	interestHandler := handler.NewInterestHandler(svcs.Engine, logger)

	router.Route("/offers", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Use(mw.RequireRole(account.RoleCreditor, logger))
		r.Post("/", offerHandler.CreateOffer)
		r.Get("/", offerHandler.ListOffers)
		r.Route("/{offerID}", func(r chi.Router) {
			r.Get("/", offerHandler.GetOffer)
			r.Delete("/", offerHandler.DeactivateOffer)
			r.Delete("/delete", offerHandler.DeleteOffer)
			r.Get("/options", offerHandler.GetOfferOptions)
			r.Post("/proposals", offerHandler.PublishProposal)
		})
	})

	router.Route("/proposals", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/", proposalHandler.ListPublicProposals)
		r.With(mw.RequireRole(account.RoleCreditor, logger)).Get("/mine", proposalHandler.ListMyProposals)
		r.Route("/{proposalID}", func(r chi.Router) {
			r.Get("/", proposalHandler.GetProposalDetails)
			r.With(mw.RequireRole(account.RoleCreditor, logger)).Get("/stats", proposalHandler.GetProposalStats)
			r.With(mw.RequireRole(account.RoleCreditor, logger)).Delete("/", proposalHandler.CancelProposal)
			r.With(mw.RequireRole(account.RoleCreditor, logger)).Get("/interests", proposalHandler.ListProposalInterests)
			r.With(mw.RequireRole(account.RoleDebtor, logger)).Post("/interests", proposalHandler.RegisterInterest)
		})
	})

	router.Route("/interests", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.With(mw.RequireRole(account.RoleDebtor, logger)).Get("/", interestHandler.ListMyInterests)
		r.Route("/{interestID}", func(r chi.Router) {
			r.With(mw.RequireRole(account.RoleCreditor, logger)).Post("/approval", interestHandler.ApproveInterest)
			r.With(mw.RequireRole(account.RoleCreditor, logger)).Post("/rejection", interestHandler.RejectInterest)
			r.With(mw.RequireRole(account.RoleDebtor, logger)).Delete("/", interestHandler.CancelInterest)
			r.Post("/confirmations", interestHandler.ConfirmInterest)
		})
	})
}

func setupLoanRoutes(router *chi.Mux, svcs Services, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewLoanHandler(svcs.Ledger, logger)

	router.Route("/loans", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/", h.ListLoans)
		r.Route("/{loanID}", func(r chi.Router) {
			r.Get("/", h.GetLoan)
			r.Get("/installments", h.GetInstallments)
			r.Get("/arrears", h.GetArrears)
			r.Get("/summary", h.GetSummary)
			r.With(mw.RequireRole(account.RoleDebtor, logger)).Post("/installments/{installmentID}/payments", h.PayInstallment)
		})
	})
}

func setupNotificationRoutes(router *chi.Mux, svcs Services, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewNotificationHandler(svcs.Notifications, logger)

	router.Route("/notifications", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/", h.ListNotifications)
		r.Get("/unread", h.GetUnreadCount)
		r.Post("/read", h.MarkAllNotificationsRead)
		r.Delete("/read", h.DeleteReadNotifications)
		r.Post("/{notificationID}/read", h.MarkNotificationRead)
	})
}

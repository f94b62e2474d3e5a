package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/markbates/goth/gothic"
	"github.com/sirupsen/logrus"

	"github.com/sbasnet/npl-fantasy/internal/config"
	"github.com/sbasnet/npl-fantasy/internal/db"
	"github.com/sbasnet/npl-fantasy/internal/httputil"
	"github.com/sbasnet/npl-fantasy/internal/middleware"
	"github.com/sbasnet/npl-fantasy/internal/service"
	"github.com/sbasnet/npl-fantasy/internal/store"
)

type cronResponse struct {
	Success      bool     `json:"success"`
	Activated    int      `json:"activated"`
	Skipped      int      `json:"skipped,omitempty"`
	Errors       int      `json:"errors"`
	ErrorDetails []string `json:"errorDetails,omitempty"`
	Message      string   `json:"message"`
}

// resolveTournamentID prefers the configured tournament and falls back to
// the active one in storage. Empty means no tournament, which downstream
// code treats as an empty fixture list.
func resolveTournamentID(ctx context.Context, cfg *config.Config, matchStore *store.MatchStore) string {
	if cfg.TournamentID != "" {
		return cfg.TournamentID
	}
	tournament, err := matchStore.GetActiveTournament(ctx)
	if err != nil {
		return ""
	}
	return tournament.ID.String()
}

func newRouter(sessionManager *scs.SessionManager, cfg *config.Config, logger *logrus.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(sessionManager.LoadAndSave)

	r.Route("/api/cron", func(r chi.Router) {
		r.Use(middleware.RequireCronSecret(cfg.CronSecret))

		activate := func(w http.ResponseWriter, req *http.Request) {
			dbConn := db.GetDB()
			matchStore := store.NewMatchStore(dbConn)
			predictionStore := store.NewPredictionStore(dbConn)

			tournamentID := resolveTournamentID(req.Context(), cfg, matchStore)
			activationService := service.NewActivationService(predictionStore, matchStore, tournamentID, logger)

			summary, err := activationService.Run(req.Context(), time.Now())
			if err != nil {
				logger.WithError(err).Error("activation run failed")
				httputil.JSON(w, http.StatusInternalServerError, map[string]any{
					"success": false,
					"error":   err.Error(),
				})
				return
			}

			httputil.JSON(w, http.StatusOK, cronResponse{
				Success:      true,
				Activated:    summary.Activated,
				Skipped:      summary.Skipped,
				Errors:       summary.Errors,
				ErrorDetails: summary.ErrorDetails,
				Message:      fmt.Sprintf("Activated %d scheduled prediction(s)", summary.Activated),
			})
		}
		// Cron invokes GET; POST supports manual re-runs.
		r.Get("/activate-predictions", activate)
		r.Post("/activate-predictions", activate)

		remind := func(w http.ResponseWriter, req *http.Request) {
			dbConn := db.GetDB()
			matchStore := store.NewMatchStore(dbConn)
			userStore := store.NewUserStore(dbConn)

			tournamentID := resolveTournamentID(req.Context(), cfg, matchStore)
			reminderService := service.NewReminderService(
				matchStore, userStore, &service.LogNotifier{Log: logger},
				tournamentID, cfg.ReminderWindow, logger)

			summary, err := reminderService.Run(req.Context(), time.Now())
			if err != nil {
				logger.WithError(err).Error("reminder run failed")
				httputil.JSON(w, http.StatusInternalServerError, map[string]any{
					"success": false,
					"error":   err.Error(),
				})
				return
			}

			httputil.JSON(w, http.StatusOK, map[string]any{
				"success":      true,
				"notified":     summary.Notified,
				"errors":       summary.Errors,
				"errorDetails": summary.ErrorDetails,
				"message":      fmt.Sprintf("Sent %d reminder(s)", summary.Notified),
			})
		}
		r.Get("/send-reminders", remind)
		r.Post("/send-reminders", remind)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessionManager, store.NewUserStore(db.GetDB())))

		r.Get("/api/matches", func(w http.ResponseWriter, req *http.Request) {
			dbConn := db.GetDB()
			matchStore := store.NewMatchStore(dbConn)
			matchService := service.NewMatchService(dbConn, matchStore, store.NewPredictionStore(dbConn))

			userID, ok := middleware.GetUserIDFromContext(req.Context())
			if !ok {
				httputil.Unauthorized(w, "login required")
				return
			}

			tournamentID := resolveTournamentID(req.Context(), cfg, matchStore)
			views, err := matchService.ListMatchViews(req.Context(), tournamentID, userID, time.Now())
			if err != nil {
				httputil.InternalServerError(w, "Failed to list matches", err)
				return
			}
			httputil.JSON(w, http.StatusOK, views)
		})

		r.Get("/api/predictions", func(w http.ResponseWriter, req *http.Request) {
			dbConn := db.GetDB()
			predictionService := service.NewPredictionService(
				dbConn, store.NewMatchStore(dbConn), store.NewPredictionStore(dbConn), logger)

			userID, ok := middleware.GetUserIDFromContext(req.Context())
			if !ok {
				httputil.Unauthorized(w, "login required")
				return
			}

			predictions, err := predictionService.PredictionsForUser(req.Context(), userID)
			if err != nil {
				httputil.InternalServerError(w, "Failed to list predictions", err)
				return
			}
			httputil.JSON(w, http.StatusOK, predictions)
		})

		r.Post("/api/predictions", func(w http.ResponseWriter, req *http.Request) {
			dbConn := db.GetDB()
			predictionService := service.NewPredictionService(
				dbConn, store.NewMatchStore(dbConn), store.NewPredictionStore(dbConn), logger)

			userID, ok := middleware.GetUserIDFromContext(req.Context())
			if !ok {
				httputil.Unauthorized(w, "login required")
				return
			}

			var in service.PredictionInput
			if err := decodeJSON(req, &in); err != nil {
				httputil.BadRequest(w, "Invalid prediction payload", err)
				return
			}
			if in.PredictedWinner == "" {
				httputil.BadRequest(w, "predictedWinner is required", nil)
				return
			}

			prediction, err := predictionService.Submit(req.Context(), userID, in)
			if err != nil {
				switch {
				case errors.Is(err, sql.ErrNoRows):
					httputil.NotFound(w, "Match not found", err)
				case errors.Is(err, service.ErrDeadlinePassed),
					errors.Is(err, service.ErrMatchLocked),
					errors.Is(err, service.ErrMatchNotOpen):
					httputil.BadRequest(w, err.Error(), err)
				default:
					httputil.InternalServerError(w, "Failed to submit prediction", err)
				}
				return
			}
			httputil.JSON(w, http.StatusOK, prediction)
		})
	})

	r.Get("/auth/{provider}", func(w http.ResponseWriter, req *http.Request) {
		provider := chi.URLParam(req, "provider")
		req = req.WithContext(context.WithValue(req.Context(), "provider", provider))

		gothic.BeginAuthHandler(w, req)
	})

	r.Get("/auth/{provider}/callback", func(w http.ResponseWriter, req *http.Request) {
		provider := chi.URLParam(req, "provider")
		req = req.WithContext(context.WithValue(req.Context(), "provider", provider))

		gothUser, err := gothic.CompleteUserAuth(w, req)
		if err != nil {
			httputil.BadRequest(w, "Authentication failure", err)
			return
		}

		dbConn := db.GetDB()
		userService := service.NewUserService(dbConn, store.NewUserStore(dbConn))
		user, err := userService.FindOrCreateUserByProvider(req.Context(), gothUser)
		if err != nil {
			httputil.InternalServerError(w, "Failed to find or create user", err)
			return
		}

		sessionManager.Put(req.Context(), "userID", user.ID.String())

		http.Redirect(w, req, "/", http.StatusFound)
	})

	r.Post("/auth/guest", func(w http.ResponseWriter, req *http.Request) {
		dbConn := db.GetDB()
		userService := service.NewUserService(dbConn, store.NewUserStore(dbConn))

		user, err := userService.EnsureGuestUser(req.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to login as guest", err)
			return
		}

		sessionManager.Put(req.Context(), "userID", user.ID.String())
		httputil.JSON(w, http.StatusOK, user)
	})

	r.Post("/logout", func(w http.ResponseWriter, req *http.Request) {
		sessionManager.Destroy(req.Context())
		w.WriteHeader(http.StatusOK)
	})

	return r
}

package api

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/jainrajat254/projecthub-backend/internal/config"
	"github.com/jainrajat254/projecthub-backend/internal/db"
	"github.com/jainrajat254/projecthub-backend/internal/profilecache"
	"github.com/jainrajat254/projecthub-backend/internal/repository/sqlite"
	"github.com/jainrajat254/projecthub-backend/internal/schema"
)

func SetupRoutes(ctx context.Context, cfg *config.Config, version, buildTime string, conn *db.DB, queue Enqueuer) (*mux.Router, error) {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(conn)

	validator, err := schema.NewLoader(ctx, repo)
	if err != nil {
		return nil, err
	}
	profiles := profilecache.New(repo, repo)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, queue, cfg.JWTSecret, cfg.TokenDuration)
	onboardingHandler := NewOnboardingHandler(repo, repo)
	assignmentsHandler := NewAssignmentsHandler(repo, validator)
	bidsHandler := NewBidsHandler(repo, repo, validator, profiles)
	usersHandler := NewUsersHandler(profiles)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/verify", authHandler.Verify).Methods("GET")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")
	r.HandleFunc("/v1/auth/resend-verification", authHandler.ResendVerification).Methods("POST")
	r.HandleFunc("/v1/auth/reset-password", authHandler.ResetPassword).Methods("POST")
	r.HandleFunc("/v1/auth/reset-password/confirm", authHandler.ConfirmReset).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")
	authV1.HandleFunc("/status", authHandler.Status).Methods("GET")
	authV1.HandleFunc("/change-password", authHandler.ChangePassword).Methods("POST")

	// Onboarding endpoints
	apiV1.HandleFunc("/onboarding/complete", onboardingHandler.CompleteOnboarding).Methods("POST")
	apiV1.HandleFunc("/onboarding/profile", onboardingHandler.CompleteProfileSetup).Methods("POST")
	apiV1.HandleFunc("/onboarding/profile", onboardingHandler.GetProfile).Methods("GET")

	// Assignment endpoints
	apiV1.HandleFunc("/assignments", assignmentsHandler.CreateAssignment).Methods("POST")
	apiV1.HandleFunc("/assignments", assignmentsHandler.ListAssignments).Methods("GET")
	apiV1.HandleFunc("/assignments/{id}", assignmentsHandler.GetAssignment).Methods("GET")
	apiV1.HandleFunc("/assignments/{id}", assignmentsHandler.UpdateAssignment).Methods("PUT")

	// Bid endpoints
	apiV1.HandleFunc("/assignments/{id}/bids", bidsHandler.PlaceBid).Methods("POST")
	apiV1.HandleFunc("/assignments/{id}/bids", bidsHandler.ListBids).Methods("GET")
	apiV1.HandleFunc("/bids/{id}", bidsHandler.UpdateBid).Methods("PUT")
	apiV1.HandleFunc("/bids/{id}/status", bidsHandler.UpdateBidStatus).Methods("PUT")

	// User display endpoints
	apiV1.HandleFunc("/users/{id}/display", usersHandler.Display).Methods("GET")

	return r, nil
}

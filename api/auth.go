package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jainrajat254/projecthub-backend/internal/jobs"
	"github.com/jainrajat254/projecthub-backend/internal/session"
	"github.com/jainrajat254/projecthub-backend/pkg/models"
	"github.com/jainrajat254/projecthub-backend/pkg/repository"
	"golang.org/x/crypto/bcrypt"
)

// Enqueuer schedules background jobs (verification and reset emails).
// Satisfied by *jobs.WorkerPool.
type Enqueuer interface {
	Enqueue(ctx context.Context, typ string, payload any, priority int, maxAttempts int) (int64, error)
}

type AuthHandler struct {
	userRepo      repository.UserRepo
	queue         Enqueuer
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(ur repository.UserRepo, queue Enqueuer, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{userRepo: ur, queue: queue, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type authResponse struct {
	Token  string            `json:"token"`
	Status models.AuthStatus `json:"status"`
}

// Signup registers an unverified account and schedules a verification email.
// It never issues a session token: the account is unusable until the email is
// verified.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email or Password missing", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()

	user := models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		VerifyToken:  uuid.NewString(),
	}

	if err := h.userRepo.CreateUser(ctx, &user); err != nil {
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	payload := jobs.EmailPayload{Email: user.Email, Token: user.VerifyToken}
	if _, err := h.queue.Enqueue(ctx, jobs.TypeVerifyEmail, payload, 100, 3); err != nil {
		http.Error(w, "Failed to send email verification", http.StatusInternalServerError)
		return
	}

	writeMessage(w, "Verification email sent! Please verify your email.", http.StatusAccepted)
}

// Verify consumes a verification token issued at signup or resend.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	user, err := h.userRepo.GetByVerifyToken(ctx, token)
	if err != nil {
		http.Error(w, "Error verifying email", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "invalid or expired token", http.StatusNotFound)
		return
	}

	if err := h.userRepo.SetEmailVerified(ctx, user.ID); err != nil {
		http.Error(w, "Error verifying email", http.StatusInternalServerError)
		return
	}

	writeMessage(w, "email verified", http.StatusOK)
}

// Signin checks credentials and resolves the onboarding phase. An unverified
// email never yields a token, regardless of the persisted flags.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email or Password missing", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil || user == nil {
		http.Error(w, "Credentials not found", http.StatusUnauthorized)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "Credentials not found", http.StatusUnauthorized)
		return
	}

	if !user.EmailVerified {
		http.Error(w, "Please verify your email before login", http.StatusForbidden)
		return
	}

	if err := h.userRepo.SetRememberMe(ctx, user.ID, req.RememberMe); err != nil {
		http.Error(w, "Error saving session", http.StatusInternalServerError)
		return
	}

	tokenStr, err := h.issueToken(user.ID)
	if err != nil {
		http.Error(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{Token: tokenStr, Status: session.Resolve(user)}, http.StatusOK)
}

type emailRequest struct {
	Email string `json:"email"`
}

// ResendVerification re-issues a verification token for an existing
// unverified account.
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		http.Error(w, "Email missing", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		http.Error(w, "Error looking up user", http.StatusInternalServerError)
		return
	}
	if user == nil || user.EmailVerified {
		http.Error(w, "User not found or already verified", http.StatusConflict)
		return
	}

	user.VerifyToken = uuid.NewString()
	if err := h.userRepo.UpdateUser(ctx, user); err != nil {
		http.Error(w, "Failed to resend email verification", http.StatusInternalServerError)
		return
	}

	payload := jobs.EmailPayload{Email: user.Email, Token: user.VerifyToken}
	if _, err := h.queue.Enqueue(ctx, jobs.TypeVerifyEmail, payload, 100, 3); err != nil {
		http.Error(w, "Failed to resend email verification", http.StatusInternalServerError)
		return
	}

	writeMessage(w, "Verification email resent. Please check your email.", http.StatusAccepted)
}

// ResetPassword schedules a reset email. The response does not reveal
// whether the address has an account.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		http.Error(w, "Please enter your email", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		http.Error(w, "Error sending reset email", http.StatusInternalServerError)
		return
	}

	if user != nil {
		user.ResetToken = uuid.NewString()
		if err := h.userRepo.UpdateUser(ctx, user); err != nil {
			http.Error(w, "Error sending reset email", http.StatusInternalServerError)
			return
		}
		payload := jobs.EmailPayload{Email: user.Email, Token: user.ResetToken}
		if _, err := h.queue.Enqueue(ctx, jobs.TypeResetEmail, payload, 100, 3); err != nil {
			http.Error(w, "Error sending reset email", http.StatusInternalServerError)
			return
		}
	}

	writeMessage(w, "Reset password email has been sent", http.StatusAccepted)
}

type confirmResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ConfirmReset consumes a reset token and installs the new password.
func (h *AuthHandler) ConfirmReset(w http.ResponseWriter, r *http.Request) {
	var req confirmResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Token == "" || len(req.NewPassword) < 6 {
		http.Error(w, "New password must be at least 6 characters long", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	user, err := h.userRepo.GetByResetToken(ctx, req.Token)
	if err != nil {
		http.Error(w, "Error resetting password", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "invalid or expired token", http.StatusNotFound)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}
	if err := h.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		http.Error(w, "Error resetting password", http.StatusInternalServerError)
		return
	}

	writeMessage(w, "password updated", http.StatusOK)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword re-authenticates with the old password before updating.
// A wrong old password is reported distinctly from storage failures.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID == "" {
		http.Error(w, "No user is currently signed in", http.StatusUnauthorized)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		http.Error(w, "Please enter both old and new passwords", http.StatusBadRequest)
		return
	}
	if len(req.NewPassword) < 6 {
		http.Error(w, "New password must be at least 6 characters long", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		http.Error(w, "No user is currently signed in", http.StatusUnauthorized)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		http.Error(w, "Incorrect old password. Please try again or use 'Forgot Password'", http.StatusUnauthorized)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Failed to update password", http.StatusInternalServerError)
		return
	}
	if err := h.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		http.Error(w, "Failed to update password", http.StatusInternalServerError)
		return
	}

	writeMessage(w, "Password updated successfully", http.StatusOK)
}

// Signout clears the remember-me flag. The JWT is stateless; onboarding and
// profile-setup flags survive, so the next login skips those phases.
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID != "" {
		if err := h.userRepo.SetRememberMe(r.Context(), userID, false); err != nil {
			http.Error(w, "Error signing out", http.StatusInternalServerError)
			return
		}
	}

	writeMessage(w, "signed out", http.StatusOK)
}

type statusResponse struct {
	Status models.AuthStatus `json:"status"`
}

// Status resolves the current onboarding/auth phase for the caller.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID == "" {
		writeJSON(w, statusResponse{Status: models.StatusUnauthenticated}, http.StatusOK)
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "Error resolving status", http.StatusInternalServerError)
		return
	}

	writeJSON(w, statusResponse{Status: session.Resolve(user)}, http.StatusOK)
}

func (h *AuthHandler) issueToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(h.tokenDuration).Unix(),
	})
	return token.SignedString([]byte(h.jwtSecret))
}

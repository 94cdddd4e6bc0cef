package api

import (
	"encoding/json"
	"net/http"

	"github.com/jainrajat254/projecthub-backend/internal/session"
	"github.com/jainrajat254/projecthub-backend/pkg/models"
	"github.com/jainrajat254/projecthub-backend/pkg/repository"
)

type OnboardingHandler struct {
	userRepo    repository.UserRepo
	profileRepo repository.ProfileRepo
}

func NewOnboardingHandler(ur repository.UserRepo, pr repository.ProfileRepo) *OnboardingHandler {
	return &OnboardingHandler{userRepo: ur, profileRepo: pr}
}

// CompleteOnboarding records the onboarding flag and reports the next phase.
// The response is always profile_setup_required; the profile-setup flag is
// deliberately not re-checked here.
func (h *OnboardingHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID == "" {
		http.Error(w, "No user is currently signed in", http.StatusUnauthorized)
		return
	}

	if err := h.userRepo.SetOnboardingComplete(r.Context(), userID); err != nil {
		http.Error(w, "Error saving onboarding state", http.StatusInternalServerError)
		return
	}

	writeJSON(w, statusResponse{Status: session.AfterOnboarding()}, http.StatusOK)
}

type profileSetupRequest struct {
	Name            string   `json:"name"`
	Bio             string   `json:"bio"`
	CollegeName     string   `json:"college_name"`
	Semester        string   `json:"semester"`
	CollegeLocation string   `json:"college_location"`
	Skills          []string `json:"skills"`
	ProfilePhotoID  int      `json:"profile_photo_id"`
}

// CompleteProfileSetup saves the profile and records the profile-setup flag.
func (h *OnboardingHandler) CompleteProfileSetup(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID == "" {
		http.Error(w, "No user is currently signed in", http.StatusUnauthorized)
		return
	}

	var req profileSetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}
	if req.ProfilePhotoID <= 0 {
		req.ProfilePhotoID = 1
	}

	ctx := r.Context()

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		http.Error(w, "No user is currently signed in", http.StatusUnauthorized)
		return
	}
	user.Name = req.Name
	if err := h.userRepo.UpdateUser(ctx, user); err != nil {
		http.Error(w, "Error saving profile", http.StatusInternalServerError)
		return
	}

	profile := models.Profile{
		UserID:          userID,
		Bio:             req.Bio,
		CollegeName:     req.CollegeName,
		Semester:        req.Semester,
		CollegeLocation: req.CollegeLocation,
		Skills:          req.Skills,
		ProfilePhotoID:  req.ProfilePhotoID,
	}
	if err := h.profileRepo.UpsertProfile(ctx, &profile); err != nil {
		http.Error(w, "Error saving profile", http.StatusInternalServerError)
		return
	}

	if err := h.userRepo.SetProfileSetupComplete(ctx, userID); err != nil {
		http.Error(w, "Error saving profile state", http.StatusInternalServerError)
		return
	}

	writeJSON(w, statusResponse{Status: session.AfterProfileSetup()}, http.StatusOK)
}

// GetProfile returns the caller's saved profile.
func (h *OnboardingHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID == "" {
		http.Error(w, "No user is currently signed in", http.StatusUnauthorized)
		return
	}

	p, err := h.profileRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		http.Error(w, "Error loading profile", http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}

	writeJSON(w, p, http.StatusOK)
}

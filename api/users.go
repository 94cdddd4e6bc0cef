package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jainrajat254/projecthub-backend/internal/profilecache"
)

type UsersHandler struct {
	profiles *profilecache.Cache
}

func NewUsersHandler(pc *profilecache.Cache) *UsersHandler {
	return &UsersHandler{profiles: pc}
}

type displayResponse struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	ProfilePhotoID int    `json:"profile_photo_id"`
}

// Display returns the cached display name and avatar for a user. Unknown
// users get the fallback values instead of an error, so callers can render a
// bid list without checking each bidder.
func (h *UsersHandler) Display(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.profiles.Preload(r.Context()); err != nil {
		logger.Warn("profile preload failed", "err", err)
	}

	writeJSON(w, displayResponse{
		UserID:         id,
		Name:           h.profiles.GetUserName(id),
		ProfilePhotoID: h.profiles.GetProfilePhotoID(id),
	}, http.StatusOK)
}

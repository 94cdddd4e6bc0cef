package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jainrajat254/projecthub-backend/internal/schema"
	"github.com/jainrajat254/projecthub-backend/pkg/models"
	"github.com/jainrajat254/projecthub-backend/pkg/repository"
)

// DocumentValidator checks a document against a stored schema before it is
// written. Satisfied by *schema.Loader.
type DocumentValidator interface {
	Validate(ctx context.Context, name string, doc []byte) error
}

type AssignmentsHandler struct {
	assignmentRepo repository.AssignmentRepo
	validator      DocumentValidator
}

func NewAssignmentsHandler(ar repository.AssignmentRepo, v DocumentValidator) *AssignmentsHandler {
	return &AssignmentsHandler{assignmentRepo: ar, validator: v}
}

type assignmentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Deadline    string `json:"deadline"`
	Budget      int    `json:"budget"`
}

// CreateAssignment validates all five fields client-side semantics kept:
// nothing blank, budget positive. The id is generated up front and created_by
// is taken from the session, never from the body.
func (h *AssignmentsHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID == "" {
		http.Error(w, "No user is currently signed in", http.StatusUnauthorized)
		return
	}

	var req assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Deadline = strings.TrimSpace(req.Deadline)
	if req.Title == "" || req.Description == "" || req.Subject == "" || req.Deadline == "" || req.Budget <= 0 {
		http.Error(w, "All fields are required and budget must be positive", http.StatusBadRequest)
		return
	}

	a := models.Assignment{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		Deadline:    req.Deadline,
		Budget:      req.Budget,
		CreatedBy:   userID,
		Created:     time.Now().UTC().UnixMilli(),
	}

	ctx := r.Context()
	if err := h.validateDocument(ctx, w, "assignment", a); err != nil {
		return
	}

	if err := h.assignmentRepo.CreateAssignment(ctx, &a); err != nil {
		http.Error(w, "Failed to create assignment", http.StatusInternalServerError)
		return
	}

	writeJSON(w, a, http.StatusCreated)
}

type assignmentUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Subject     *string `json:"subject"`
	Deadline    *string `json:"deadline"`
	Budget      *int    `json:"budget"`
}

// UpdateAssignment applies a partial field update. Only the owner may edit.
func (h *AssignmentsHandler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID == "" {
		http.Error(w, "No user is currently signed in", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	ctx := r.Context()

	a, err := h.assignmentRepo.GetAssignment(ctx, id)
	if err != nil {
		http.Error(w, "Failed to load assignment", http.StatusInternalServerError)
		return
	}
	if a == nil {
		http.Error(w, "assignment not found", http.StatusNotFound)
		return
	}
	if a.CreatedBy != userID {
		http.Error(w, "only the owner can edit an assignment", http.StatusForbidden)
		return
	}

	var req assignmentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if req.Title != nil {
		a.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		a.Description = strings.TrimSpace(*req.Description)
	}
	if req.Subject != nil {
		a.Subject = strings.TrimSpace(*req.Subject)
	}
	if req.Deadline != nil {
		a.Deadline = strings.TrimSpace(*req.Deadline)
	}
	if req.Budget != nil {
		a.Budget = *req.Budget
	}
	if a.Title == "" || a.Description == "" || a.Subject == "" || a.Deadline == "" || a.Budget <= 0 {
		http.Error(w, "All fields are required and budget must be positive", http.StatusBadRequest)
		return
	}

	if err := h.validateDocument(ctx, w, "assignment", a); err != nil {
		return
	}

	if err := h.assignmentRepo.UpdateAssignment(ctx, a); err != nil {
		http.Error(w, "Failed to update assignment", http.StatusInternalServerError)
		return
	}

	writeJSON(w, a, http.StatusOK)
}

// GetAssignment returns one assignment by id.
func (h *AssignmentsHandler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	a, err := h.assignmentRepo.GetAssignment(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to load assignment", http.StatusInternalServerError)
		return
	}
	if a == nil {
		http.Error(w, "assignment not found", http.StatusNotFound)
		return
	}

	writeJSON(w, a, http.StatusOK)
}

// ListAssignments returns either the caller's own assignments or the
// assignments posted by everyone else. With active=true, assignments whose
// deadline has passed are dropped; unparsable deadlines are kept (fail open).
func (h *AssignmentsHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID == "" {
		http.Error(w, "No user is currently signed in", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	scope := q.Get("scope")
	if scope == "" {
		scope = "available"
	}

	var (
		items []models.Assignment
		err   error
	)
	switch scope {
	case "mine":
		items, err = h.assignmentRepo.ListByOwner(r.Context(), userID)
	case "available":
		items, err = h.assignmentRepo.ListAvailable(r.Context(), userID)
	default:
		http.Error(w, "scope must be mine or available", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "Failed to fetch assignments", http.StatusInternalServerError)
		return
	}

	if q.Get("active") == "true" {
		items = filterActive(items, time.Now())
	}

	if items == nil {
		items = []models.Assignment{}
	}

	writeJSON(w, map[string]any{"total": len(items), "items": items}, http.StatusOK)
}

func (h *AssignmentsHandler) validateDocument(ctx context.Context, w http.ResponseWriter, name string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return err
	}
	if err := h.validator.Validate(ctx, name, doc); err != nil {
		var de *schema.DecodeError
		if errors.As(err, &de) {
			http.Error(w, de.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, "document validation unavailable", http.StatusInternalServerError)
		}
		return err
	}
	return nil
}

// deadlineLayouts are the formats the mobile clients were observed to send.
var deadlineLayouts = []string{"2006-01-02", "02/01/2006"}

func filterActive(items []models.Assignment, now time.Time) []models.Assignment {
	out := make([]models.Assignment, 0, len(items))
	for _, a := range items {
		if deadlinePassed(a.Deadline, now) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func deadlinePassed(deadline string, now time.Time) bool {
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, deadline); err == nil {
			return !t.After(now)
		}
	}
	// unparsable deadlines count as not yet expired
	return false
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jainrajat254/projecthub-backend/internal/profilecache"
	"github.com/jainrajat254/projecthub-backend/internal/schema"
	"github.com/jainrajat254/projecthub-backend/pkg/models"
	"github.com/jainrajat254/projecthub-backend/pkg/repository"
)

type BidsHandler struct {
	bidRepo        repository.BidRepo
	assignmentRepo repository.AssignmentRepo
	validator      DocumentValidator
	profiles       *profilecache.Cache
}

func NewBidsHandler(br repository.BidRepo, ar repository.AssignmentRepo, v DocumentValidator, pc *profilecache.Cache) *BidsHandler {
	return &BidsHandler{bidRepo: br, assignmentRepo: ar, validator: v, profiles: pc}
}

type placeBidRequest struct {
	BidAmount      int    `json:"bidAmount"`
	CompletionDate string `json:"enterCompletionDate"`
}

// PlaceBid submits a bid on an assignment, or updates the caller's existing
// bid in place. The amount must be positive and no more than the budget; the
// store enforces at most one bid per (assignment, bidder), so a concurrent
// duplicate submission falls back to the update path instead of inserting a
// second row.
func (h *BidsHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID == "" {
		http.Error(w, "No user is currently signed in", http.StatusUnauthorized)
		return
	}

	assignmentID := mux.Vars(r)["id"]
	ctx := r.Context()

	a, err := h.assignmentRepo.GetAssignment(ctx, assignmentID)
	if err != nil {
		http.Error(w, "Failed to load assignment", http.StatusInternalServerError)
		return
	}
	if a == nil {
		http.Error(w, "assignment not found", http.StatusNotFound)
		return
	}
	if a.CreatedBy == userID {
		http.Error(w, "you cannot bid on your own assignment", http.StatusForbidden)
		return
	}

	var req placeBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	req.CompletionDate = strings.TrimSpace(req.CompletionDate)
	if req.CompletionDate == "" {
		http.Error(w, "Please choose a completion date", http.StatusBadRequest)
		return
	}
	if req.BidAmount <= 0 || req.BidAmount > a.Budget {
		http.Error(w, fmt.Sprintf("Please enter a valid bid amount (greater than 0 and not more than %d)", a.Budget), http.StatusBadRequest)
		return
	}

	existing, err := h.bidRepo.GetByAssignmentAndBidder(ctx, assignmentID, userID)
	if err != nil {
		http.Error(w, "Failed to check existing bid", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		h.updateExisting(w, r, existing, req)
		return
	}

	if err := h.profiles.Preload(ctx); err != nil {
		logger.Warn("profile preload failed", "err", err)
	}

	b := models.Bid{
		ID:             uuid.NewString(),
		AssignmentID:   assignmentID,
		BidderID:       userID,
		BidderName:     h.profiles.GetUserName(userID),
		BidAmount:      req.BidAmount,
		Status:         models.BidPending,
		CompletionDate: req.CompletionDate,
		Created:        time.Now().UTC().UnixMilli(),
	}

	doc, err := json.Marshal(b)
	if err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.validator.Validate(ctx, "bid", doc); err != nil {
		var de *schema.DecodeError
		if errors.As(err, &de) {
			http.Error(w, de.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, "document validation unavailable", http.StatusInternalServerError)
		}
		return
	}

	err = h.bidRepo.CreateBid(ctx, &b)
	if errors.Is(err, repository.ErrDuplicateBid) {
		// lost the race against our own double submission; update instead
		existing, err = h.bidRepo.GetByAssignmentAndBidder(ctx, assignmentID, userID)
		if err != nil || existing == nil {
			http.Error(w, "Error placing bid", http.StatusInternalServerError)
			return
		}
		h.updateExisting(w, r, existing, req)
		return
	}
	if err != nil {
		http.Error(w, "Error placing bid", http.StatusInternalServerError)
		return
	}

	writeJSON(w, b, http.StatusCreated)
}

func (h *BidsHandler) updateExisting(w http.ResponseWriter, r *http.Request, existing *models.Bid, req placeBidRequest) {
	if existing.Status != models.BidPending {
		http.Error(w, "bid has already been decided", http.StatusConflict)
		return
	}

	if err := h.bidRepo.UpdateBidAmount(r.Context(), existing.ID, req.BidAmount, req.CompletionDate); err != nil {
		http.Error(w, "Error updating bid", http.StatusInternalServerError)
		return
	}

	existing.BidAmount = req.BidAmount
	existing.CompletionDate = req.CompletionDate
	writeJSON(w, existing, http.StatusOK)
}

// UpdateBid lets the original bidder change the amount while the bid is
// still pending.
func (h *BidsHandler) UpdateBid(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID == "" {
		http.Error(w, "No user is currently signed in", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	ctx := r.Context()

	b, err := h.bidRepo.GetBid(ctx, id)
	if err != nil {
		http.Error(w, "Failed to load bid", http.StatusInternalServerError)
		return
	}
	if b == nil {
		http.Error(w, "bid not found", http.StatusNotFound)
		return
	}
	if b.BidderID != userID {
		http.Error(w, "only the bidder can edit a bid", http.StatusForbidden)
		return
	}
	if b.Status != models.BidPending {
		http.Error(w, "bid has already been decided", http.StatusConflict)
		return
	}

	a, err := h.assignmentRepo.GetAssignment(ctx, b.AssignmentID)
	if err != nil || a == nil {
		http.Error(w, "Failed to load assignment", http.StatusInternalServerError)
		return
	}

	var req placeBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.BidAmount <= 0 || req.BidAmount > a.Budget {
		http.Error(w, fmt.Sprintf("Please enter a valid bid amount (greater than 0 and not more than %d)", a.Budget), http.StatusBadRequest)
		return
	}

	if err := h.bidRepo.UpdateBidAmount(ctx, b.ID, req.BidAmount, strings.TrimSpace(req.CompletionDate)); err != nil {
		http.Error(w, "Error updating bid", http.StatusInternalServerError)
		return
	}

	b.BidAmount = req.BidAmount
	if d := strings.TrimSpace(req.CompletionDate); d != "" {
		b.CompletionDate = d
	}
	writeJSON(w, b, http.StatusOK)
}

type bidStatusRequest struct {
	Status string `json:"status"`
}

// UpdateBidStatus accepts or rejects a bid. Only the assignment owner may
// decide. Nothing prevents the owner from accepting several bids on the same
// assignment; that mirrors the observed product behavior.
func (h *BidsHandler) UpdateBidStatus(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID == "" {
		http.Error(w, "No user is currently signed in", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	ctx := r.Context()

	var req bidStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Status != models.BidAccepted && req.Status != models.BidRejected {
		http.Error(w, "status must be accepted or rejected", http.StatusBadRequest)
		return
	}

	b, err := h.bidRepo.GetBid(ctx, id)
	if err != nil {
		http.Error(w, "Failed to load bid", http.StatusInternalServerError)
		return
	}
	if b == nil {
		http.Error(w, "bid not found", http.StatusNotFound)
		return
	}

	a, err := h.assignmentRepo.GetAssignment(ctx, b.AssignmentID)
	if err != nil || a == nil {
		http.Error(w, "Failed to load assignment", http.StatusInternalServerError)
		return
	}
	if a.CreatedBy != userID {
		http.Error(w, "only the assignment owner can decide a bid", http.StatusForbidden)
		return
	}

	if err := h.bidRepo.UpdateBidStatus(ctx, b.ID, req.Status); err != nil {
		http.Error(w, "Error updating bid status", http.StatusInternalServerError)
		return
	}

	writeMessage(w, "Bid "+req.Status, http.StatusOK)
}

// ListBids returns every bid on an assignment, oldest first.
func (h *BidsHandler) ListBids(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID == "" {
		http.Error(w, "No user is currently signed in", http.StatusUnauthorized)
		return
	}

	assignmentID := mux.Vars(r)["id"]
	ctx := r.Context()

	a, err := h.assignmentRepo.GetAssignment(ctx, assignmentID)
	if err != nil {
		http.Error(w, "Failed to load assignment", http.StatusInternalServerError)
		return
	}
	if a == nil {
		http.Error(w, "assignment not found", http.StatusNotFound)
		return
	}

	bids, err := h.bidRepo.ListByAssignment(ctx, assignmentID)
	if err != nil {
		http.Error(w, "Failed to fetch bids", http.StatusInternalServerError)
		return
	}
	if bids == nil {
		bids = []models.Bid{}
	}

	writeJSON(w, map[string]any{"total": len(bids), "items": bids}, http.StatusOK)
}

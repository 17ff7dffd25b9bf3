// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/card-matchup/ledger"
	"github.com/danielhkuo/card-matchup/matchup"
	"github.com/danielhkuo/card-matchup/middleware"
	"github.com/danielhkuo/card-matchup/models"
)

// Issuer hands out new matchups
type Issuer interface {
	Issue(ctx context.Context) (models.IssuedMatchup, error)
}

// Submitter records votes
type Submitter interface {
	Submit(ctx context.Context, s ledger.Submission) (models.Vote, error)
}

type MatchupHandler struct {
	issuer Issuer
	ledger Submitter
}

func NewMatchupHandler(issuer Issuer, ledger Submitter) *MatchupHandler {
	return &MatchupHandler{issuer: issuer, ledger: ledger}
}

// GetMatchup handles GET /matchup
func (h *MatchupHandler) GetMatchup(w http.ResponseWriter, r *http.Request) {
	issued, err := h.issuer.Issue(r.Context())
	if errors.Is(err, matchup.ErrNoCards) {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Could not find cards")
		return
	}
	if err != nil {
		slog.Error("failed to issue matchup", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create matchup")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, issued)
}

// SubmitVote handles POST /votes. It takes a JSON body or an HTML form with
// the same field names; form posts are redirected to a fresh matchup.
func (h *MatchupHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	isForm := middleware.IsFormRequest(r)

	var req models.SubmitVoteRequest
	if isForm {
		if err := r.ParseForm(); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid form")
			return
		}
		req.MatchupToken = r.PostFormValue("matchup_token")
		req.ChosenUUID = r.PostFormValue("chosen_uuid")
	} else if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		// An empty body is a submission with no fields
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	vote, err := h.ledger.Submit(r.Context(), ledger.Submission{
		Token:    req.MatchupToken,
		ChosenID: req.ChosenUUID,
		Address:  middleware.GetClientIP(r),
	})
	if ledger.IsRejection(err) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to record vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	if isForm {
		http.Redirect(w, r, "/matchup", http.StatusFound)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVoteResponse{
		VoteID:  vote.ID,
		Message: "Vote recorded",
	})
}

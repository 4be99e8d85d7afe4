package http

import (
	"net/http"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type voteRequest struct {
	ChoiceID *domain.ChoiceID `json:"choice_id"`
}

func (h *VoteHandler) VoteOnPoll(w http.ResponseWriter, r *http.Request) {
	inv, ok := invocation(w, r)
	if !ok {
		return
	}
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	var req voteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ChoiceID == nil {
		badRequest(w, "missing choice id")
		return
	}

	if err := h.service.Vote(r.Context(), inv, pollID, *req.ChoiceID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

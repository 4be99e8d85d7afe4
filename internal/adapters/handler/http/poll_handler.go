package http

import (
	"net/http"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
	reports ports.ReportService
}

func NewPollHandler(service ports.PollService, reports ports.ReportService) *PollHandler {
	return &PollHandler{
		service: service,
		reports: reports,
	}
}

type createPollRequest struct {
	ID          *domain.PollID `json:"id"`
	Description string         `json:"description"`
}

type createPollResponse struct {
	ID domain.PollID `json:"id"`
}

func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	inv, ok := invocation(w, r)
	if !ok {
		return
	}

	var req createPollRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ID == nil {
		badRequest(w, "missing poll id")
		return
	}

	if err := h.service.CreatePoll(r.Context(), inv, *req.ID, req.Description); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createPollResponse{ID: *req.ID})
}

type addChoiceRequest struct {
	ChoiceID    *domain.ChoiceID `json:"choice_id"`
	Description string           `json:"description"`
}

func (h *PollHandler) AddChoice(w http.ResponseWriter, r *http.Request) {
	inv, ok := invocation(w, r)
	if !ok {
		return
	}
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	var req addChoiceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ChoiceID == nil {
		badRequest(w, "missing choice id")
		return
	}

	if err := h.service.AddChoice(r.Context(), inv, pollID, *req.ChoiceID, req.Description); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, domain.ChoiceEntry{ID: *req.ChoiceID, Choice: domain.Choice{Description: req.Description}})
}

func (h *PollHandler) GetChoices(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	choices, err := h.service.GetChoices(r.Context(), pollID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, choices)
}

func (h *PollHandler) StartPoll(w http.ResponseWriter, r *http.Request) {
	inv, ok := invocation(w, r)
	if !ok {
		return
	}
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.StartPoll(r.Context(), inv, pollID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PollHandler) EndPoll(w http.ResponseWriter, r *http.Request) {
	inv, ok := invocation(w, r)
	if !ok {
		return
	}
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.EndPoll(r.Context(), inv, pollID); err != nil {
		writeError(w, err)
		return
	}
	h.writeReport(w, r, pollID)
}

func (h *PollHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}
	h.writeReport(w, r, pollID)
}

func (h *PollHandler) writeReport(w http.ResponseWriter, r *http.Request, pollID domain.PollID) {
	report, err := h.reports.GetReport(r.Context(), pollID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

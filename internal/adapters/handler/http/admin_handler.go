package http

import (
	"context"
	"net/http"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
)

type AdminHandler struct {
	service   ports.AdminService
	installer ports.CodeInstaller
}

func NewAdminHandler(service ports.AdminService, installer ports.CodeInstaller) *AdminHandler {
	return &AdminHandler{
		service:   service,
		installer: installer,
	}
}

func (h *AdminHandler) Instantiate(w http.ResponseWriter, r *http.Request) {
	inv, ok := invocation(w, r)
	if !ok {
		return
	}
	if err := h.service.Instantiate(r.Context(), inv); err != nil {
		writeError(w, err)
		return
	}
	h.GetConfig(w, r)
}

func (h *AdminHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.GetConfig(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *AdminHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.Pause)
}

func (h *AdminHandler) Unpause(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.Unpause)
}

func (h *AdminHandler) run(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, inv domain.Invocation) error) {
	inv, ok := invocation(w, r)
	if !ok {
		return
	}
	if err := op(r.Context(), inv); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changeAdminRequest struct {
	Admin *domain.AccountID `json:"admin"`
}

func (h *AdminHandler) ChangeAdmin(w http.ResponseWriter, r *http.Request) {
	inv, ok := invocation(w, r)
	if !ok {
		return
	}

	var req changeAdminRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Admin == nil {
		badRequest(w, "missing admin")
		return
	}

	if err := h.service.ChangeAdmin(r.Context(), inv, *req.Admin); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type codeHashBody struct {
	CodeHash domain.CodeHash `json:"code_hash"`
}

func (h *AdminHandler) SetCode(w http.ResponseWriter, r *http.Request) {
	inv, ok := invocation(w, r)
	if !ok {
		return
	}

	var req codeHashBody
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.service.SetCode(r.Context(), inv, req.CodeHash); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type uploadCodeRequest struct {
	CodeHash *domain.CodeHash `json:"code_hash"`
}

func (h *AdminHandler) UploadCode(w http.ResponseWriter, r *http.Request) {
	inv, ok := invocation(w, r)
	if !ok {
		return
	}

	var req uploadCodeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CodeHash == nil {
		badRequest(w, "missing code hash")
		return
	}

	if err := h.service.UploadCode(r.Context(), inv, *req.CodeHash); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, codeHashBody{CodeHash: *req.CodeHash})
}

func (h *AdminHandler) GetCode(w http.ResponseWriter, r *http.Request) {
	hash, ok := h.installer.Active()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "NoActiveCode", Message: "no code hash has been set"})
		return
	}
	writeJSON(w, http.StatusOK, codeHashBody{CodeHash: hash})
}

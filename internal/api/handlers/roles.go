package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hugh/go-roster/internal/accounts"
	"github.com/hugh/go-roster/internal/api/dto"
)

type RoleHandler struct {
	accounts *accounts.Service
	logger   *slog.Logger
}

func NewRoleHandler(svc *accounts.Service, logger *slog.Logger) *RoleHandler {
	return &RoleHandler{accounts: svc, logger: logger}
}

func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	active, err := boolQuery(r, "active")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("active must be true or false", "INVALID_QUERY"))
		return
	}

	roles, err := h.accounts.ListRoles(r.Context(), accounts.RoleFilter{Active: active})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.List(roles, len(roles)))
}

func (h *RoleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	role, err := h.accounts.GetRole(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK("", role))
}

func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRoleRequest
	if !decodeJSON(w, r, &req, false) || !validate(w, req.Validate()) {
		return
	}

	res, err := h.accounts.CreateRole(r.Context(), req.ToInput())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.OK(res.Message, res.Role))
}

func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req dto.UpdateRoleRequest
	if !decodeJSON(w, r, &req, false) || !validate(w, req.Validate()) {
		return
	}

	res, err := h.accounts.UpdateRole(r.Context(), id, req.ToInput())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK(res.Message, res.Role))
}

func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	res, err := h.accounts.DeleteRole(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK(res.Message, nil))
}

func (h *RoleHandler) Users(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	view, err := h.accounts.RoleUsers(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK("", view))
}

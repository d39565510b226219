package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/hugh/go-roster/internal/accounts"
	"github.com/hugh/go-roster/internal/api/dto"
)

type UserHandler struct {
	accounts *accounts.Service
	logger   *slog.Logger
}

func NewUserHandler(svc *accounts.Service, logger *slog.Logger) *UserHandler {
	return &UserHandler{accounts: svc, logger: logger}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter accounts.UserFilter

	active, err := boolQuery(r, "active")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("active must be true or false", "INVALID_QUERY"))
		return
	}
	filter.Active = active

	if raw := r.URL.Query().Get("roleId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.Error("roleId must be a valid UUID", "INVALID_QUERY"))
			return
		}
		filter.RoleID = &id
	}

	users, err := h.accounts.ListUsers(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.List(users, len(users)))
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	user, err := h.accounts.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK("", user))
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !decodeJSON(w, r, &req, false) || !validate(w, req.Validate()) {
		return
	}

	res, err := h.accounts.CreateUser(r.Context(), req.ToInput())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.OK(res.Message, res.User))
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !decodeJSON(w, r, &req, false) || !validate(w, req.Validate()) {
		return
	}

	res, err := h.accounts.UpdateUser(r.Context(), id, req.ToInput())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK(res.Message, res.User))
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	res, err := h.accounts.DeleteUser(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK(res.Message, nil))
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hugh/go-roster/internal/accounts"
	"github.com/hugh/go-roster/internal/api/dto"
)

// TransactionHandler exposes the compound, multi-table operations.
type TransactionHandler struct {
	accounts *accounts.Service
	logger   *slog.Logger
}

func NewTransactionHandler(svc *accounts.Service, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{accounts: svc, logger: logger}
}

func (h *TransactionHandler) AssignUsersToRole(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignUsersRequest
	if !decodeJSON(w, r, &req, false) || !validate(w, req.Validate()) {
		return
	}

	roleID, userIDs := req.IDs()
	res, err := h.accounts.AssignUsersToRole(r.Context(), roleID, userIDs)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK(res.Message, dto.AssignResponse{
		Role:     res.Role,
		Assigned: res.Assigned,
		Added:    res.Added,
	}))
}

func (h *TransactionHandler) TransferUsersBetweenRoles(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferUsersRequest
	if !decodeJSON(w, r, &req, false) || !validate(w, req.Validate()) {
		return
	}

	sourceID, targetID := req.IDs()
	res, err := h.accounts.TransferUsersBetweenRoles(r.Context(), sourceID, targetID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK(res.Message, dto.TransferResponse{
		Source:      res.Source,
		Target:      res.Target,
		Transferred: res.Transferred,
	}))
}

func (h *TransactionHandler) DeleteRoleWithReassignment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req dto.DeleteRoleRequest
	if !decodeJSON(w, r, &req, true) || !validate(w, req.Validate()) {
		return
	}

	res, err := h.accounts.DeleteRoleWithReassignment(r.Context(), id, req.Replacement())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK(res.Message, dto.RoleDeletionResponse{
		Affected:          res.Affected,
		ReplacementRoleID: res.ReplacementID,
		PrimaryCleared:    res.PrimaryCleared,
	}))
}

func (h *TransactionHandler) CreateUserWithRole(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserWithRoleRequest
	if !decodeJSON(w, r, &req, false) || !validate(w, req.Validate()) {
		return
	}

	res, err := h.accounts.CreateUserWithRole(r.Context(), req.ToInput())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.OK(res.Message, dto.UserWithRoleResponse{
		User:        res.User,
		RoleCreated: res.RoleCreated,
	}))
}

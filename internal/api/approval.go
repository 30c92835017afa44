package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/hamzakamil/personelplus/internal/entity"
)

// CreateAdvance create new advance request with a chain snapshot.
func (s *Server) CreateAdvance(w http.ResponseWriter, r *http.Request) {
	user, err := s.checkAuthUser(r)
	if err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	var req entity.CreateAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	advance, err := s.Controllers.AdvanceController.CreateAdvance(r.Context(), user.ID, &req)
	if err != nil {
		s.deps.Logger.Error("Error creating advance", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to create advance")
		return
	}

	s.httpResponse(w, http.StatusCreated, advance, "success")
}

// GetAdvances get advance requests with optional filters.
func (s *Server) GetAdvances(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	params := entity.GetAdvancesParams{
		CompanyID:  queryUint64(r, "company_id"),
		EmployeeID: queryUint64(r, "employee_id"),
		Status:     queryString(r, "status"),
	}

	advances, err := s.Controllers.AdvanceController.GetAdvances(r.Context(), &params)
	if err != nil {
		s.deps.Logger.Error("Error getting advances", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to get advances")
		return
	}

	s.httpResponse(w, http.StatusOK, advances, "success")
}

// GetAdvanceByID get advance request by id.
func (s *Server) GetAdvanceByID(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	advance, err := s.Controllers.AdvanceController.GetAdvanceByID(r.Context(), id)
	if err != nil {
		s.deps.Logger.Error("Error getting advance", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to get advance")
		return
	}

	s.httpResponse(w, http.StatusOK, advance, "success")
}

// ApproveAdvance records the caller's approval, or an admin override.
func (s *Server) ApproveAdvance(w http.ResponseWriter, r *http.Request) {
	user, err := s.checkAuthUser(r)
	if err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	var req entity.ApprovalActionRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", decodeErr.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	advance, err := s.Controllers.AdvanceController.ApproveAdvance(r.Context(), id, user.ID, req.Comment)
	if err != nil {
		s.deps.Logger.Error("Error approving advance", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to approve advance")
		return
	}

	s.httpResponse(w, http.StatusOK, advance, "success")
}

// RejectAdvance rejects the request on behalf of a chain member or admin.
func (s *Server) RejectAdvance(w http.ResponseWriter, r *http.Request) {
	user, err := s.checkAuthUser(r)
	if err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	var req entity.ApprovalActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	if req.Reason == "" {
		s.httpResponse(w, http.StatusBadRequest, "Reason is required", "error")
		return
	}

	advance, err := s.Controllers.AdvanceController.RejectAdvance(r.Context(), id, user.ID, req.Reason)
	if err != nil {
		s.deps.Logger.Error("Error rejecting advance", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to reject advance")
		return
	}

	s.httpResponse(w, http.StatusOK, advance, "success")
}

// CancelAdvance cancels a pending request, requester only.
func (s *Server) CancelAdvance(w http.ResponseWriter, r *http.Request) {
	user, err := s.checkAuthUser(r)
	if err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	var req entity.ApprovalActionRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", decodeErr.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	advance, err := s.Controllers.AdvanceController.CancelAdvance(r.Context(), id, user.ID, req.Reason)
	if err != nil {
		s.deps.Logger.Error("Error cancelling advance", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to cancel advance")
		return
	}

	s.httpResponse(w, http.StatusOK, advance, "success")
}

// GetInstallments get the payment plan of a finalized advance.
func (s *Server) GetInstallments(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	installments, err := s.Controllers.AdvanceController.GetInstallments(r.Context(), id)
	if err != nil {
		s.deps.Logger.Error("Error getting installments", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to get installments")
		return
	}

	s.httpResponse(w, http.StatusOK, installments, "success")
}

// CreatePrerecord create new hire or termination prerecord.
func (s *Server) CreatePrerecord(w http.ResponseWriter, r *http.Request) {
	user, err := s.checkAuthUser(r)
	if err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	var req entity.CreatePrerecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	prerecord, err := s.Controllers.PrerecordController.CreatePrerecord(r.Context(), user.CompanyID, user.ID, &req)
	if err != nil {
		s.deps.Logger.Error("Error creating prerecord", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to create prerecord")
		return
	}

	s.httpResponse(w, http.StatusCreated, prerecord, "success")
}

// GetPrerecords get prerecords with optional filters.
func (s *Server) GetPrerecords(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	params := entity.GetPrerecordsParams{
		CompanyID: queryUint64(r, "company_id"),
		Kind:      queryString(r, "kind"),
		Status:    queryString(r, "status"),
	}

	prerecords, err := s.Controllers.PrerecordController.GetPrerecords(r.Context(), &params)
	if err != nil {
		s.deps.Logger.Error("Error getting prerecords", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to get prerecords")
		return
	}

	s.httpResponse(w, http.StatusOK, prerecords, "success")
}

// GetPrerecordByID get prerecord by id.
func (s *Server) GetPrerecordByID(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	prerecord, err := s.Controllers.PrerecordController.GetPrerecordByID(r.Context(), id)
	if err != nil {
		s.deps.Logger.Error("Error getting prerecord", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to get prerecord")
		return
	}

	s.httpResponse(w, http.StatusOK, prerecord, "success")
}

// ApprovePrerecord approves a pending prerecord and materializes its payload.
func (s *Server) ApprovePrerecord(w http.ResponseWriter, r *http.Request) {
	user, err := s.checkAuthUser(r)
	if err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	var req entity.ApprovalActionRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", decodeErr.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	prerecord, err := s.Controllers.PrerecordController.ApprovePrerecord(r.Context(), id, user.ID, req.Comment)
	if err != nil {
		s.deps.Logger.Error("Error approving prerecord", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to approve prerecord")
		return
	}

	s.httpResponse(w, http.StatusOK, prerecord, "success")
}

// RejectPrerecord rejects a pending prerecord, admins only.
func (s *Server) RejectPrerecord(w http.ResponseWriter, r *http.Request) {
	user, err := s.checkAuthUser(r)
	if err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	var req entity.ApprovalActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	if req.Reason == "" {
		s.httpResponse(w, http.StatusBadRequest, "Reason is required", "error")
		return
	}

	prerecord, err := s.Controllers.PrerecordController.RejectPrerecord(r.Context(), id, user.ID, req.Reason)
	if err != nil {
		s.deps.Logger.Error("Error rejecting prerecord", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to reject prerecord")
		return
	}

	s.httpResponse(w, http.StatusOK, prerecord, "success")
}

// RequestRevision sends a pending prerecord back to the submitter for edits.
func (s *Server) RequestRevision(w http.ResponseWriter, r *http.Request) {
	user, err := s.checkAuthUser(r)
	if err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	var req entity.ApprovalActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	if req.Reason == "" {
		s.httpResponse(w, http.StatusBadRequest, "Reason is required", "error")
		return
	}

	prerecord, err := s.Controllers.PrerecordController.RequestRevision(r.Context(), id, user.ID, req.Reason)
	if err != nil {
		s.deps.Logger.Error("Error requesting revision", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to request revision")
		return
	}

	s.httpResponse(w, http.StatusOK, prerecord, "success")
}

// ResubmitPrerecord resubmits a revision-requested prerecord with edits.
func (s *Server) ResubmitPrerecord(w http.ResponseWriter, r *http.Request) {
	user, err := s.checkAuthUser(r)
	if err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	var req entity.ResubmitPrerecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	prerecord, err := s.Controllers.PrerecordController.ResubmitPrerecord(r.Context(), id, user.ID, &req)
	if err != nil {
		s.deps.Logger.Error("Error resubmitting prerecord", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to resubmit prerecord")
		return
	}

	s.httpResponse(w, http.StatusOK, prerecord, "success")
}

// RequestCancellation asks the administrators to cancel a pending prerecord.
func (s *Server) RequestCancellation(w http.ResponseWriter, r *http.Request) {
	user, err := s.checkAuthUser(r)
	if err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	var req entity.ApprovalActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	if req.Reason == "" {
		s.httpResponse(w, http.StatusBadRequest, "Reason is required", "error")
		return
	}

	prerecord, err := s.Controllers.PrerecordController.RequestCancellation(r.Context(), id, user.ID, req.Reason)
	if err != nil {
		s.deps.Logger.Error("Error requesting cancellation", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to request cancellation")
		return
	}

	s.httpResponse(w, http.StatusOK, prerecord, "success")
}

// ResolveCancellation approves or denies a cancellation request, admins only.
func (s *Server) ResolveCancellation(w http.ResponseWriter, r *http.Request) {
	user, err := s.checkAuthUser(r)
	if err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	var req entity.ResolveCancellationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	prerecord, err := s.Controllers.PrerecordController.ResolveCancellation(r.Context(), id, user.ID, &req)
	if err != nil {
		s.deps.Logger.Error("Error resolving cancellation", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to resolve cancellation")
		return
	}

	s.httpResponse(w, http.StatusOK, prerecord, "success")
}

// CancelPrerecord cancels the prerecord directly, submitter only.
func (s *Server) CancelPrerecord(w http.ResponseWriter, r *http.Request) {
	user, err := s.checkAuthUser(r)
	if err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	var req entity.ApprovalActionRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", decodeErr.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	prerecord, err := s.Controllers.PrerecordController.CancelPrerecord(r.Context(), id, user.ID, req.Reason)
	if err != nil {
		s.deps.Logger.Error("Error cancelling prerecord", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to cancel prerecord")
		return
	}

	s.httpResponse(w, http.StatusOK, prerecord, "success")
}

// GetPrerecordEvents get the sub-flow history of a prerecord.
func (s *Server) GetPrerecordEvents(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	events, err := s.Controllers.PrerecordController.GetPrerecordEvents(r.Context(), id)
	if err != nil {
		s.deps.Logger.Error("Error getting prerecord events", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to get prerecord events")
		return
	}

	s.httpResponse(w, http.StatusOK, events, "success")
}

package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/billminder/internal/middleware"
	"github.com/mmynk/billminder/internal/service"
	"github.com/mmynk/billminder/internal/storage"
)

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())

	bills, err := s.deps.Bills.ListBills(r.Context(), ownerID)
	if err != nil {
		slog.Error("ListBills failed", "owner_id", ownerID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to load bills"})
		return
	}

	writeJSON(w, http.StatusOK, bills)
}

func (s *Server) handleSaveBill(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())

	var in service.BillInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request", Message: "Request body must be a JSON object."})
		return
	}

	bill, err := s.deps.Bills.SaveBill(r.Context(), ownerID, in)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, bill)
	case service.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request", Message: err.Error()})
	case errors.Is(err, storage.ErrBillOwnedByAnother):
		slog.Warn("SaveBill refused", "owner_id", ownerID, "bill_id", in.ID)
		writeJSON(w, http.StatusForbidden, errorBody{Error: "Bill belongs to another user"})
	default:
		slog.Error("SaveBill failed", "owner_id", ownerID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to save bill"})
	}
}

func (s *Server) handleLogPayment(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())

	var in service.PaymentInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Request body must be a JSON object"})
		return
	}

	payment, err := s.deps.Payments.LogPayment(r.Context(), ownerID, in)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, payment)
	case service.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, storage.ErrDuplicatePayment):
		writeJSON(w, http.StatusConflict, errorBody{Error: "Payment already logged"})
	default:
		slog.Error("LogPayment failed", "owner_id", ownerID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to log payment"})
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())

	history, err := s.deps.Payments.History(r.Context(), ownerID)
	if err != nil {
		slog.Error("PaymentHistory failed", "owner_id", ownerID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to load payment history"})
		return
	}

	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())

	report, err := s.deps.Bills.Status(r.Context(), ownerID)
	if err != nil {
		slog.Error("GetStatus failed", "owner_id", ownerID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to compute status"})
		return
	}

	writeJSON(w, http.StatusOK, report)
}

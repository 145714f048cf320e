package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleanfresh/laundry-backend/api/middleware"
	"github.com/cleanfresh/laundry-backend/api/responses"
	"github.com/cleanfresh/laundry-backend/api/validators"
	"github.com/cleanfresh/laundry-backend/internal/payments"
	"github.com/cleanfresh/laundry-backend/pkg/enums"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
)

type recordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Method string          `json:"method" validate:"required,oneof=cash card mobile transfer"`
	Notes  string          `json:"notes" validate:"omitempty,max=500"`
}

func PaymentRecord(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req recordPaymentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := payments.RecordPaymentInput{
			OrderID: orderID,
			Amount:  req.Amount,
			Method:  enums.PaymentMethod(req.Method),
			Notes:   req.Notes,
		}
		if rawStaff := middleware.StaffIDFromContext(r.Context()); rawStaff != "" {
			if staffID, parseErr := uuid.Parse(rawStaff); parseErr == nil {
				input.ReceivedBy = &staffID
			}
		}

		payment, err := svc.RecordPayment(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, payment)
	}
}

func PaymentList(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListForOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		total, err := svc.SumForOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"payments":       rows,
			"total_received": total,
		})
	}
}

package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/cleanfresh/laundry-backend/api/middleware"
	"github.com/cleanfresh/laundry-backend/api/responses"
	"github.com/cleanfresh/laundry-backend/internal/dashboard"
	pkgerrors "github.com/cleanfresh/laundry-backend/pkg/errors"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
)

func DashboardAdmin(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Admin(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func DashboardStaff(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := uuid.Parse(middleware.StaffIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "staff identity required"))
			return
		}

		stats, err := svc.Staff(r.Context(), staffID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

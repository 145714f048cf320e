package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleanfresh/laundry-backend/api/middleware"
	"github.com/cleanfresh/laundry-backend/api/responses"
	"github.com/cleanfresh/laundry-backend/api/validators"
	"github.com/cleanfresh/laundry-backend/internal/catalog"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
)

type createTypeRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=120"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	UrgentPrice decimal.Decimal `json:"urgent_price" validate:"required"`
	Description string          `json:"description" validate:"omitempty,max=500"`
}

type updateTypeRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=120"`
	Price       *decimal.Decimal `json:"price"`
	UrgentPrice *decimal.Decimal `json:"urgent_price"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	IsActive    *bool            `json:"is_active"`
}

func CatalogCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTypeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.CreateTypeInput{
			Name:        req.Name,
			Price:       req.Price,
			UrgentPrice: req.UrgentPrice,
			Description: req.Description,
		}
		if rawStaff := middleware.StaffIDFromContext(r.Context()); rawStaff != "" {
			if staffID, err := uuid.Parse(rawStaff); err == nil {
				input.CreatedBy = &staffID
			}
		}

		clothingType, err := svc.CreateType(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, clothingType)
	}
}

func CatalogDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "typeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clothingType, err := svc.GetType(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, clothingType)
	}
}

func CatalogList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeOnly := strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("active")), "true")

		types, err := svc.ListTypes(r.Context(), activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types)
	}
}

func CatalogUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "typeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateTypeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clothingType, err := svc.UpdateType(r.Context(), catalog.UpdateTypeInput{
			ID:          id,
			Name:        req.Name,
			Price:       req.Price,
			UrgentPrice: req.UrgentPrice,
			Description: req.Description,
			IsActive:    req.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, clothingType)
	}
}

func CatalogDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "typeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteType(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

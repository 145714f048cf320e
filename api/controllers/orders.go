package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleanfresh/laundry-backend/api/responses"
	"github.com/cleanfresh/laundry-backend/api/validators"
	"github.com/cleanfresh/laundry-backend/internal/orders"
	"github.com/cleanfresh/laundry-backend/pkg/enums"
	pkgerrors "github.com/cleanfresh/laundry-backend/pkg/errors"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
)

type orderItemRequest struct {
	ClothingTypeID string `json:"clothing_type_id" validate:"required,uuid"`
	Quantity       int    `json:"quantity" validate:"required,min=1"`
	Description    string `json:"description" validate:"omitempty,max=255"`
	Washing        *bool  `json:"washing"`
	Ironing        bool   `json:"ironing"`
	DryClean       bool   `json:"dry_clean"`
	StainRemoval   bool   `json:"stain_removal"`
	Rewashing      bool   `json:"rewashing"`
}

type createOrderRequest struct {
	CustomerID           string             `json:"customer_id" validate:"required,uuid"`
	StaffID              *string            `json:"staff_id" validate:"omitempty,uuid"`
	IsUrgent             bool               `json:"is_urgent"`
	Discount             *decimal.Decimal   `json:"discount"`
	PaymentStatus        string             `json:"payment_status" validate:"omitempty,oneof=pending partial paid overdue"`
	ExpectedDeliveryDate time.Time          `json:"expected_delivery_date" validate:"required"`
	SpecialInstructions  string             `json:"special_instructions" validate:"omitempty,max=1000"`
	Items                []orderItemRequest `json:"items" validate:"omitempty,dive"`
}

type updateOrderRequest struct {
	IsUrgent             *bool            `json:"is_urgent"`
	Discount             *decimal.Decimal `json:"discount"`
	Status               *string          `json:"status" validate:"omitempty,oneof=pending received washing ironing ready delivered cancelled"`
	PaymentStatus        *string          `json:"payment_status" validate:"omitempty,oneof=pending partial paid overdue"`
	AmountPaid           *decimal.Decimal `json:"amount_paid"`
	SpecialInstructions  *string          `json:"special_instructions" validate:"omitempty,max=1000"`
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date"`
}

type updateItemRequest struct {
	ClothingTypeID *string `json:"clothing_type_id" validate:"omitempty,uuid"`
	Quantity       *int    `json:"quantity" validate:"omitempty,min=1"`
	Description    *string `json:"description" validate:"omitempty,max=255"`
	Washing        *bool   `json:"washing"`
	Ironing        *bool   `json:"ironing"`
	DryClean       *bool   `json:"dry_clean"`
	StainRemoval   *bool   `json:"stain_removal"`
	Rewashing      *bool   `json:"rewashing"`
}

func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := buildCreateOrderInput(req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := buildOrderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListOrders(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func OrderUpdate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.UpdateOrderInput{
			OrderID:              id,
			IsUrgent:             req.IsUrgent,
			Discount:             req.Discount,
			AmountPaid:           req.AmountPaid,
			SpecialInstructions:  req.SpecialInstructions,
			ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		}
		if req.Status != nil {
			status := enums.OrderStatus(*req.Status)
			input.Status = &status
		}
		if req.PaymentStatus != nil {
			paymentStatus := enums.PaymentStatus(*req.PaymentStatus)
			input.PaymentStatus = &paymentStatus
		}

		order, err := svc.UpdateOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrderAddItem(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req orderItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := buildItemInput(req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.AddItem(r.Context(), orders.AddItemInput{OrderID: id, Item: item})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func OrderUpdateItem(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := parseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.UpdateItemInput{
			OrderID:      orderID,
			ItemID:       itemID,
			Quantity:     req.Quantity,
			Description:  req.Description,
			Washing:      req.Washing,
			Ironing:      req.Ironing,
			DryClean:     req.DryClean,
			StainRemoval: req.StainRemoval,
			Rewashing:    req.Rewashing,
		}
		if req.ClothingTypeID != nil {
			typeID, parseErr := uuid.Parse(*req.ClothingTypeID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid clothing type id"))
				return
			}
			input.ClothingTypeID = &typeID
		}

		order, err := svc.UpdateItem(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrderRemoveItem(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := parseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.RemoveItem(r.Context(), orderID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func buildCreateOrderInput(req createOrderRequest) (orders.CreateOrderInput, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return orders.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id")
	}

	input := orders.CreateOrderInput{
		CustomerID:           customerID,
		IsUrgent:             req.IsUrgent,
		PaymentStatus:        enums.PaymentStatus(req.PaymentStatus),
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		SpecialInstructions:  req.SpecialInstructions,
	}
	if req.Discount != nil {
		input.Discount = *req.Discount
	}
	if req.StaffID != nil {
		staffID, parseErr := uuid.Parse(*req.StaffID)
		if parseErr != nil {
			return orders.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid staff id")
		}
		input.StaffID = &staffID
	}
	for _, item := range req.Items {
		built, buildErr := buildItemInput(item)
		if buildErr != nil {
			return orders.CreateOrderInput{}, buildErr
		}
		input.Items = append(input.Items, built)
	}
	return input, nil
}

func buildItemInput(req orderItemRequest) (orders.ItemInput, error) {
	typeID, err := uuid.Parse(req.ClothingTypeID)
	if err != nil {
		return orders.ItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid clothing type id")
	}

	washing := true
	if req.Washing != nil {
		washing = *req.Washing
	}
	return orders.ItemInput{
		ClothingTypeID: typeID,
		Quantity:       req.Quantity,
		Description:    req.Description,
		Washing:        washing,
		Ironing:        req.Ironing,
		DryClean:       req.DryClean,
		StainRemoval:   req.StainRemoval,
		Rewashing:      req.Rewashing,
	}, nil
}

func buildOrderFilters(r *http.Request) (orders.ListFilters, error) {
	filters := orders.ListFilters{}

	if raw := strings.TrimSpace(r.URL.Query().Get("customer_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id filter")
		}
		filters.CustomerID = &id
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("staff_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid staff id filter")
		}
		filters.StaffID = &id
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		value := string(status)
		filters.Status = &value
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("payment_status")); raw != "" {
		status, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status filter")
		}
		value := string(status)
		filters.PaymentStatus = &value
	}
	return filters, nil
}

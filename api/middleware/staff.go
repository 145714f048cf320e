package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/cleanfresh/laundry-backend/api/responses"
	"github.com/cleanfresh/laundry-backend/pkg/enums"
	pkgerrors "github.com/cleanfresh/laundry-backend/pkg/errors"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
)

const (
	staffIDHeader   = "X-Staff-Id"
	staffRoleHeader = "X-Staff-Role"
)

// StaffContext resolves the acting staff member from the gateway-injected
// headers. The upstream reverse proxy authenticates and strips any
// client-supplied copies of these headers before they reach the service.
func StaffContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawID := strings.TrimSpace(r.Header.Get(staffIDHeader))
			if rawID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "staff identity required"))
				return
			}
			if _, err := uuid.Parse(rawID); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid staff identity"))
				return
			}

			role, err := enums.ParseActorRole(strings.TrimSpace(r.Header.Get(staffRoleHeader)))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid actor role"))
				return
			}

			ctx := WithStaffID(r.Context(), rawID)
			ctx = WithRole(ctx, string(role))
			if logg != nil {
				ctx = logg.WithActorRole(ctx, string(role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package middleware

import (
	"net/http"

	"github.com/cleanfresh/laundry-backend/api/responses"
	"github.com/cleanfresh/laundry-backend/pkg/auth"
	"github.com/cleanfresh/laundry-backend/pkg/enums"
	pkgerrors "github.com/cleanfresh/laundry-backend/pkg/errors"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
)

// RequireOrderManagement gates the recompute-triggering write surface.
func RequireOrderManagement(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireCapability(auth.CanManageOrders, "order management role required", logg)
}

// RequireAdmin gates catalog writes and shop-wide views.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireCapability(auth.CanAdminister, "admin role required", logg)
}

func requireCapability(allowed func(enums.ActorRole) bool, message string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := enums.ActorRole(RoleFromContext(r.Context()))
			if !allowed(role) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, message))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

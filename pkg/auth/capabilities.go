package auth

import "github.com/cleanfresh/laundry-backend/pkg/enums"

// CanManageOrders reports whether the role may run recompute-triggering
// operations: order creation, item mutations, payment entry.
func CanManageOrders(role enums.ActorRole) bool {
	return role == enums.ActorRoleStaff || role == enums.ActorRoleAdmin
}

// CanAdminister reports whether the role may manage the catalog and view
// shop-wide dashboards and reports.
func CanAdminister(role enums.ActorRole) bool {
	return role == enums.ActorRoleAdmin
}

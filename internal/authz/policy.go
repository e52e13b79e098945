package authz

// Role tiers. Each tier includes everything the tiers below it may do.
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

// Operation identifies a protected operation of the core.
type Operation string

const (
	OpItemRead    Operation = "item.read"
	OpItemWrite   Operation = "item.write"
	OpItemDelete  Operation = "item.delete"
	OpStockVerify Operation = "item.verify"

	OpCategoryRead   Operation = "category.read"
	OpCategoryWrite  Operation = "category.write"
	OpCategoryDelete Operation = "category.delete"

	OpTransactionCreate   Operation = "transaction.create"
	OpTransactionReadItem Operation = "transaction.read_item"
	OpTransactionReadAll  Operation = "transaction.read_all"

	OpOrderRead  Operation = "order.read"
	OpOrderWrite Operation = "order.write"

	OpAlertRead    Operation = "alert.read"
	OpAlertResolve Operation = "alert.resolve"
	OpAlertSweep   Operation = "alert.sweep"

	OpUserManage Operation = "user.manage"
)

var tierRank = map[string]int{
	RoleEmployee: 1,
	RoleManager:  2,
	RoleAdmin:    3,
}

// requiredTier maps every operation to the minimum role tier that may
// perform it. Unknown operations are denied.
var requiredTier = map[Operation]int{
	OpItemRead:    tierRank[RoleEmployee],
	OpItemWrite:   tierRank[RoleManager],
	OpItemDelete:  tierRank[RoleAdmin],
	OpStockVerify: tierRank[RoleManager],

	OpCategoryRead:   tierRank[RoleEmployee],
	OpCategoryWrite:  tierRank[RoleManager],
	OpCategoryDelete: tierRank[RoleAdmin],

	OpTransactionCreate:   tierRank[RoleEmployee],
	OpTransactionReadItem: tierRank[RoleEmployee],
	OpTransactionReadAll:  tierRank[RoleManager],

	OpOrderRead:  tierRank[RoleManager],
	OpOrderWrite: tierRank[RoleManager],

	OpAlertRead:    tierRank[RoleEmployee],
	OpAlertResolve: tierRank[RoleManager],
	OpAlertSweep:   tierRank[RoleManager],

	OpUserManage: tierRank[RoleAdmin],
}

// Allowed reports whether any of the caller's roles meets the tier
// required for op. It is stateless and side-effect free.
func Allowed(roles []string, op Operation) bool {
	required, ok := requiredTier[op]
	if !ok {
		return false
	}
	for _, role := range roles {
		if tierRank[role] >= required {
			return true
		}
	}
	return false
}

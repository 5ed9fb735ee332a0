package auth

import "iss-backend/internal/models"

type Permission string

const (
	PermWorkersRead  Permission = "workers.read"
	PermWorkersWrite Permission = "workers.write"
	PermClientsRead  Permission = "clients.read"
	PermClientsWrite Permission = "clients.write"
	PermEcoFinRead   Permission = "ecofin.read"
	PermEcoFinWrite  Permission = "ecofin.write"
	PermEcoFinReopen Permission = "ecofin.reopen"
	PermBillingRead  Permission = "billing.read"
	PermBillingWrite Permission = "billing.write"
	PermAuditRead    Permission = "audit.read"
	PermUsersManage  Permission = "users.manage"
)

// rolePermissions - tabelul rol → operații permise, verificat central
// în middleware. Rolurile sunt o enumerare închisă, nu șiruri libere.
var rolePermissions = map[models.UserRole][]Permission{
	models.RoleAgent: {
		PermWorkersRead, PermWorkersWrite,
		PermClientsRead,
	},
	models.RoleExpert: {
		PermWorkersRead, PermWorkersWrite,
		PermClientsRead, PermClientsWrite,
	},
	models.RoleManagement: {
		PermWorkersRead, PermWorkersWrite,
		PermClientsRead, PermClientsWrite,
		PermEcoFinRead, PermEcoFinWrite,
		PermBillingRead, PermBillingWrite,
		PermAuditRead,
	},
	models.RoleAdmin: {
		PermWorkersRead, PermWorkersWrite,
		PermClientsRead, PermClientsWrite,
		PermEcoFinRead, PermEcoFinWrite, PermEcoFinReopen,
		PermBillingRead, PermBillingWrite,
		PermAuditRead, PermUsersManage,
	},
}

func HasPermission(role models.UserRole, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

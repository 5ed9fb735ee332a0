package auth

import (
	"testing"

	"iss-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	// Agent: doar lucrători + citire clienți
	assert.True(t, HasPermission(models.RoleAgent, PermWorkersWrite))
	assert.True(t, HasPermission(models.RoleAgent, PermClientsRead))
	assert.False(t, HasPermission(models.RoleAgent, PermClientsWrite))
	assert.False(t, HasPermission(models.RoleAgent, PermEcoFinRead))
	assert.False(t, HasPermission(models.RoleAgent, PermBillingWrite))

	// Expert: poate modifica clienți, dar nu vede Eco-Fin
	assert.True(t, HasPermission(models.RoleExpert, PermClientsWrite))
	assert.False(t, HasPermission(models.RoleExpert, PermEcoFinWrite))

	// Management: Eco-Fin și facturare, dar nu redeschidere sau conturi
	assert.True(t, HasPermission(models.RoleManagement, PermEcoFinWrite))
	assert.True(t, HasPermission(models.RoleManagement, PermBillingWrite))
	assert.False(t, HasPermission(models.RoleManagement, PermEcoFinReopen))
	assert.False(t, HasPermission(models.RoleManagement, PermUsersManage))

	// Admin: totul
	for _, perm := range []Permission{
		PermWorkersWrite, PermClientsWrite, PermEcoFinWrite,
		PermEcoFinReopen, PermBillingWrite, PermAuditRead, PermUsersManage,
	} {
		assert.True(t, HasPermission(models.RoleAdmin, perm), string(perm))
	}
}

func TestHasPermissionUnknownRole(t *testing.T) {
	assert.False(t, HasPermission(models.UserRole("Contabil"), PermWorkersRead))
}

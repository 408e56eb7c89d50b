package permission

import (
	"strings"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Grupos legacy conocidos.
const (
	GroupAdmin      = "admin"
	GroupCompras    = "compras"
	GroupSupervisor = "supervisor"
)

// RoleAdmin nombre del rol administrador.
const RoleAdmin = "admin"

// AuthContext origen de los permisos de un usuario: LegacyContext o RBACContext.
type AuthContext interface {
	isAuthContext()
}

// LegacyContext usuario aún no migrado; sus permisos salen de su grupo.
type LegacyContext struct {
	Group string
}

// RBACContext usuario con rol asignado; sus permisos salen de la matriz.
type RBACContext struct {
	RoleID   int64
	RoleName string
}

func (LegacyContext) isAuthContext() {}
func (RBACContext) isAuthContext()   {}

// ContextFor elige el origen de permisos del usuario.
func ContextFor(u *entity.User) AuthContext {
	if u.RoleID != nil {
		return RBACContext{RoleID: *u.RoleID, RoleName: u.RoleName}
	}
	return LegacyContext{Group: u.GroupName}
}

// IsAdminContext informa si el contexto es de administrador (rol o grupo admin).
func IsAdminContext(ac AuthContext) bool {
	switch c := ac.(type) {
	case RBACContext:
		return normalize(c.RoleName) == RoleAdmin
	case LegacyContext:
		return normalize(c.Group) == GroupAdmin
	}
	return false
}

// LegacyCapabilities tabla fija de compatibilidad para usuarios sin rol.
//
//	admin       todo
//	compras     ver todo; crear/editar entradas y salidas
//	supervisor  solo ver
//	(otro)      solo ver
func LegacyCapabilities(group string) CapabilitySet {
	g := normalize(group)
	if g == GroupAdmin {
		return NewCapabilitySet(true)
	}
	set := NewCapabilitySet(false)
	for _, m := range AllModules {
		set.Grant(m, ActionView)
	}
	if g == GroupCompras {
		set.Grant(ModuleEntradas, ActionCreate, ActionEdit)
		set.Grant(ModuleSalidas, ActionCreate, ActionEdit)
	}
	return set
}

// groupToRole mapeo fijo grupo legacy → nombre de rol para la migración a RBAC.
var groupToRole = map[string]string{
	"admin":      "admin",
	"compras":    "compras",
	"supervisor": "direccion",
	"almacen":    "almacenista",
	"usuario":    "solicitante",
}

// RoleForGroup devuelve el rol destino de un grupo. Grupos sin mapeo
// conservan su propio nombre como nombre de rol.
func RoleForGroup(group string) string {
	g := normalize(group)
	if r, ok := groupToRole[g]; ok {
		return r
	}
	return g
}

// AllowList roles y grupos habilitados para decidir solicitudes.
type AllowList struct {
	Roles  []string
	Groups []string
}

// Allows informa si el contexto pertenece a la lista.
func (l AllowList) Allows(ac AuthContext) bool {
	switch c := ac.(type) {
	case RBACContext:
		return contains(l.Roles, c.RoleName)
	case LegacyContext:
		return contains(l.Groups, c.Group)
	}
	return false
}

func contains(list []string, v string) bool {
	v = normalize(v)
	if v == "" {
		return false
	}
	for _, s := range list {
		if normalize(s) == v {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

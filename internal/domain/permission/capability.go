// Package permission modela las capacidades (módulo, acción) de un usuario y
// los dos orígenes que conviven: grupos legacy y roles RBAC.
package permission

import (
	"sort"
	"strings"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Module nombre de permiso sobre el que se evalúan acciones.
type Module string

// Módulos del almacén.
const (
	ModuleArticulos   Module = "articulos"
	ModuleEntradas    Module = "entradas"
	ModuleSalidas     Module = "salidas"
	ModuleAjustes     Module = "ajustes"
	ModuleStock       Module = "stock"
	ModuleSolicitudes Module = "solicitudes"
	ModuleReportes    Module = "reportes"
	ModuleUsuarios    Module = "usuarios"
	ModuleRoles       Module = "roles"
)

// AllModules módulos conocidos, en orden estable.
var AllModules = []Module{
	ModuleArticulos, ModuleEntradas, ModuleSalidas, ModuleAjustes, ModuleStock,
	ModuleSolicitudes, ModuleReportes, ModuleUsuarios, ModuleRoles,
}

// Action acción sobre un módulo.
type Action string

// Acciones.
const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// ParseAction valida una acción.
func ParseAction(s string) (Action, bool) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case ActionView, ActionCreate, ActionEdit, ActionDelete:
		return a, true
	}
	return "", false
}

// Capability par (módulo, acción).
type Capability struct {
	Module Module
	Action Action
}

// CapabilitySet conjunto de capacidades resuelto para un usuario.
// Un conjunto admin autoriza cualquier capacidad.
type CapabilitySet struct {
	admin bool
	caps  map[Capability]bool
}

// NewCapabilitySet crea un conjunto vacío (o admin).
func NewCapabilitySet(admin bool) CapabilitySet {
	return CapabilitySet{admin: admin, caps: make(map[Capability]bool)}
}

// Grant concede acciones sobre un módulo.
func (s CapabilitySet) Grant(m Module, actions ...Action) {
	for _, a := range actions {
		s.caps[Capability{Module: m, Action: a}] = true
	}
}

// Can informa si el conjunto permite la acción sobre el módulo.
func (s CapabilitySet) Can(m Module, a Action) bool {
	return s.admin || s.caps[Capability{Module: m, Action: a}]
}

// IsAdmin informa si el conjunto es de administrador.
func (s CapabilitySet) IsAdmin() bool { return s.admin }

// List capacidades explícitas ordenadas por módulo y acción.
func (s CapabilitySet) List() []Capability {
	out := make([]Capability, 0, len(s.caps))
	for c, ok := range s.caps {
		if ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Module != out[j].Module {
			return out[i].Module < out[j].Module
		}
		return out[i].Action < out[j].Action
	})
	return out
}

// FromRolePermissions construye el conjunto a partir de la matriz rol × permiso.
func FromRolePermissions(admin bool, rows []entity.RolePermission) CapabilitySet {
	set := NewCapabilitySet(admin)
	for _, r := range rows {
		m := Module(r.Name)
		if r.CanView {
			set.Grant(m, ActionView)
		}
		if r.CanCreate {
			set.Grant(m, ActionCreate)
		}
		if r.CanEdit {
			set.Grant(m, ActionEdit)
		}
		if r.CanDelete {
			set.Grant(m, ActionDelete)
		}
	}
	return set
}

package identity

import "fmt"

// Role is one entry of HandicApp's closed role set.
//
// ID and Key are part of the backend contract; RoutePrefix is the dashboard
// area a user of this role lands on. The mapping is bidirectional and defined
// at build time.
type Role struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Key         string `json:"key"`
	RoutePrefix string `json:"-"`
}

// The closed role enumeration. Ids mirror the backend's role table and the
// numeric `role` cookie; do not renumber.
var (
	RoleAdmin         = Role{ID: 1, Name: "Administrador", Key: "admin", RoutePrefix: "/admin"}
	RoleEstablishment = Role{ID: 2, Name: "Establecimiento", Key: "establecimiento", RoutePrefix: "/establecimiento"}
	RoleForeman       = Role{ID: 3, Name: "Capataz", Key: "capataz", RoutePrefix: "/capataz"}
	RoleVeterinarian  = Role{ID: 4, Name: "Veterinario", Key: "veterinario", RoutePrefix: "/veterinario"}
	RoleEmployee      = Role{ID: 5, Name: "Empleado", Key: "empleado", RoutePrefix: "/empleado"}
	RoleOwner         = Role{ID: 6, Name: "Propietario", Key: "propietario", RoutePrefix: "/propietario"}
)

var roles = []Role{
	RoleAdmin,
	RoleEstablishment,
	RoleForeman,
	RoleVeterinarian,
	RoleEmployee,
	RoleOwner,
}

// Roles returns the full role set in id order.
func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// RoleByID resolves a role from its numeric id.
func RoleByID(id int) (Role, error) {
	for _, r := range roles {
		if r.ID == id {
			return r, nil
		}
	}
	return Role{}, fmt.Errorf("%w: id=%d", ErrUnknownRole, id)
}

// RoleByKey resolves a role from its key string ("admin", "veterinario", ...).
func RoleByKey(key string) (Role, error) {
	for _, r := range roles {
		if r.Key == key {
			return r, nil
		}
	}
	return Role{}, fmt.Errorf("%w: key=%q", ErrUnknownRole, key)
}

// Canonical resolves the build-time entry matching r, preferring the key.
// Roles decoded from backend responses carry only id/name/key; this restores
// the route prefix.
func (r Role) Canonical() (Role, error) {
	if r.Key != "" {
		return RoleByKey(r.Key)
	}
	return RoleByID(r.ID)
}

// IsKnown reports whether the role matches one of the build-time entries.
func (r Role) IsKnown() bool {
	known, err := RoleByID(r.ID)
	return err == nil && known.Key == r.Key
}

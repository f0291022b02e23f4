package identity

// User is the canonical HandicApp principal as returned by the backend.
//
// Field names follow the backend's JSON contract (Spanish for the person
// fields, camelCase elsewhere). The record is replaced wholesale on
// login/refresh and cleared on logout; it is never mutated field by field.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Role      Role   `json:"role"`

	Verified      bool   `json:"verified"`
	AccountStatus string `json:"accountStatus"`

	// EstablishmentID is set for roles attached to a single establishment
	// (establecimiento, capataz, empleado); nil otherwise.
	EstablishmentID *string `json:"establecimientoId,omitempty"`
}

// Clone returns a deep copy. Session state hands out copies only, so callers
// can never mutate shared state through a snapshot.
func (u User) Clone() User {
	out := u
	if u.EstablishmentID != nil {
		id := *u.EstablishmentID
		out.EstablishmentID = &id
	}
	return out
}

// FullName is the display string for UI surfaces that have no richer profile.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

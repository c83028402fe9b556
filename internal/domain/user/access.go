package user

// Principal is the already-authenticated requestor of an operation. It is
// passed explicitly into every command and query.
type Principal struct {
	ID   ID
	Role Role
}

func (p Principal) Anonymous() bool { return p.ID == "" }

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// CanManage is the single ownership rule for listing and booking mutation:
// the requestor owns the resource or is an admin.
func CanManage(ownerID ID, p Principal) bool {
	if p.Anonymous() {
		return false
	}
	return p.IsAdmin() || (ownerID != "" && ownerID == p.ID)
}

// CanHost reports whether the requestor may create listings.
func CanHost(p Principal) bool {
	return !p.Anonymous() && (p.Role == RoleHost || p.Role == RoleAdmin)
}

package bill

// Role represents an actor kind in the legislative process.
type Role string

// Canonical actor roles.
const (
	RoleMinistry        Role = "MINISTRY"
	RoleMP              Role = "MP"
	RoleCommitteeMember Role = "COMMITTEE_MEMBER"
	RoleSecretariat     Role = "SECRETARIAT"
	RoleSpeaker         Role = "SPEAKER"
	RolePresident       Role = "PRESIDENT"
	RoleAdmin           Role = "ADMIN"
	RolePublic          Role = "PUBLIC"
)

var roleLabels = map[Role]string{
	RoleMinistry:        "Ministry",
	RoleMP:              "Member of Parliament",
	RoleCommitteeMember: "Committee Member",
	RoleSecretariat:     "Secretariat",
	RoleSpeaker:         "Speaker",
	RolePresident:       "President",
	RoleAdmin:           "System Admin",
	RolePublic:          "Public User",
}

// Label returns the display label for the role.
func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return string(r)
}

// IsValid returns true if the role is a recognized canonical role.
func (r Role) IsValid() bool {
	_, ok := roleLabels[r]
	return ok
}

// CanMutate returns true if the role may ever execute a state transition.
// Public users are read-only by definition.
func (r Role) CanMutate() bool {
	return r.IsValid() && r != RolePublic
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// AllRoles returns every canonical role.
func AllRoles() []Role {
	return []Role{
		RoleMinistry,
		RoleMP,
		RoleCommitteeMember,
		RoleSecretariat,
		RoleSpeaker,
		RolePresident,
		RoleAdmin,
		RolePublic,
	}
}

package chat

// Role is a member's privilege level, scoped to one server.
type Role string

const (
	RoleGuest     Role = "GUEST"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleModerator
}

func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// CanDelete reports whether actor may soft-delete msg. The author can always
// delete their own message, moderators and admins can delete anyone's.
func CanDelete(actor Member, msg *Message) bool {
	return msg.MemberID == actor.ID || actor.Role.Elevated()
}

// CanEdit reports whether actor may rewrite msg's content. Only the author
// can, no matter the role: moderation removes, it does not impersonate.
func CanEdit(actor Member, msg *Message) bool {
	return msg.MemberID == actor.ID
}

package user

type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleOrganizer   Role = "ORGANIZER"
	RoleParticipant Role = "PARTICIPANT"
)

var AllRoles = []Role{
	RoleAdmin,
	RoleOrganizer,
	RoleParticipant,
}

func (r Role) IsValid() bool {
	for _, v := range AllRoles {
		if r == v {
			return true
		}
	}
	return false
}

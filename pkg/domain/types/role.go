package types

// Role is the speaker of a history entry
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

func (r Role) String() string {
	return string(r)
}

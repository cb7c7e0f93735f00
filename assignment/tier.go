package assignment

// Tier is the recipient precedence level of an assignment
type Tier int

const (
	TierNone Tier = iota
	TierUser
	TierGroup
	TierDepartment
)

// String returns the string representation of the tier
func (t Tier) String() string {
	switch t {
	case TierUser:
		return "user"
	case TierGroup:
		return "group"
	case TierDepartment:
		return "department"
	default:
		return "none"
	}
}

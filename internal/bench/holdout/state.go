package holdout

type State int

const (
	Idle State = iota
	BackedUp
	Mutated
	Invoked
	Restored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case BackedUp:
		return "backed_up"
	case Mutated:
		return "mutated"
	case Invoked:
		return "invoked"
	case Restored:
		return "restored"
	default:
		return "unknown"
	}
}

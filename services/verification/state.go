package verification

import "github.com/tech-arch1tect/accounts/services/account"

// State is the registration state of a normalized email address.
type State string

const (
	StateAbsent     State = "absent"
	StateUnverified State = "unverified"
	StateVerified   State = "verified"
)

func StateOf(email *account.Email) State {
	switch {
	case email == nil:
		return StateAbsent
	case email.IsVerified:
		return StateVerified
	default:
		return StateUnverified
	}
}

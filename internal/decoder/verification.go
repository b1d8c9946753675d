package decoder

// Verification is the outcome of the signature check on a decoded token.
type Verification int

const (
	// NotAttempted means no key material was supplied, the token was only inspected.
	NotAttempted Verification = iota
	// Verified means the signature was checked and is valid.
	Verified
	// NotVerified means the signature was checked and is invalid or unusable.
	NotVerified
)

func (v Verification) String() string {
	switch v {
	case Verified:
		return "verified"
	case NotVerified:
		return "invalid"
	default:
		return "skipped"
	}
}

package domain

// Profile selects how strictly the auth flow validates input and whether
// login responses carry a session token.
type Profile string

const (
	// ProfileStrict applies full field validation and issues signed tokens.
	ProfileStrict Profile = "strict"
	// ProfileMinimal only requires a username and never returns a token.
	ProfileMinimal Profile = "minimal"
)

// Valid reports whether p is a known profile.
func (p Profile) Valid() bool {
	return p == ProfileStrict || p == ProfileMinimal
}

package models

// TurnRole identifies the author of a debate turn.
type TurnRole string

const (
	TurnRoleUser      TurnRole = "user"
	TurnRoleAssistant TurnRole = "assistant"
)

// DebateTurn is a single exchange in debate mode. The ordered turn list forms
// the chat context sent to the provider on every subsequent turn.
type DebateTurn struct {
	Role TurnRole `json:"role"`
	Text string   `json:"text"`
}

// AlternatesFromUser reports whether turns alternate roles beginning with the
// user. The empty sequence is trivially valid.
func AlternatesFromUser(turns []DebateTurn) bool {
	for i, turn := range turns {
		want := TurnRoleUser
		if i%2 == 1 {
			want = TurnRoleAssistant
		}
		if turn.Role != want {
			return false
		}
	}
	return true
}

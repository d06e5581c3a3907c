package ancestry

// Role describes how a person relates to an event they are present at.
type Role string

const (
	// Subject is the person the event is about (the child at a birth)
	Subject Role = "subject"
	// Witness attended to attest to the event
	Witness Role = "witness"
	// Beneficiary gains something from the event (an heir at a will)
	Beneficiary Role = "beneficiary"
	// Attendee was merely there; also the fallback for any role string
	// the loader does not recognize
	Attendee Role = "attendee"
)

// rolesByGrampsName maps source-format role strings to roles
var rolesByGrampsName = map[string]Role{
	"Primary":     Subject,
	"Family":      Subject,
	"Witness":     Witness,
	"Beneficiary": Beneficiary,
	"Unknown":     Attendee,
}

// RoleForGrampsName maps a source-format role string to a Role. Absent or
// unrecognized role strings fall back to Attendee, never an error.
func RoleForGrampsName(name string) Role {
	if role, ok := rolesByGrampsName[name]; ok {
		return role
	}
	return Attendee
}

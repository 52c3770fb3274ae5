package models

// Caller is the identity a request acts as. It is passed explicitly into
// every mutating operation.
type Caller struct {
	ParticipantID *int   `json:"participant_id,omitempty"`
	Name          string `json:"name"`
	IsAdmin       bool   `json:"is_admin"`
}

// Anonymous is the zero caller.
var Anonymous = Caller{}

func (c Caller) IsParticipant(id int) bool {
	return c.ParticipantID != nil && *c.ParticipantID == id
}

func (c Caller) Authenticated() bool {
	return c.IsAdmin || c.ParticipantID != nil
}

func AdminCaller(name string) Caller {
	return Caller{Name: name, IsAdmin: true}
}

func ParticipantCaller(id int, name string) Caller {
	return Caller{ParticipantID: &id, Name: name}
}

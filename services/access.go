package services

import "github.com/Dosada05/swiss-tables/models"

// AccessGate decides whether a caller may modify data owned by a participant.
type AccessGate interface {
	CanModify(caller models.Caller, participantID int) bool
	IsAdmin(caller models.Caller) bool
}

type accessGate struct{}

func NewAccessGate() AccessGate {
	return accessGate{}
}

// CanModify is true for admins and for a participant acting on itself.
func (accessGate) CanModify(caller models.Caller, participantID int) bool {
	return caller.IsAdmin || caller.IsParticipant(participantID)
}

func (accessGate) IsAdmin(caller models.Caller) bool {
	return caller.IsAdmin
}

func requireAdmin(gate AccessGate, caller models.Caller) error {
	if !gate.IsAdmin(caller) {
		return ErrForbidden
	}
	return nil
}

package models

import "time"

type Participant struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Active       bool      `json:"active" db:"active"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ParticipantWithStats: участник с агрегированной статистикой, вычисляется из результатов при чтении.
type ParticipantWithStats struct {
	Participant
	WinCount  int `json:"win_count"`
	LossCount int `json:"loss_count"`
	DrawCount int `json:"draw_count"`
	Points    int `json:"points"`
}

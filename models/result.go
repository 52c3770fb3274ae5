package models

// Result is one player's outcome in one match. At most one of Win, Loss and
// Draw is 1.
type Result struct {
	MatchID  int `json:"match_id" db:"match_id"`
	PlayerID int `json:"player_id" db:"player_id"`
	Win      int `json:"win" db:"win"`
	Loss     int `json:"loss" db:"loss"`
	Draw     int `json:"draw" db:"draw"`
	Points   int `json:"points" db:"points"`
}

// ResultEntry is one submitted row. A row with no outcome flag set is blank.
type ResultEntry struct {
	PlayerID int `json:"player_id"`
	Win      int `json:"win"`
	Loss     int `json:"loss"`
	Draw     int `json:"draw"`
	Points   int `json:"points"`
}

func (e ResultEntry) Blank() bool {
	return e.Win == 0 && e.Loss == 0 && e.Draw == 0
}

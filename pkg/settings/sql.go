package settings

import (
	"database/sql"
)

func buildCreateModesTable() string {
	return `CREATE TABLE IF NOT EXISTS modes (
		userid INTEGER PRIMARY KEY,
		historical INTEGER NOT NULL,
		year INTEGER NOT NULL);`
}

func buildSelectModeCommand(userID int64) (string, []interface{}, func(*sql.Rows) (Mode, error)) {
	return `SELECT historical, year FROM modes WHERE userid = ?`, []interface{}{userID}, processSelectModeRows
}

func processSelectModeRows(rows *sql.Rows) (Mode, error) {
	defer rows.Close()

	// only can be one row
	if rows.Next() {
		var historical int
		var year int
		if err := rows.Scan(&historical, &year); err != nil {
			return Mode{}, err
		}
		return Mode{Historical: historical == 1, Year: year}, nil
	}
	return Mode{}, rows.Err()
}

func buildUpsertModeCommand(userID int64, mode Mode) (string, []interface{}) {
	historical := 0
	if mode.Historical {
		historical = 1
	}
	return `INSERT OR REPLACE INTO modes (userid, historical, year) VALUES (?, ?, ?)`, []interface{}{userID, historical, mode.Year}
}

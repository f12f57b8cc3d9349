package repositories

import (
	"database/sql"
	"errors"

	intconfig "travelbooking/internal/config"
	intdb "travelbooking/internal/db"
)

// ErrInsufficientInventory is returned when a guarded counter update would
// push rooms_available or seats_available below zero.
var ErrInsufficientInventory = errors.New("insufficient inventory")

type rowScanner interface {
	Scan(dest ...any) error
}

func pick(db intdb.DBTX) intdb.DBTX {
	if db != nil {
		return db
	}
	return intconfig.DB
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// scanCounters reads (id, counter) rows and closes them.
func scanCounters(rows *sql.Rows) (map[int64]int, error) {
	defer rows.Close()
	out := map[int64]int{}
	for rows.Next() {
		var (
			id int64
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}

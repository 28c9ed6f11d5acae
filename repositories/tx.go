package repositories

import (
	"database/sql"

	"gorm.io/gorm"
)

// snapshotTxOptions returns transaction options that pin one consistent
// snapshot for the whole transaction. Postgres needs REPEATABLE READ for
// that; SQLite transactions are serializable already and its driver rejects
// other levels.
func snapshotTxOptions(db *gorm.DB) []*sql.TxOptions {
	if db.Dialector.Name() == "sqlite" {
		return nil
	}
	return []*sql.TxOptions{{Isolation: sql.LevelRepeatableRead}}
}

// Package database provides a GORM wrapper with vlmscribe logging and
// component lifecycle support. The SQL history backend uses it with the
// sqlite driver.
//
//	db, err := database.Open(ctx, database.Config{DSN: "history.db"}, log)
//	err = db.AutoMigrate(&history.Row{})
package database

// Package database provides SQLite storage for the instrument host.
//
// It opens the database file with WAL mode and a busy timeout, runs
// versioned migrations supplied as an fs.FS, and offers a small
// transaction helper. Presets are the only current tenant.
//
// Usage:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql with an
// optional matching .down.sql. Migrations are additive: new columns are
// nullable or carry a default.
package database

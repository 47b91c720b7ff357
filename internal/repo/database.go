package repo

import (
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/hashicorp/go-hclog"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Database owns the sqlite connection shared by the repositories.
type Database struct {
	db  *sqlx.DB
	log hclog.Logger
}

func NewDatabase(path string, logger hclog.Logger) (*Database, error) {
	dsn := path + "?_foreign_keys=on"
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	return &Database{db: db, log: logger}, nil
}

func (d *Database) Close() {
	if d.db != nil {
		_ = d.db.Close()
	}
}

// Migrate brings the schema up to the latest embedded migration.
func (d *Database) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}

	dbDriver, err := sqlite3.WithInstance(d.db.DB, &sqlite3.Config{})
	if err != nil {
		return err
	}

	migrator, err := migrate.NewWithInstance("iofs", src, "biodex", dbDriver)
	if err != nil {
		return err
	}

	err = migrator.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	d.log.Debug("database schema up to date")
	return nil
}

func (d *Database) Species() *SpeciesRepository { return NewSpeciesRepository(d.db) }
func (d *Database) Users() *UserRepository      { return NewUserRepository(d.db) }

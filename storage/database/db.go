package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"

	"github.com/trezcool/daftari/core"
	appfs "github.com/trezcool/daftari/fs"
)

func open(dbName string, admin bool, conf *core.Config) (*sql.DB, error) {
	user := url.UserPassword(conf.Database.User, conf.Database.Password)
	if admin && conf.Database.AdminUser != "" {
		user = url.UserPassword(conf.Database.AdminUser, conf.Database.AdminPassword)
	}

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     user,
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return sql.Open(conf.Database.Engine, u.String())
}

func Open(conf *core.Config) (*sql.DB, error) {
	return open(conf.Database.Name, false, conf)
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sql.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// Migrate brings the schema up to date, creating the database first if it
// does not exist yet (requires admin credentials in that case).
func Migrate(conf *core.Config) error {
	db, err := Open(conf)
	if err != nil {
		return errors.Wrap(err, "opening DB")
	}
	defer func() { _ = db.Close() }()

	if err = ping(db); err != nil {
		if cerr := createDatabase(conf); cerr != nil {
			return cerr
		}
		if err = ping(db); err != nil {
			return err
		}
	}
	return errors.Wrap(goose.RunFS("up", db, appfs.FS, "migrations"), "migrating DB")
}

func createDatabase(conf *core.Config) error {
	admin, err := open("postgres", true, conf)
	if err != nil {
		return errors.Wrap(err, "opening admin DB")
	}
	defer func() { _ = admin.Close() }()

	if err = ping(admin); err != nil {
		return err
	}
	if _, err = admin.Exec(fmt.Sprintf("CREATE DATABASE %q", conf.Database.Name)); err != nil {
		return errors.Wrap(err, "creating database")
	}
	return nil
}

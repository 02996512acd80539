package main

import (
	"database/sql"

	"github.com/trezcool/goose"

	appfs "github.com/trezcool/daftari/fs"
	"github.com/trezcool/daftari/storage/database"
)

// mockable
var (
	gooseRunFunc  = goose.RunFS
	dbPingFunc    = (*sql.DB).Ping
	bootstrapFunc = database.Migrate
)

func (cli *commandLine) migrate(args []string) error {
	command := "up"
	arguments := make([]string, 0)
	if len(args) > 0 {
		command = args[0]
		arguments = append(arguments, args[1:]...)
	}
	// a fresh environment has no database yet; "up" creates it first, then
	// brings the schema fully up
	if command == "up" && dbPingFunc(cli.db) != nil {
		return bootstrapFunc(cli.conf)
	}
	return gooseRunFunc(command, cli.db, appfs.FS, "migrations", arguments...)
}

package main

import (
	"log"
	"os"

	echoapi "github.com/trezcool/daftari/apps/api/echo"
	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/document"
	"github.com/trezcool/daftari/core/export"
	"github.com/trezcool/daftari/core/folder"
	logsvc "github.com/trezcool/daftari/services/logger"
	"github.com/trezcool/daftari/storage/database"
	inmemdb "github.com/trezcool/daftari/storage/database/inmem"
	sqlxrepos "github.com/trezcool/daftari/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	std := log.New(os.Stdout, conf.AppName+" ", log.LstdFlags|log.Lshortfile)

	var logger core.Logger
	if conf.RollbarToken != "" && !conf.Debug {
		logger = logsvc.NewRollbarLogger(std, conf)
	} else {
		logger = logsvc.NewConsoleLogger(std)
	}

	// session store: one active editing session per document, in memory
	db, err := inmemdb.Open()
	errAndDie(err)

	docSvc := document.NewService(inmemdb.NewDocumentRepository(db))
	folderSvc := folder.NewService(inmemdb.NewFolderRepository(db), docSvc)
	exporter := export.NewExporter(logger)

	// best-effort persistence: debounced saves into postgres when reachable
	if sqlDB, err := database.Open(conf); err == nil && sqlDB.Ping() == nil {
		persister := sqlxrepos.NewDocumentRepository(sqlDB, conf.Database.Engine)
		autosaver := document.NewAutosaver(docSvc, persister, logger, conf.AutosaveDebounce)
		defer autosaver.Stop()
		defer func() { _ = sqlDB.Close() }()
	} else {
		logger.Warn("persistence database unreachable; running without autosave")
	}

	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:      conf.Server.Address(),
			Conf:      conf,
			Logger:    logger,
			DocSvc:    docSvc,
			FolderSvc: folderSvc,
			Exporter:  exporter,
		},
	)
	app.Start()
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

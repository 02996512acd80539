package main

import (
	"log"
	"os"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/document"
	"github.com/trezcool/daftari/core/export"
	logsvc "github.com/trezcool/daftari/services/logger"
	"github.com/trezcool/daftari/storage/database"
	sqlxrepos "github.com/trezcool/daftari/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	std := log.New(os.Stdout, conf.AppName+"-admin ", log.LstdFlags)
	logger := logsvc.NewConsoleLogger(std)

	db, err := database.Open(conf)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	docSvc := document.NewService(sqlxrepos.NewDocumentRepository(db, conf.Database.Engine))

	cli := commandLine{
		conf:     conf,
		db:       db,
		docSvc:   docSvc,
		exporter: export.NewExporter(logger),
	}
	if err := cli.run(os.Args); err != nil && err != errHelp {
		log.Fatal(err)
	}
}

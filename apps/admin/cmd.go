package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/document"
	"github.com/trezcool/daftari/core/export"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf     *core.Config
	db       *sql.DB
	docSvc   *document.Service
	exporter *export.Exporter
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate [up|down|status|version] - run DB migrations")
	fmt.Println("  export -id DOCUMENT_ID [-format markdown|json|txt] [-out PATH] - export a document")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportID := exportCmd.String("id", "", "The document's id.")
	exportFormat := exportCmd.String("format", "markdown", "The output format: markdown, json or txt.")
	exportOut := exportCmd.String("out", "", "The output path; defaults to the export's filename in the working directory.")

	switch args[1] {
	case "migrate":
		return cli.migrate(args[2:])
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportID == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(*exportID, *exportFormat, *exportOut)
	default:
		cli.printUsage()
		return errHelp
	}
}

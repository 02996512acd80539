package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/document"
	"github.com/trezcool/daftari/core/export"
	logsvc "github.com/trezcool/daftari/services/logger"
	inmemdb "github.com/trezcool/daftari/storage/database/inmem"
	testutil "github.com/trezcool/daftari/tests"
)

var docRepo document.Repository

func setup(t *testing.T) *commandLine {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	docRepo = inmemdb.NewDocumentRepository(db)
	docSvc := document.NewService(docRepo)

	return &commandLine{
		docSvc:   docSvc,
		exporter: export.NewExporter(logsvc.NewConsoleLogger(log.New(os.Stderr, "TEST : ", log.LstdFlags))),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	dbPingFunc = func(*sql.DB) error { return nil }
	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version": // pass
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no subcommand defaults to up", args: []string{"migrate"}},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

// "up" against a missing database creates it first instead of failing.
func Test_commandLine_migrate_bootstrapsMissingDatabase(t *testing.T) {
	cli := setup(t)

	dbPingFunc = func(*sql.DB) error { return errors.New("connection refused") }
	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		t.Errorf("goose %q ran against an unreachable database", command)
		return nil
	}
	var bootstrapped bool
	bootstrapFunc = func(conf *core.Config) error {
		bootstrapped = true
		return nil
	}

	if err := cli.run([]string{"admin", "migrate", "up"}); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}
	if !bootstrapped {
		t.Error("the database was not bootstrapped")
	}

	// other subcommands still go straight to goose; they cannot create the DB
	bootstrapped = false
	var gotCommand string
	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		gotCommand = command
		return nil
	}
	if err := cli.run([]string{"admin", "migrate", "status"}); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}
	if bootstrapped || gotCommand != "status" {
		t.Errorf("bootstrapped = %v, goose command = %q; want goose %q only", bootstrapped, gotCommand, "status")
	}
}

func Test_commandLine_export(t *testing.T) {
	cli := setup(t)

	doc := testutil.CreateDocument(t, docRepo, "Cell Biology", "", nil,
		testutil.Block("b1", document.TypeHeading1, "Mitosis", nil),
		testutil.Block("b2", document.TypeParagraph, "Cells divide.", nil),
	)

	var gotPath string
	var gotContent []byte
	writeFileFunc = func(name string, data []byte, perm os.FileMode) error {
		gotPath = name
		gotContent = data
		return nil
	}

	tests := []cliTest{
		{name: "no id", args: []string{"export"}, wantErr: errHelp},
		{name: "unknown id", args: []string{"export", "-id", "nope"}, wantErr: document.ErrNotFound},
		{name: "unknown format", args: []string{"export", "-id", doc.ID, "-format", "pdf"}, wantErr: export.ErrUnknownFormat},
		{name: "default format", args: []string{"export", "-id", doc.ID}},
		{name: "json to explicit path", args: []string{"export", "-id", doc.ID, "-format", "json", "-out", "notes.json"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			gotPath, gotContent = "", nil

			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("cli.run() unexpected error = %v", err)
			}
			switch tt.name {
			case "default format":
				if gotPath != "cell-biology.md" {
					t.Errorf("output path = %q, want the export's filename", gotPath)
				}
				if !strings.Contains(string(gotContent), "# Mitosis") {
					t.Errorf("output content = %q, want markdown", gotContent)
				}
			case "json to explicit path":
				if gotPath != "notes.json" {
					t.Errorf("output path = %q, want %q", gotPath, "notes.json")
				}
				if !strings.Contains(string(gotContent), `"Cell Biology"`) {
					t.Errorf("output content = %q, want the document JSON", gotContent)
				}
			}
		})
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/trezcool/daftari/core/export"
)

var writeFileFunc = os.WriteFile // mockable

func (cli *commandLine) export(id, format, out string) error {
	doc, err := cli.docSvc.GetByID(id)
	if err != nil {
		return err
	}
	exp, warnings, err := cli.exporter.Export(doc, export.Format(format))
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Printf("warning: block %s: %s\n", w.BlockID, w.Message)
	}
	if out == "" {
		out = exp.Filename
	}
	if err = writeFileFunc(out, exp.Content, 0o644); err != nil {
		return err
	}
	fmt.Printf("exported %q to %s\n", doc.Title, out)
	return nil
}

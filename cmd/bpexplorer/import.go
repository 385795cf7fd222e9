package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vidyasagar/bpexplorer/internal/blueprint"
	"github.com/vidyasagar/bpexplorer/internal/storage"
)

var importCmd = &cobra.Command{
	Use:   "import <dump.json>",
	Short: "Index a blueprint dump, replacing the current index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDataDir()
		if err != nil {
			return err
		}
		return runImport(args[0], dir, cmd.OutOrStdout())
	},
}

// runImport decodes the dump at path into the index under dir.
func runImport(path, dir string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	handles, err := blueprint.Decode(f)
	if err != nil {
		return err
	}

	db, err := storage.OpenDB(dir)
	if err != nil {
		return err
	}
	defer db.Close()

	catalog, err := storage.NewBlueprintStore(db, 0)
	if err != nil {
		return err
	}
	if err := catalog.Import(handles); err != nil {
		return err
	}

	refs := 0
	for _, h := range handles {
		refs += len(h.BackReferences)
	}
	fmt.Fprintf(out, "Imported %d blueprints (%d references) into %s\n", len(handles), refs, db.Path())
	return nil
}

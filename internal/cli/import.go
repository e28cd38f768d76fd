package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"question-bank/internal/domain"
	pgsource "question-bank/internal/infra/postgres"
)

// NewImportCmd stores a JSON question file as a named collection.
func NewImportCmd(configPath *string) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a question file into Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), *configPath, args[0], name)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "collection name (defaults to the file name)")
	return cmd
}

func runImport(ctx context.Context, configPath, path, name string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", domain.ErrParse, path, err)
	}

	db := pgsource.OpenBun(cfg.Postgres.URL)
	defer db.Close()

	n, err := pgsource.ImportCollection(ctx, db, name, data)
	if err != nil {
		return err
	}
	log.Printf("imported %d questions into collection %s", n, name)
	return nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	pgsource "question-bank/internal/infra/postgres"
)

// NewCollectionsCmd lists the collections stored in Postgres.
func NewCollectionsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "List imported question collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			pool, err := pgxpool.Connect(cmd.Context(), cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()
			return runCollections(cmd.Context(), cmd.OutOrStdout(), pool)
		},
	}
}

func runCollections(ctx context.Context, out io.Writer, pool *pgxpool.Pool) error {
	sizes, err := pgsource.ListCollections(ctx, pool)
	if err != nil {
		return err
	}
	return writeCollections(out, sizes)
}

func writeCollections(out io.Writer, sizes map[string]int) error {
	names := make([]string, 0, len(sizes))
	for name := range sizes {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tQUESTIONS\tSOURCE")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%d\tcollection-%s\n", name, sizes[name], name)
	}
	return w.Flush()
}

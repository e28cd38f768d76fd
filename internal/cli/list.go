package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"question-bank/internal/app"
	"question-bank/internal/domain"
	"question-bank/internal/filter"
	"question-bank/internal/infra/file"
	"question-bank/internal/infra/httpsource"
	"question-bank/internal/pagination"
)

type listOptions struct {
	file    string
	url     string
	bloom   string
	qType   string
	search  string
	page    int
	perPage int
}

// NewListCmd prints one page of a question collection as a table.
func NewListCmd(configPath, port *string) *cobra.Command {
	opts := listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List questions from a file or the example resource",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if opts.url == "" {
				opts.url = cfg.ExampleURL(*port)
			}
			if opts.perPage <= 0 {
				opts.perPage = cfg.View.ItemsPerPage
			}
			return runList(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.file, "file", "", "JSON question file to load")
	cmd.Flags().StringVar(&opts.url, "url", "", "URL of a question collection (defaults to the example resource)")
	cmd.Flags().StringVar(&opts.bloom, "bloom", "", "only show questions of this Bloom level")
	cmd.Flags().StringVar(&opts.qType, "type", "", "only show questions of this type (id or name)")
	cmd.Flags().StringVar(&opts.search, "search", "", "case-insensitive text search")
	cmd.Flags().IntVar(&opts.page, "page", 1, "page to show")
	cmd.Flags().IntVar(&opts.perPage, "per-page", 0, "questions per page")
	return cmd
}

func runList(ctx context.Context, out io.Writer, opts listOptions) error {
	var src app.Source = httpsource.NewExampleSource(opts.url)
	if opts.file != "" {
		src = file.NewSource(opts.file)
	}

	store := app.NewStore(nil)
	if _, err := store.Load(ctx, src); err != nil {
		return err
	}

	patch := domain.ConfigPatch{}
	if opts.bloom != "" {
		level, ok := domain.ParseBloomLevel(opts.bloom)
		if !ok {
			return fmt.Errorf("%w: unknown bloom level %q", domain.ErrValidation, opts.bloom)
		}
		patch.BloomLevel = &level
	}
	if opts.qType != "" {
		patch.QuestionType = &opts.qType
	}
	state := store.SetUserConfig(patch)

	questions := filter.Search(state.FilteredQuestions, opts.search)
	pager := pagination.NewPaginator(len(questions), opts.perPage, opts.page)
	page := pager.Page()

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tBLOOM\tTYPE\tRATING\tBY\tQUESTION")
	for _, q := range pagination.Window(questions, page) {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			q.Number, q.ID, q.BloomLevel.Label(), q.QuestionType, domain.RatingLabel(q.Rating), q.Provenance(), truncate(q.Text, 60))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "page %d of %d (%d of %d questions, source %s)\n",
		page.CurrentPage, page.TotalPages, len(questions), len(state.AllQuestions), state.Source)
	return err
}

func truncate(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}

package cli

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/coinmap/pkg/category"
	"github.com/matzehuels/coinmap/pkg/errors"
	"github.com/matzehuels/coinmap/pkg/treemap"
	"github.com/matzehuels/coinmap/pkg/widget"
)

// Sort keys for the list command.
const (
	sortCap    = "cap"
	sortChange = "change"
	sortName   = "name"
	sortNone   = "none"
)

type listOpts struct {
	limit   int
	sortBy  string
	refresh bool
}

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	var opts listOpts

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print categories as a table",
		Long:  `Fetch categories and print them with market cap, 24h change and the weighted summary the treemap is drawn from.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
			defer cancel()

			client, backend, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			defer backend.Close()

			cats, err := client.FetchCategories(ctx, opts.refresh)
			if err != nil {
				printError(cmd.ErrOrStderr(), "%s", widget.ErrorMessage(err))
				return err
			}
			return printCategories(cmd.OutOrStdout(), category.Normalize(cats), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 20, "rows to show (0 for all)")
	cmd.Flags().StringVar(&opts.sortBy, "sort", sortCap, "sort by cap, change, name or none (source order)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the response cache")

	return cmd
}

// printCategories writes the category table and summary to w.
func printCategories(w io.Writer, cats []category.Category, opts listOpts) error {
	sorted, err := sortCategories(cats, opts.sortBy)
	if err != nil {
		return err
	}
	shown := sorted
	if opts.limit > 0 && len(shown) > opts.limit {
		shown = shown[:opts.limit]
	}

	fmt.Fprintln(w, categoryTable(shown))

	s := widget.Summarize(cats)
	printKeyValue(w, "Categories", strconv.Itoa(s.Count))
	printKeyValue(w, "Market cap", formatMarketCap(s.TotalMarketCap))
	printKeyValue(w, "Weighted", changeStyle(colorFor(s.WeightedChange)).Render(category.FormatChange(s.WeightedChange)+"%"))
	printKeyValue(w, "Up / down", fmt.Sprintf("%d / %d", s.Gainers, s.Losers))
	if len(shown) < len(sorted) {
		printDetail(w, "showing %d of %d, use --limit 0 for all", len(shown), len(sorted))
	}
	return nil
}

func sortCategories(cats []category.Category, by string) ([]category.Category, error) {
	out := slices.Clone(cats)
	switch by {
	case sortCap:
		slices.SortStableFunc(out, func(a, b category.Category) int { return cmp.Compare(b.MarketCap, a.MarketCap) })
	case sortChange:
		slices.SortStableFunc(out, func(a, b category.Category) int {
			if a.MissingChange != b.MissingChange {
				if a.MissingChange {
					return 1
				}
				return -1
			}
			return cmp.Compare(b.MarketCapChange24h, a.MarketCapChange24h)
		})
	case sortName:
		slices.SortStableFunc(out, func(a, b category.Category) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	case sortNone, "":
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown sort %q (want cap, change, name or none)", by)
	}
	return out, nil
}

func categoryTable(cats []category.Category) string {
	rows := make([][]string, len(cats))
	for i, cat := range cats {
		rows[i] = []string{
			cat.Name,
			formatMarketCap(cat.MarketCap),
			widget.ChangeText(cat),
			strconv.Itoa(len(cat.Top3Coins)),
			formatRelativeTime(cat.UpdatedAt),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Category", "Market cap", "24h %", "Coins", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(cats) {
				return base
			}
			switch col {
			case 2:
				return base.Inherit(changeStyle(treemap.Leaf{Category: cats[row]}.Fill())).Align(lipgloss.Right)
			case 1, 3:
				return base.Align(lipgloss.Right)
			case 4:
				return base.Foreground(colorDim)
			}
			return base
		}).
		Render()
}

func colorFor(change float64) treemap.Color {
	if change < 0 {
		return treemap.Red
	}
	return treemap.Green
}

// formatMarketCap abbreviates a dollar amount: $1.23T, $4.56B, $7.89M.
func formatMarketCap(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.2fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// formatRelativeTime renders an RFC 3339 timestamp relative to now.
// Unparseable input is returned unchanged.
func formatRelativeTime(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}

	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

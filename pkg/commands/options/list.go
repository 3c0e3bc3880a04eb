package options

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/spool/pkg/app"
)

// ListOptions
type ListOptions struct {
	Archived   bool
	Field      string
	Query      string
	SortBy     string
	Descending bool
}

func AddListArgs(cmd *cobra.Command, o *ListOptions) {
	cmd.Flags().BoolVarP(&o.Archived, "archived", "a", false,
		"List archived rolls.")
	cmd.Flags().StringVarP(&o.Query, "filter", "f", "",
		"Only rolls containing this text, ignoring case.")
	cmd.Flags().StringVar(&o.Field, "filter-field", "",
		fmt.Sprintf("Limit --filter to one field: %s.", strings.Join(app.FilterFields, ", ")))
	cmd.Flags().StringVarP(&o.SortBy, "sort", "s", app.SortRemaining,
		fmt.Sprintf("Sort by one of: %s.", strings.Join(app.SortColumns, ", ")))
	cmd.Flags().BoolVar(&o.Descending, "desc", false,
		"Sort in descending order.")

	_ = cmd.RegisterFlagCompletionFunc("sort", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return app.SortColumns, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("filter-field", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return app.FilterFields, cobra.ShellCompDirectiveNoFileComp
	})
}

func (o *ListOptions) Options() app.ListOptions {
	return app.ListOptions{
		Archived:   o.Archived,
		Field:      o.Field,
		Query:      o.Query,
		SortBy:     o.SortBy,
		Descending: o.Descending,
	}
}

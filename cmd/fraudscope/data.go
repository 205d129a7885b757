package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jask/fraudscope/internal/table"
)

func newBrowseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive transaction explorer and rule editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setupEnv(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			defer e.Close()
			return runBrowser(cmd.Context(), e)
		},
	}
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the dataset summary cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setupEnv(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.Close()
			if err := e.dataset.Load(cmd.Context()); err != nil {
				return fmt.Errorf("load transactions: %w", err)
			}
			st := e.dataset.Session().Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total Transactions  %s\n", st.Total)
			fmt.Fprintf(out, "Fraud Cases         %s\n", st.FraudCount)
			fmt.Fprintf(out, "Declined            %s\n", st.DeclinedCount)
			fmt.Fprintf(out, "Fraud Rate          %s\n", st.FraudRate)
			return nil
		},
	}
}

type queryFlags struct {
	search   string
	status   string
	fraud    string
	sort     string
	desc     bool
	page     int
	pageSize int
}

func newQueryCmd(opts *rootOptions) *cobra.Command {
	var f queryFlags
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter, sort and page through transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setupEnv(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.Close()
			if f.pageSize > 0 {
				e.dataset.Options.PageSize = f.pageSize
			}
			if err := e.dataset.Load(cmd.Context()); err != nil {
				return fmt.Errorf("load transactions: %w", err)
			}
			s := e.dataset.Session()
			if f.sort != "" {
				s.SortBy(f.sort)
				if f.desc {
					s.SortBy(f.sort)
				}
			}
			s.SetFilter(table.FieldSearch, f.search)
			s.SetFilter(table.FieldStatus, f.status)
			s.SetFilter(table.FieldFraud, f.fraud)
			s.SetPage(f.page)
			writePage(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.search, "search", "", "case-insensitive substring over every column")
	cmd.Flags().StringVar(&f.status, "status", "", "exact match on the status column")
	cmd.Flags().StringVar(&f.fraud, "fraud", "", "exact match on the fraud column")
	cmd.Flags().StringVar(&f.sort, "sort", "", "column to sort by")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "sort descending")
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "rows per page (default data.page_size)")
	return cmd
}

func writePage(w io.Writer, s *table.Session) {
	view := s.View()
	if len(view.Page.Items) == 0 {
		fmt.Fprintln(w, "No data available")
		return
	}
	cols := s.Columns()
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = table.HeaderName(c)
	}
	rows := make([][]string, len(view.Page.Items))
	for i, rec := range view.Page.Items {
		rows[i] = make([]string, len(cols))
		for j, c := range cols {
			rows[i][j] = table.CellText(c, rec.Get(c))
		}
	}
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.String())
	fmt.Fprintf(w, "%s  ·  Page %d of %d\n", view.Page.Summary(), view.Page.Number, view.Page.TotalPages)
}

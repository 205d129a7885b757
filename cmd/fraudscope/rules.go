package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jask/fraudscope/internal/rules"
)

func newRulesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage fraud detection rules",
	}
	cmd.AddCommand(
		newRulesListCmd(opts),
		newRulesShowCmd(opts),
		newRulesTemplateCmd(),
		newRulesCreateCmd(opts),
		newRulesUpdateCmd(opts),
		newRulesDuplicateCmd(opts),
		newRulesDeleteCmd(opts),
		newRulesActiveCmd(opts, "activate", true),
		newRulesActiveCmd(opts, "deactivate", false),
		newRulesHistoryCmd(opts),
	)
	return cmd
}

func newRulesListCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setupEnv(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.Close()
			rs := e.rules.LoadRules(cmd.Context())
			out := cmd.OutOrStdout()
			switch output {
			case "json":
				data, err := rules.EncodeCollection(rs)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			case "yaml":
				return writeYAML(out, rs)
			case "table", "":
				writeRuleTable(out, rs)
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "table, json or yaml")
	return cmd
}

func writeRuleTable(w io.Writer, rs []rules.Rule) {
	if len(rs) == 0 {
		fmt.Fprintln(w, "No rules yet")
		return
	}
	rows := make([][]string, len(rs))
	for i, r := range rs {
		active := "no"
		if r.Active {
			active = "yes"
		}
		rows[i] = []string{
			r.ID,
			r.Name,
			r.Category,
			active,
			r.Logic.String(),
			fmt.Sprintf("%s %s", r.Threshold.Operator.Label(), r.Threshold.Value),
		}
	}
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Name", "Category", "Active", "Filters", "Alert When").
		Rows(rows...)
	fmt.Fprintln(w, t.String())
}

func newRulesShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one rule as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setupEnv(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.Close()
			r, err := e.rules.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), r)
		},
	}
}

func newRulesTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Print a blank rule to start a rule file from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeYAML(cmd.OutOrStdout(), rules.NewDraft())
		},
	}
}

func writeYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// readRuleFile decodes a rule file; "-" reads stdin.
func readRuleFile(cmd *cobra.Command, path string) (rules.Rule, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return rules.Rule{}, fmt.Errorf("read rule file: %w", err)
	}
	var r rules.Rule
	if err := yaml.Unmarshal(data, &r); err != nil {
		return rules.Rule{}, fmt.Errorf("parse rule file: %w", err)
	}
	return r, nil
}

// validated reads the rule file and checks it against the dataset's
// columns.
func validated(cmd *cobra.Command, e *env, path string) (rules.Rule, error) {
	if path == "" {
		return rules.Rule{}, fmt.Errorf("a rule file is required (-f)")
	}
	r, err := readRuleFile(cmd, path)
	if err != nil {
		return rules.Rule{}, err
	}
	if res := rules.Validate(r, e.columns(cmd.Context())); !res.Valid() {
		return rules.Rule{}, fmt.Errorf("invalid rule: %s", res)
	}
	return r, nil
}

func newRulesCreateCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Validate and store a new rule from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setupEnv(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.Close()
			r, err := validated(cmd, e, file)
			if err != nil {
				return err
			}
			out, err := e.rules.Create(cmd.Context(), r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rule created successfully: %s\n", out.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "rule YAML file, or - for stdin")
	return cmd
}

func newRulesUpdateCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Validate and replace a stored rule from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setupEnv(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.Close()
			r, err := validated(cmd, e, file)
			if err != nil {
				return err
			}
			if _, err := e.rules.Update(cmd.Context(), args[0], r); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Rule updated successfully")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "rule YAML file, or - for stdin")
	return cmd
}

func newRulesDuplicateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Copy a rule under a new id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setupEnv(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.Close()
			out, err := e.rules.Duplicate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rule duplicated successfully: %s\n", out.ID)
			return nil
		},
	}
}

func newRulesDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setupEnv(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.Close()
			if err := e.rules.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Rule deleted successfully")
			return nil
		},
	}
}

func newRulesActiveCmd(opts *rootOptions, use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: fmt.Sprintf("Mark a rule %sd", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setupEnv(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.Close()
			if _, err := e.rules.SetActive(cmd.Context(), args[0], active); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rule %sd\n", use)
			return nil
		},
	}
}

func newRulesHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "Show recent rule changes, optionally for one rule",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setupEnv(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.Close()
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			events, err := e.rules.History(cmd.Context(), id, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No rule changes recorded")
				return nil
			}
			rows := make([][]string, len(events))
			for i, ev := range events {
				rows[i] = []string{ev.At.Local().Format("2006-01-02 15:04:05"), ev.Action, ev.RuleID, ev.RuleName}
			}
			t := ltable.New().
				Border(lipgloss.NormalBorder()).
				Headers("When", "Action", "Rule ID", "Name").
				Rows(rows...)
			fmt.Fprintln(out, t.String())
			fmt.Fprintf(out, "%d events\n", len(events))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum events to show")
	return cmd
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coachkit/rulekeeper/internal/rulefile"
	"github.com/coachkit/rulekeeper/internal/rules"
	"github.com/coachkit/rulekeeper/internal/types"
)

var lintFormat string

var lintCmd = &cobra.Command{
	Use:   "lint <rules.yaml>",
	Short: "Report how the active rules of a rule file relate",
	Long: `Classifies every pair of active rules in a rule file. Exits non-zero when
a critical pair exists: such rules would be refused by the rule API.`,
	Args: cobra.ExactArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().StringVar(&lintFormat, "format", "text", "output format (text, json)")
}

// lintEntry is the JSON form of a finding.
type lintEntry struct {
	RuleID    types.RuleID       `json:"rule_id"`
	RuleName  string             `json:"rule_name"`
	OtherID   types.RuleID       `json:"other_rule_id"`
	OtherName string             `json:"other_rule_name"`
	Kind      types.ConflictKind `json:"kind"`
	Reasons   []string           `json:"reasons"`
}

func runLint(cmd *cobra.Command, args []string) error {
	set, err := rulefile.LoadRuleSet(args[0])
	if err != nil {
		return err
	}

	findings, err := rules.NewEngine(log.Logger).Lint(set.Rules)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch lintFormat {
	case "json":
		entries := make([]lintEntry, 0, len(findings))
		for _, f := range findings {
			entries = append(entries, lintEntry(f))
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return err
		}
	case "text":
		writeLintText(out, len(set.Rules), findings)
	default:
		return fmt.Errorf("unknown format %q (want text, json)", lintFormat)
	}

	if critical := countKind(findings, types.ConflictCritical); critical > 0 {
		return fmt.Errorf("%w: %d critical pair(s) in %s", types.ErrCriticalConflict, critical, args[0])
	}
	return nil
}

func writeLintText(w io.Writer, ruleCount int, findings []rules.LintFinding) {
	for _, f := range findings {
		fmt.Fprintf(w, "%-8s %s <> %s\n", f.Kind, label(f.RuleID, f.RuleName), label(f.OtherID, f.OtherName))
		for _, reason := range f.Reasons {
			fmt.Fprintf(w, "         - %s\n", reason)
		}
	}
	fmt.Fprintf(w, "%d rule(s): %d critical, %d specific, %d info\n",
		ruleCount,
		countKind(findings, types.ConflictCritical),
		countKind(findings, types.ConflictSpecific),
		countKind(findings, types.ConflictInfo))
}

func label(id types.RuleID, name string) string {
	if name == "" {
		return string(id)
	}
	return fmt.Sprintf("%q (%s)", name, id)
}

func countKind(findings []rules.LintFinding, kind types.ConflictKind) int {
	n := 0
	for _, f := range findings {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

package cmd

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coachkit/rulekeeper/internal/core/api"
	"github.com/coachkit/rulekeeper/internal/rulefile"
	"github.com/coachkit/rulekeeper/internal/rules"
	"github.com/coachkit/rulekeeper/internal/types"
)

var (
	resolveProfile  string
	resolveProduct  string
	resolveCategory string
	resolveItems    []string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <rules.yaml>",
	Short: "Compute the adjustments a client profile receives from a rule file",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVar(&resolveProfile, "profile", "", "client profile YAML file")
	resolveCmd.Flags().StringVar(&resolveProduct, "product", "", "product (program or diet) id")
	resolveCmd.Flags().StringVar(&resolveCategory, "category", "", "rule category (fitness, nutrition)")
	resolveCmd.Flags().StringSliceVar(&resolveItems, "item", nil, "exercise or meal id to report per-item totals for (repeatable)")
	_ = resolveCmd.MarkFlagRequired("profile")
	_ = resolveCmd.MarkFlagRequired("product")
	_ = resolveCmd.MarkFlagRequired("category")
}

func runResolve(cmd *cobra.Command, args []string) error {
	set, err := rulefile.LoadRuleSet(args[0])
	if err != nil {
		return err
	}
	profile, err := rulefile.LoadProfile(resolveProfile)
	if err != nil {
		return err
	}
	category, err := types.ParseCategory(resolveCategory)
	if err != nil {
		return err
	}

	res, err := rules.NewEngine(log.Logger).Resolve(types.ProductID(resolveProduct), category, profile, set.Rules)
	if err != nil {
		return err
	}

	items := make([]types.ItemID, 0, len(resolveItems))
	for _, item := range resolveItems {
		items = append(items, types.ItemID(item))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(api.NewResolveResponse(res, items))
}

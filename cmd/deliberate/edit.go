package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/deliberate/deliberate/pkg/decision"
)

// editCmd builds a command that applies one edit to a resolved deliberation.
func editCmd(g *globalOpts, use, short string, nargs int, edit func(cmd *cobra.Command, a *app, d decision.Deliberation, args []string) (decision.Deliberation, string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), g, func(a *app) error {
				d, err := a.resolve(args[0])
				if err != nil {
					return err
				}
				updated, msg, err := edit(cmd, a, d, args[1:])
				if err != nil {
					return err
				}
				return printUpdated(cmd, g, updated, msg)
			})
		},
	}
}

func printUpdated(cmd *cobra.Command, g *globalOpts, d decision.Deliberation, msg string) error {
	if g.output == "json" {
		return writeJSON(cmd.OutOrStdout(), d)
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	if leader, ok := d.Sovereign(); ok {
		v, _ := d.Valuation(leader.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Leader: %s (%.0f/100)\n", leader.Name, v)
	}
	return nil
}

func parseNumber(what, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return v, nil
}

func lookupContender(d decision.Deliberation, ref string) (decision.Contender, error) {
	c, ok := d.LookupContender(ref)
	if !ok {
		return c, fmt.Errorf("%w: %q in %q", decision.ErrContenderNotFound, ref, d.Name)
	}
	return c, nil
}

func lookupCriterion(d decision.Deliberation, ref string) (decision.Criterion, error) {
	k, ok := d.LookupCriterion(ref)
	if !ok {
		return k, fmt.Errorf("%w: %q in %q", decision.ErrCriterionNotFound, ref, d.Name)
	}
	return k, nil
}

func newRenameCmd(g *globalOpts) *cobra.Command {
	return editCmd(g, "rename <deliberation> <name>", "Rename a deliberation", 2,
		func(cmd *cobra.Command, a *app, d decision.Deliberation, args []string) (decision.Deliberation, string, error) {
			updated, err := a.svc.Rename(cmd.Context(), d.ID, args[0])
			return updated, fmt.Sprintf("Renamed %q to %q", d.Name, updated.Name), err
		})
}

func newRateCmd(g *globalOpts) *cobra.Command {
	return editCmd(g, "rate <deliberation> <contender> <criterion> <score>", "Score a contender on a criterion", 4,
		func(cmd *cobra.Command, a *app, d decision.Deliberation, args []string) (decision.Deliberation, string, error) {
			c, err := lookupContender(d, args[0])
			if err != nil {
				return d, "", err
			}
			k, err := lookupCriterion(d, args[1])
			if err != nil {
				return d, "", err
			}
			score, err := parseNumber("score", args[2])
			if err != nil {
				return d, "", err
			}
			updated, err := a.svc.Appraise(cmd.Context(), d.ID, c.ID, k.ID, score)
			return updated, fmt.Sprintf("Rated %s %g on %s", c.Name, score, k.Name), err
		})
}

func newWeighCmd(g *globalOpts) *cobra.Command {
	return editCmd(g, "weigh <deliberation> <criterion> <weight>", "Set a criterion's weight", 3,
		func(cmd *cobra.Command, a *app, d decision.Deliberation, args []string) (decision.Deliberation, string, error) {
			k, err := lookupCriterion(d, args[0])
			if err != nil {
				return d, "", err
			}
			weight, err := parseNumber("weight", args[1])
			if err != nil {
				return d, "", err
			}
			updated, err := a.svc.Weigh(cmd.Context(), d.ID, k.ID, weight)
			return updated, fmt.Sprintf("Weighted %s at %g", k.Name, weight), err
		})
}

func newEqualizeCmd(g *globalOpts) *cobra.Command {
	var normalize bool

	cmd := editCmd(g, "equalize <deliberation>", "Give every criterion the same weight", 1,
		func(cmd *cobra.Command, a *app, d decision.Deliberation, args []string) (decision.Deliberation, string, error) {
			if normalize {
				updated, err := a.svc.NormalizeWeights(cmd.Context(), d.ID)
				return updated, "Rescaled weights to sum to 1", err
			}
			updated, err := a.svc.EqualizeWeights(cmd.Context(), d.ID)
			return updated, fmt.Sprintf("Equalized %d criteria", len(updated.Criteria)), err
		})
	cmd.Flags().BoolVar(&normalize, "normalize", false, "Keep relative weights and rescale them to sum to 1 instead")
	return cmd
}

func newAddContenderCmd(g *globalOpts) *cobra.Command {
	var description string

	cmd := editCmd(g, "add-contender <deliberation> <name>", "Add a contender", 2,
		func(cmd *cobra.Command, a *app, d decision.Deliberation, args []string) (decision.Deliberation, string, error) {
			updated, err := a.svc.AddContender(cmd.Context(), d.ID, args[0], description)
			return updated, fmt.Sprintf("Added contender %s", args[0]), err
		})
	cmd.Flags().StringVarP(&description, "description", "d", "", "Contender description")
	return cmd
}

func newRemoveContenderCmd(g *globalOpts) *cobra.Command {
	return editCmd(g, "remove-contender <deliberation> <contender>", "Remove a contender", 2,
		func(cmd *cobra.Command, a *app, d decision.Deliberation, args []string) (decision.Deliberation, string, error) {
			c, err := lookupContender(d, args[0])
			if err != nil {
				return d, "", err
			}
			updated, err := a.svc.RemoveContender(cmd.Context(), d.ID, c.ID)
			return updated, fmt.Sprintf("Removed contender %s", c.Name), err
		})
}

func newAddCriterionCmd(g *globalOpts) *cobra.Command {
	var weight float64

	cmd := editCmd(g, "add-criterion <deliberation> <name>", "Add a criterion", 2,
		func(cmd *cobra.Command, a *app, d decision.Deliberation, args []string) (decision.Deliberation, string, error) {
			updated, err := a.svc.AddCriterion(cmd.Context(), d.ID, args[0], weight)
			return updated, fmt.Sprintf("Added criterion %s (weight %g)", args[0], weight), err
		})
	cmd.Flags().Float64VarP(&weight, "weight", "w", 1, "Criterion weight")
	return cmd
}

func newRemoveCriterionCmd(g *globalOpts) *cobra.Command {
	return editCmd(g, "remove-criterion <deliberation> <criterion>", "Remove a criterion and its scores", 2,
		func(cmd *cobra.Command, a *app, d decision.Deliberation, args []string) (decision.Deliberation, string, error) {
			k, err := lookupCriterion(d, args[0])
			if err != nil {
				return d, "", err
			}
			updated, err := a.svc.RemoveCriterion(cmd.Context(), d.ID, k.ID)
			return updated, fmt.Sprintf("Removed criterion %s", k.Name), err
		})
}

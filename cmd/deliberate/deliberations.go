package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/deliberate/deliberate/internal/archive"
	"github.com/deliberate/deliberate/internal/catalog"
	"github.com/deliberate/deliberate/pkg/decision"
	"github.com/deliberate/deliberate/pkg/surface"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// parseCriterion reads "Name" or "Name=weight". A missing weight is 1.
func parseCriterion(s string) (decision.Criterion, error) {
	name, raw, found := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return decision.Criterion{}, fmt.Errorf("criterion %q has no name", s)
	}
	weight := 1.0
	if found {
		w, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return decision.Criterion{}, fmt.Errorf("criterion %q: invalid weight: %w", s, err)
		}
		weight = w
	}
	return decision.Criterion{Name: name, Weight: weight}, nil
}

func newNewCmd(g *globalOpts) *cobra.Command {
	var (
		contenders []string
		criteria   []string
		template   string
	)

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a deliberation",
		Long: `Creates a deliberation from contenders and criteria, or from a template.
Criteria are given as Name or Name=weight. Without --criterion the default
Cost, Time and Risk criteria are used. Every pair starts at the default score.`,
		Example: `  deliberate new "Summer trip" -c Beach -c Mountains -k Cost=2 -k Fun
  deliberate new --template travel`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return withApp(cmd.Context(), g, func(a *app) error {
				var (
					d   decision.Deliberation
					err error
				)
				if template != "" {
					d, err = a.svc.FromTemplate(cmd.Context(), template)
					if err == nil && name != "" {
						d, err = a.svc.Rename(cmd.Context(), d.ID, name)
					}
				} else {
					draft := decision.Draft{Name: name}
					for _, c := range contenders {
						draft.Contenders = append(draft.Contenders, decision.Contender{Name: strings.TrimSpace(c)})
					}
					for _, raw := range criteria {
						k, perr := parseCriterion(raw)
						if perr != nil {
							return perr
						}
						draft.Criteria = append(draft.Criteria, k)
					}
					if len(draft.Criteria) == 0 {
						draft.Criteria = decision.DefaultDraftCriteria()
					}
					d, err = a.svc.Compose(cmd.Context(), draft)
				}
				if err != nil {
					return err
				}

				if g.output == "json" {
					return writeJSON(cmd.OutOrStdout(), d)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %q (%s) with %d contenders and %d criteria\n",
					d.Name, shortID(d.ID), len(d.Contenders), len(d.Criteria))
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&contenders, "contender", "c", nil, "Contender name (repeatable)")
	cmd.Flags().StringArrayVarP(&criteria, "criterion", "k", nil, "Criterion as Name or Name=weight (repeatable)")
	cmd.Flags().StringVarP(&template, "template", "t", "", "Start from a template (see 'deliberate templates')")
	return cmd
}

func newListCmd(g *globalOpts) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List deliberations, most recently modified first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), g, func(a *app) error {
				list := a.svc.Search(query)
				if g.output == "json" {
					return writeJSON(cmd.OutOrStdout(), list)
				}
				if len(list) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No deliberations yet. Create one with 'deliberate new'.")
					return nil
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tCONTENDERS\tLEADER\tMODIFIED")
				for _, d := range list {
					leader := "-"
					if c, ok := d.Sovereign(); ok {
						v, _ := d.Valuation(c.ID)
						leader = fmt.Sprintf("%s (%.0f)", c.Name, v)
					}
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
						shortID(d.ID), d.Name, len(d.Contenders), leader, d.ModifiedAt.Local().Format("2006-01-02 15:04"))
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Only list deliberations whose name contains this text")
	return cmd
}

func newShowCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show <deliberation>",
		Short: "Score a deliberation and explain the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := surface.ForFormat(g.output)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), g, func(a *app) error {
				d, err := a.resolve(args[0])
				if err != nil {
					return err
				}
				report, err := a.svc.Report(d.ID)
				if err != nil {
					return err
				}
				if err := renderer.Render(cmd.OutOrStdout(), report); err != nil {
					return fmt.Errorf("rendering: %w", err)
				}
				return nil
			})
		},
	}
}

func newRankCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "rank <deliberation>",
		Short: "Print contenders from best to worst",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), g, func(a *app) error {
				d, err := a.resolve(args[0])
				if err != nil {
					return err
				}
				standings := d.Ranking()
				if g.output == "json" {
					return writeJSON(cmd.OutOrStdout(), standings)
				}
				for i, s := range standings {
					fmt.Fprintf(cmd.OutOrStdout(), "%d. %s - %.1f\n", i+1, s.Contender.Name, s.Valuation)
				}
				return nil
			})
		},
	}
}

func newShareCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "share <deliberation>",
		Short: "Print a plain-text summary to paste elsewhere",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), g, func(a *app) error {
				d, err := a.resolve(args[0])
				if err != nil {
					return err
				}
				report, err := a.svc.Report(d.ID)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), surface.ShareText(report))
				return nil
			})
		},
	}
}

func newDeleteCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <deliberation>",
		Aliases: []string{"rm"},
		Short:   "Delete a deliberation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), g, func(a *app) error {
				d, err := a.resolve(args[0])
				if err != nil {
					return err
				}
				if err := a.svc.Delete(cmd.Context(), d.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", d.Name)
				return nil
			})
		},
	}
}

func newClearCmd(g *globalOpts) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every deliberation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear the archive without --yes")
			}
			return withApp(cmd.Context(), g, func(a *app) error {
				n := len(a.svc.List())
				if err := a.svc.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d deliberations\n", n)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm clearing the archive")
	return cmd
}

func newStatsCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), g, func(a *app) error {
				stats := a.svc.Stats()
				if g.output == "json" {
					return writeJSON(cmd.OutOrStdout(), stats)
				}
				window := a.svc.Engine().Options().RecentWindow
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Deliberations:         %d\n", stats.Total)
				fmt.Fprintf(out, "Recent (%.0f days):      %d\n", window.Hours()/24, stats.Recent)
				fmt.Fprintf(out, "Decided:               %d\n", stats.Decided)
				fmt.Fprintf(out, "Average winning score: %.1f\n", stats.AverageWinningScore)
				return nil
			})
		},
	}
}

func newTemplatesCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List templates for 'deliberate new --template'",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			// Listing templates needs no archive.
			list := catalog.New(archive.NewMemoryStore(), catalog.ConfigOptions(cfg)...).Templates()

			if g.output == "json" {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tNAME\tCRITERIA\tCONTENDERS")
			for _, t := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Key, t.Name, strings.Join(t.Criteria, ", "), strings.Join(t.Contenders, ", "))
			}
			return tw.Flush()
		},
	}
}

func newPickCmd() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "pick <options>",
		Short: "Pick one of a comma-separated list at random",
		Long:  `For quick calls that need no scoring. Nothing is saved.`,
		Example: `  deliberate pick "pizza, sushi, tacos"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options := decision.SplitOptions(strings.Join(args, ","))
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			choice, ok := decision.PickRandom(options, rand.New(rand.NewPCG(seed, seed>>1)))
			if !ok {
				return errors.New("no options given")
			}
			fmt.Fprintln(cmd.OutOrStdout(), choice)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (default: time-based)")
	return cmd
}

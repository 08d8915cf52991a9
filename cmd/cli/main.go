package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/fairsched/internal/config"
	"github.com/jakechorley/fairsched/pkg/core/circle"
	"github.com/jakechorley/fairsched/pkg/core/fairness"
	"github.com/jakechorley/fairsched/pkg/core/hapsearch"
	"github.com/jakechorley/fairsched/pkg/core/optimizer"
	"github.com/jakechorley/fairsched/pkg/core/srr"
	"github.com/jakechorley/fairsched/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg    *config.Config
	logger *zap.Logger
}

var (
	env     string
	cfgPath string
	app     *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fairsched",
		Short: "Fairsched CLI - Design and evaluate fair single round-robin schedules",
		Long: `A CLI tool for designing fair single round-robin schedules: break-pattern
catalogs, interval-deviation fairness (F-values), a circle-method baseline,
and MIP-based schedule optimization.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "dev", "Environment name used to prefix log files")
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Path to the instance file (default: fairsched.yaml in cwd or home)")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(optimizeCmd())
	rootCmd.AddCommand(searchHapsCmd())
	rootCmd.AddCommand(evaluateCmd())
	rootCmd.AddCommand(patternsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up the logger and loads the instance file when one is
// available; commands that need an instance fail with a clear error later.
func initApp() error {
	var err error
	app = &App{}

	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if cfgPath != "" {
		app.cfg, err = config.LoadFromPath(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	}

	if cfg, err := config.Load(); err == nil {
		app.cfg = cfg
	} else {
		app.logger.Debug("no instance file loaded", zap.Error(err))
	}

	return nil
}

func (a *App) requireConfig() (*config.Config, error) {
	if a.cfg == nil {
		return nil, fmt.Errorf("no instance file found; pass --config or create fairsched.yaml")
	}
	return a.cfg, nil
}

// newDomain builds the schedule domain from the instance file.
func (a *App) newDomain() (*srr.Domain, error) {
	cfg, err := a.requireConfig()
	if err != nil {
		return nil, err
	}
	return srr.New(cfg.Teams, cfg.BreakGaps)
}

// Command definitions

func generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate a baseline schedule with the circle method",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.requireConfig()
			if err != nil {
				return err
			}

			rounds, err := circle.CircleMethod(cfg.Teams)
			if err != nil {
				return err
			}
			app.logger.Info("generated circle-method schedule", zap.Int("teams", cfg.Teams))

			dates, err := cfg.ExpandRoundDates(len(rounds))
			if err != nil {
				return err
			}

			printRounds(rounds, dates)
			return nil
		},
	}
}

func optimizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize",
		Short: "Solve the fairness optimization model for the configured instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.requireConfig()
			if err != nil {
				return err
			}

			domain, err := app.newDomain()
			if err != nil {
				return err
			}

			mode, err := optimizer.ParseMode(cfg.Mode)
			if err != nil {
				return err
			}

			model, err := optimizer.New(optimizer.Config{
				Domain:      domain,
				RankingHaps: cfg.RankingHaps,
				Mode:        mode,
				TimeLimit:   cfg.TimeLimitDuration(),
				Logger:      app.logger,
			})
			if err != nil {
				return err
			}

			sol, err := model.Optimize()
			if err != nil {
				return err
			}

			fmt.Printf("\nRun %s finished: %s\n", sol.RunID, sol.Status)
			if !sol.Status.Solved() {
				return nil
			}

			dates, err := cfg.ExpandRoundDates(len(sol.Rounds))
			if err != nil {
				return err
			}

			fmt.Printf("Objective: %g\n\n", sol.Objective)
			printRounds(sol.Rounds, dates)
			printCrosstable(domain, sol)
			printBreakTable(domain, sol)
			printRankingHaps(sol)
			return nil
		},
	}
}

func searchHapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search-haps",
		Short: "Enumerate minimal-F ranking-HAP catalogs for the configured instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.requireConfig()
			if err != nil {
				return err
			}

			model, err := hapsearch.New(hapsearch.Config{
				N:           cfg.Teams,
				TargetF:     cfg.TargetF,
				TargetCount: cfg.TargetCount,
				Tolerance:   cfg.Tolerance,
				TimeLimit:   cfg.TimeLimitDuration(),
				Logger:      app.logger,
			})
			if err != nil {
				return err
			}

			res, err := model.Search()
			if err != nil {
				return err
			}

			fmt.Printf("\nSearch finished: %s\n", res.Status)
			if len(res.Assignments) == 0 {
				return nil
			}

			fmt.Printf("Minimal mean F-value: %.17g\n", res.MeanFValue)
			for k, assignment := range res.Assignments {
				fmt.Printf("\nAssignment %d:\n", k+1)
				for i, hap := range assignment {
					fmt.Printf("  %2d: %s -> %.17g\n", i+1, hap, hap.FValue())
				}
			}
			return nil
		},
	}
}

func evaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate [hap...]",
		Short: "Compute F-values for home/away strings (defaults to the configured catalog)",
		RunE: func(cmd *cobra.Command, args []string) error {
			haps := args
			if len(haps) == 0 {
				cfg, err := app.requireConfig()
				if err != nil {
					return err
				}
				haps = cfg.RankingHaps
			}
			if len(haps) == 0 {
				return fmt.Errorf("no home/away strings given and none configured")
			}

			total := 0.0
			for i, s := range haps {
				hap, err := fairness.Parse(s)
				if err != nil {
					return fmt.Errorf("hap %d: %w", i+1, err)
				}
				f := hap.FValue()
				total += f
				fmt.Printf("%2d: %s -> %.17g\n", i+1, hap, f)
			}
			fmt.Printf("Mean F-value: %.17g\n", total/float64(len(haps)))
			return nil
		},
	}
}

func patternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "Print the break-pattern catalog and the tight-order assignment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			domain, err := app.newDomain()
			if err != nil {
				return err
			}

			fmt.Println("========= Break-pattern catalog =========")
			for _, p := range domain.BreakPatterns() {
				fmt.Printf("%c %2d: %s\n", p.Letter, p.Round+1, markedPattern(domain, p))
			}

			tight, err := domain.TightOrderBreakPatterns()
			if err != nil {
				app.logger.Info("tight-order assignment unavailable", zap.Error(err))
				return nil
			}

			fmt.Println("\n========= Tight-order assignment =========")
			for i, p := range tight {
				fmt.Printf("%2d: %c %2d: %s\n", i+1, p.Letter, p.Round+1, markedPattern(domain, p))
			}
			return nil
		},
	}
}

// Report formatting

func markedPattern(domain *srr.Domain, p srr.BreakPattern) string {
	var b strings.Builder
	for i, letter := range domain.Pattern(p) {
		if srr.Round(i) == p.Round {
			b.WriteByte('-')
		} else {
			b.WriteByte(' ')
		}
		b.WriteRune(letter)
	}
	return b.String()
}

func printRounds(rounds [][]srr.Match, dates []time.Time) {
	fmt.Println("========= Rounds =========")
	for r, matches := range rounds {
		fmt.Printf("R %2d:", r+1)
		for _, m := range matches {
			fmt.Printf(" %2d-%-2d", m.Home+1, m.Away+1)
		}
		if dates != nil {
			fmt.Printf("  (%s)", dates[r].Format("2006-01-02"))
		}
		fmt.Println()
	}
	fmt.Println()
}

func printCrosstable(domain *srr.Domain, sol *optimizer.Solution) {
	fmt.Println("========= Crosstable =========")
	teams := domain.Teams()

	fmt.Print("   ")
	for _, j := range teams {
		fmt.Printf(" %3d", j+1)
	}
	fmt.Println()

	for _, i := range teams {
		fmt.Printf("%2d:", i+1)
		for _, j := range teams {
			if i == j {
				fmt.Print(" ---")
				continue
			}
			ha := byte(srr.Away)
			if sol.PlaysHomeAgainst(i, j) {
				ha = byte(srr.Home)
			}
			r, _ := sol.MeetingRound(i, j)
			fmt.Printf(" %2d%c", r+1, ha)
		}
		fmt.Println()
	}
	fmt.Println()
}

func printBreakTable(domain *srr.Domain, sol *optimizer.Solution) {
	fmt.Println("========= Break assignment =========")
	for _, letter := range []srr.Letter{srr.Home, srr.Away} {
		for _, p := range domain.BreakPatterns() {
			if p.Letter != letter {
				continue
			}
			fmt.Printf("%c %2d: %s", p.Letter, p.Round+1, markedPattern(domain, p))
			for _, i := range domain.Teams() {
				if sol.BreakAssignments[i] == p {
					fmt.Printf(" -> %2d", i+1)
				}
			}
			fmt.Println()
		}
	}
	fmt.Println()
}

func printRankingHaps(sol *optimizer.Solution) {
	fmt.Println("========= Ranking HAPs =========")
	for i, hap := range sol.RankingHaps {
		fmt.Printf("%2d: %s -> %.17g\n", i+1, hap, sol.FValues[i])
	}
	fmt.Printf("Mean F-value: %.17g\n", sol.MeanFValue())
}

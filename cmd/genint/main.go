package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/they4kman/integer-evolution/genint"
)

var (
	solveParams = genint.DefaultParams()

	solveTarget   float64
	solveMaximize bool
	solveConfig   string
	solvePlot     string
	solveVerbose  bool

	inspectValue int32

	rootCmd = &cobra.Command{
		Use:   "genint",
		Short: "Search 32-bit integers with a genetic algorithm",
	}

	solveCmd = &cobra.Command{
		Use:   "solve <expression>",
		Short: "Evolve an integer x that drives an expression to a target value",
		Long: `Evolves a population of 32-gene binary-encoded integers until the
expression, evaluated with x bound to each candidate, reaches the target.

Examples:
  genint solve "x * x" --target 1764
  genint solve "(x - 3) * (x + 5)" --target 0 --plot run.png
  genint solve "0 - (x - 40) * (x - 40)" --maximize --generations 200`,
		Args: cobra.ExactArgs(1),
		Run:  runSolve,
	}

	inspectCmd = &cobra.Command{
		Use:   "inspect",
		Short: "Show the gene encoding of an integer",
		Run:   runInspect,
	}

	paramsCmd = &cobra.Command{
		Use:   "params",
		Short: "Print the default run parameters as YAML",
		Run:   runParams,
	}
)

func init() {
	flags := solveCmd.Flags()
	flags.Int32Var(&solveParams.MinValue, "min", solveParams.MinValue,
		"Inclusive lower bound of the initial sampling range")
	flags.Int32Var(&solveParams.MaxValue, "max", solveParams.MaxValue,
		"Inclusive upper bound of the initial sampling range")
	flags.IntVar(&solveParams.PopulationSize, "population", solveParams.PopulationSize,
		"Number of chromosomes in each generation")
	flags.IntVar(&solveParams.MaxGenerations, "generations", solveParams.MaxGenerations,
		"Hard generation budget for the run")
	flags.Float64Var(&solveParams.CrossoverRate, "crossover-rate", solveParams.CrossoverRate,
		"Rate at which a selected pair swaps genes above a random fulcrum")
	flags.Float64Var(&solveParams.MutationRate, "mutation-rate", solveParams.MutationRate,
		"Per-bit flip probability applied to every offspring")
	flags.StringVar(&solveParams.Selection, "selection", solveParams.Selection,
		`Pairing strategy, "roulette" or "tournament"`)
	flags.Int64Var(&solveParams.Seed, "seed", solveParams.Seed,
		"Seed for the run's random stream (0 seeds from the clock)")

	flags.Float64Var(&solveTarget, "target", 0,
		"Value the expression should evaluate to")
	flags.BoolVar(&solveMaximize, "maximize", false,
		"Maximize the expression instead of matching a target (disables the solved check)")
	flags.StringVar(&solveConfig, "config", "",
		"YAML params file; explicit flags still win")
	flags.StringVar(&solvePlot, "plot", "",
		"Write a PNG convergence chart to this path")
	flags.BoolVar(&solveVerbose, "verbose", false,
		"Print per-generation statistics instead of a progress bar")

	inspectCmd.Flags().Int32Var(&inspectValue, "value", 0,
		"Integer to encode")

	rootCmd.AddCommand(solveCmd, inspectCmd, paramsCmd)
}

func runSolve(cmd *cobra.Command, args []string) {
	params := solveParams
	if solveConfig != "" {
		loaded, err := genint.LoadParams(solveConfig)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}

		// Flags set on the command line beat the config file.
		cmd.Flags().Visit(func(f *pflag.Flag) {
			switch f.Name {
			case "min":
				loaded.MinValue = solveParams.MinValue
			case "max":
				loaded.MaxValue = solveParams.MaxValue
			case "population":
				loaded.PopulationSize = solveParams.PopulationSize
			case "generations":
				loaded.MaxGenerations = solveParams.MaxGenerations
			case "crossover-rate":
				loaded.CrossoverRate = solveParams.CrossoverRate
			case "mutation-rate":
				loaded.MutationRate = solveParams.MutationRate
			case "selection":
				loaded.Selection = solveParams.Selection
			case "seed":
				loaded.Seed = solveParams.Seed
			}
		})
		params = loaded
	}

	fn, err := genint.ExprFitness(args[0])
	if err != nil {
		log.Fatalf("bad expression: %v", err)
	}
	if solveMaximize {
		params.TargetFitness = 0
	} else {
		fn = genint.TargetFitness(fn, solveTarget, params.ImperfectMaxScore)
	}

	sim, err := genint.NewSimulation(params, fn)
	if err != nil {
		log.Fatalf("starting run: %v", err)
	}

	var onGen func(genint.GenerationStats)
	if solveVerbose {
		onGen = func(stats genint.GenerationStats) {
			if stats.Generation%10 == 0 {
				fmt.Printf("gen %4d  best=%.6f  mean=%.6f  distinct=%d  prefix=%d\n",
					stats.Generation, stats.Best, stats.Mean, stats.Distinct, stats.CommonPrefix)
			}
		}
	} else {
		bar := progressbar.Default(int64(params.MaxGenerations), "evolving")
		onGen = func(genint.GenerationStats) {
			bar.Add(1)
		}
	}

	res, runErr := sim.Run(cmd.Context(), onGen)
	if !solveVerbose {
		fmt.Println()
	}

	printResult(res)
	if solvePlot != "" {
		writePlot(solvePlot, sim.History())
	}
	if runErr != nil {
		log.Fatalf("run interrupted: %v", runErr)
	}
}

func printResult(res *genint.Result) {
	status := "stopped"
	if res.Solved {
		status = "solved"
	}
	fmt.Printf("run %s: %s after %d generations (%s)\n",
		res.RunID, status, res.Generations, res.Elapsed.Round(time.Millisecond))
	if res.Best != nil {
		fmt.Printf("  x       = %d\n", res.BestValue)
		fmt.Printf("  genome  = %s\n", res.Best)
		fmt.Printf("  fitness = %.6f\n", res.BestFitness)
	}
}

func writePlot(path string, history []genint.GenerationStats) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("creating plot: %v", err)
	}
	defer f.Close()

	if err := genint.WriteChart(f, history); err != nil {
		log.Fatalf("writing plot: %v", err)
	}
	fmt.Printf("wrote %s\n", path)
}

func runInspect(cmd *cobra.Command, args []string) {
	c := genint.New(inspectValue, inspectValue, nil)

	var ones []int
	for i, g := range c.Genes() {
		if g == genint.One {
			ones = append(ones, i)
		}
	}

	fmt.Printf("value:  %d\n", c.ToInteger())
	fmt.Printf("genome: %s\n", c)
	fmt.Printf("ones:   %v (gene indexes, least significant first)\n", ones)
}

func runParams(cmd *cobra.Command, args []string) {
	out, err := genint.EncodeParams(genint.DefaultParams())
	if err != nil {
		log.Fatalf("encoding params: %v", err)
	}
	fmt.Print(string(out))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

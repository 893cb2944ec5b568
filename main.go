/*
 * mars - Command-line MARS runner.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// mars loads one or more Redcode source files, assembles them and runs them
// against each other in a MARS. Command-line parsing and file I/O live here,
// never in the library packages: the simulator and assembler are pure and
// take warriors/options in, events/results out.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/go-mars/mars/assembler"
	"github.com/go-mars/mars/config"
	"github.com/go-mars/mars/internal/obslog"
	"github.com/go-mars/mars/redcode"
	"github.com/go-mars/mars/simulator"
)

func main() {
	optRounds := getopt.StringLong("rounds", 'r', "1", "Rounds to play")
	optCoreSize := getopt.StringLong("coresize", 'c', "8000", "Core size")
	optMaxCycles := getopt.StringLong("cycles", 'C', "80000", "Max cycles per warrior")
	optMaxLength := getopt.StringLong("length", 'm', "100", "Max warrior length")
	optMaxProcesses := getopt.StringLong("processes", 'p', "8000", "Max tasks per warrior")
	optMinSeparation := getopt.StringLong("separation", 's', "100", "Minimum warrior separation")
	optSeed := getopt.StringLong("seed", 'S', "0", "RNG seed (0 = derive from warrior checksum)")
	optFixedSeries := getopt.BoolLong("fixed", 'F', "Reuse the checksum-derived seed every round")
	optLogFile := getopt.StringLong("log", 'L', "", "Log file")
	optDump := getopt.BoolLong("dump", 'd', "Dump core after the last round")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logSink *os.File
	if *optLogFile != "" {
		f, err := os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "mars: can't create log file:", err)
			os.Exit(1)
		}
		logSink = f
	}
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	logger := slog.New(obslog.NewHandler(logSink, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	files := getopt.Args()
	if len(files) < 1 {
		fmt.Fprintln(os.Stderr, "mars: at least one warrior source file is required")
		getopt.Usage()
		os.Exit(1)
	}

	opts := config.Defaults()
	opts.CoreSize = atoiOr(*optCoreSize, opts.CoreSize)
	opts.MaxCycles = atoiOr(*optMaxCycles, opts.MaxCycles)
	opts.MaxLength = atoiOr(*optMaxLength, opts.MaxLength)
	opts.MaxProcesses = atoiOr(*optMaxProcesses, opts.MaxProcesses)
	opts.MinSeparation = atoiOr(*optMinSeparation, opts.MinSeparation)
	opts.Rounds = atoiOr(*optRounds, opts.Rounds)
	opts.Warriors = len(files)
	opts.FixedSeries = *optFixedSeries
	if seed := int64(atoiOr(*optSeed, 0)); seed != 0 {
		opts.Seed = &seed
	}

	logger.Info("mars started", "warriors", len(files), "rounds", opts.Rounds)

	warriors, err := loadWarriors(files, opts)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	sim := simulator.New(opts)
	if err := sim.LoadWarriors(warriors); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results := runRounds(ctx, sim, opts.Rounds, logger)

	if *optDump {
		printCoreDump(sim)
	}
	printResults(results, files)
	printScoreTable(sim)
}

func atoiOr(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

// loadWarriors reads and assembles each source file in order. Every
// assembler message is logged at Debug level, below the Info level main
// sets, so none is shown by default; the first assembly error aborts the whole run,
// mirroring the assembler's own single-warrior Result contract.
func loadWarriors(files []string, opts config.Options) ([]*redcode.WarriorData, error) {
	warriors := make([]*redcode.WarriorData, 0, len(files))
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("mars: reading %s: %w", path, err)
		}
		res := assembler.Assemble(string(src), opts)
		for _, m := range res.Messages {
			slog.Debug("assembler message", "file", path, "line", m.Line, "severity", m.Severity.String(), "text", m.Text)
		}
		if !res.Success {
			return nil, fmt.Errorf("mars: %s failed to assemble", path)
		}
		warriors = append(warriors, res.Warrior)
	}
	return warriors, nil
}

// runRounds plays up to `rounds` rounds, stopping early (without error) if
// ctx is cancelled by a SIGINT/SIGTERM between rounds.
func runRounds(ctx context.Context, sim *simulator.Simulator, rounds int, logger *slog.Logger) []simulator.RoundResult {
	if rounds <= 0 {
		rounds = 1
	}
	results := make([]simulator.RoundResult, 0, rounds)
	for r := 0; r < rounds; r++ {
		select {
		case <-ctx.Done():
			logger.Info("shutting down early", "roundsPlayed", r)
			return results
		default:
		}
		sim.SetupRound()
		for {
			if res := sim.Step(); res != nil {
				results = append(results, *res)
				logger.Info("round complete", "round", r+1, "outcome", res.Outcome.String())
				break
			}
		}
	}
	return results
}

func printCoreDump(sim *simulator.Simulator) {
	core := sim.GetCore()
	fmt.Print(redcode.DumpCore(core.Get, 0, core.Size()))
}

func printResults(results []simulator.RoundResult, files []string) {
	for i, r := range results {
		switch {
		case r.Outcome == simulator.OutcomeWin && r.WinnerID != nil:
			name := fmt.Sprintf("warrior %d", *r.WinnerID)
			if *r.WinnerID < len(files) {
				name = files[*r.WinnerID]
			}
			fmt.Printf("round %d: %s wins\n", i+1, name)
		default:
			fmt.Printf("round %d: tie\n", i+1)
		}
	}
}

// printScoreTable reports the engine's raw placement-indexed score array
// (see Simulator.Scores): a per-warrior breakdown needs the per-round
// RoundResult sequence, which printResults already uses.
func printScoreTable(sim *simulator.Simulator) {
	scores := sim.Scores()
	parts := make([]string, len(scores))
	for i, v := range scores {
		parts[i] = strconv.Itoa(v)
	}
	fmt.Println("placement scores:", strings.Join(parts, " "))
}

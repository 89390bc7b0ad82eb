// Package main is a demo driver for pkg/aggregate: it generates synthetic
// grouped rows, runs them through an AggregateNode across a configurable
// number of threads, and reports the group count and wall time. The
// library itself takes no CLI or config input; this command exists only
// to exercise it from the outside.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/axon-data/hashagg/pkg/aggregate"
	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
	"github.com/axon-data/hashagg/pkg/util"
)

type benchConfig struct {
	NumGroups int
	NumRows   int
	BatchSize int
	Threads   int
}

var benchCfg benchConfig

var RootCmd = &cobra.Command{
	Use:          "bench",
	Short:        "grouped hash-aggregation benchmark driver",
	Long:         "bench drives pkg/aggregate with synthetic data and reports throughput",
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		runBench()
	},
}

func init() {
	cobra.OnInitialize(loadConfig)

	RootCmd.Flags().IntVar(&benchCfg.NumGroups, "num_groups", 1000, "distinct group keys to generate")
	RootCmd.Flags().IntVar(&benchCfg.NumRows, "num_rows", 1_000_000, "total rows to generate")
	RootCmd.Flags().IntVar(&benchCfg.BatchSize, "batch_size", 2048, "rows per OnInput batch")
	RootCmd.Flags().IntVar(&benchCfg.Threads, "threads", 4, "concurrent producer threads")

	viper.BindPFlag("bench.numGroups", RootCmd.Flags().Lookup("num_groups"))
	viper.BindPFlag("bench.numRows", RootCmd.Flags().Lookup("num_rows"))
	viper.BindPFlag("bench.batchSize", RootCmd.Flags().Lookup("batch_size"))
	viper.BindPFlag("bench.threads", RootCmd.Flags().Lookup("threads"))
}

var defCfgFilePaths = []string{".", "etc/bench"}
var cfgFileName = "bench.toml"

// loadConfig looks for bench.toml along defCfgFilePaths and, if found,
// lets it override the flag defaults through viper's bound keys. Unlike
// a server command, a missing config file is not fatal here: the flag
// defaults above are a complete configuration on their own.
func loadConfig() {
	for _, dirPath := range defCfgFilePaths {
		fpath := filepath.Join(dirPath, cfgFileName)
		if util.FileIsValid(fpath) {
			viper.SetConfigFile(fpath)
			if err := viper.ReadInConfig(); err != nil {
				fmt.Fprintf(os.Stderr, "bench: failed to read config %s: %v\n", fpath, err)
				continue
			}
			return
		}
	}
}

func applyViperOverrides() {
	if viper.IsSet("bench.numGroups") {
		benchCfg.NumGroups = viper.GetInt("bench.numGroups")
	}
	if viper.IsSet("bench.numRows") {
		benchCfg.NumRows = viper.GetInt("bench.numRows")
	}
	if viper.IsSet("bench.batchSize") {
		benchCfg.BatchSize = viper.GetInt("bench.batchSize")
	}
	if viper.IsSet("bench.threads") {
		benchCfg.Threads = viper.GetInt("bench.threads")
	}
}

func runBench() {
	applyViperOverrides()

	log, _ := zap.NewProduction()
	defer log.Sync()

	ctx := aggregate.NewExecContext(benchCfg.Threads, log)

	keyTypes := []common.LType{common.IntegerType()}
	sumSpec, err := aggregate.NewAggregateSpec("hash_sum", 0, common.DoubleType(), aggregate.DefaultOptions())
	if err != nil {
		fmt.Fprintln(os.Stderr, "bench:", err)
		os.Exit(1)
	}
	countSpec, err := aggregate.NewAggregateSpec("hash_count", 0, common.DoubleType(), aggregate.DefaultOptions())
	if err != nil {
		fmt.Fprintln(os.Stderr, "bench:", err)
		os.Exit(1)
	}
	specs := []aggregate.AggregateSpec{sumSpec, countSpec}

	node, err := aggregate.NewAggregateNode(ctx, keyTypes, []int{0}, specs, benchCfg.Threads)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bench:", err)
		os.Exit(1)
	}
	if err := node.Start(); err != nil {
		fmt.Fprintln(os.Stderr, "bench:", err)
		os.Exit(1)
	}

	rowsPerThread := benchCfg.NumRows / benchCfg.Threads
	start := time.Now()

	tasks := make([]func() error, benchCfg.Threads)
	for t := 0; t < benchCfg.Threads; t++ {
		t := t
		tasks[t] = func() error {
			return produce(node, t, rowsPerThread, benchCfg.NumGroups, benchCfg.BatchSize)
		}
	}
	if err := ctx.Pool.Run(tasks); err != nil {
		fmt.Fprintln(os.Stderr, "bench:", err)
		os.Exit(1)
	}

	groupCount := 0
	if err := node.Finalize(func(out *chunk.Chunk) error {
		groupCount += out.Card()
		return nil
	}); err != nil {
		fmt.Fprintln(os.Stderr, "bench:", err)
		os.Exit(1)
	}

	elapsed := time.Since(start)
	fmt.Printf("rows=%d groups=%d threads=%d elapsed=%s rows/sec=%.0f\n",
		benchCfg.NumRows, groupCount, benchCfg.Threads, elapsed, float64(benchCfg.NumRows)/elapsed.Seconds())
}

// produce feeds rowsTotal synthetic rows into one thread's partition in
// batches of batchSize, each row's key drawn uniformly from [0, numGroups).
func produce(node *aggregate.AggregateNode, threadIdx, rowsTotal, numGroups, batchSize int) error {
	rng := rand.New(rand.NewSource(int64(threadIdx) + 1))
	remaining := rowsTotal
	for remaining > 0 {
		n := batchSize
		if n > remaining {
			n = remaining
		}
		keyVec := chunk.NewFlatVector(common.IntegerType(), n)
		valVec := chunk.NewFlatVector(common.DoubleType(), n)
		for i := 0; i < n; i++ {
			keyVec.SetValueTyped(i, chunk.Value{Typ: common.IntegerType(), I64: int64(rng.Intn(numGroups))})
			valVec.SetValueTyped(i, chunk.Value{Typ: common.DoubleType(), F64: rng.Float64() * 100})
		}
		if err := node.OnInput(threadIdx, []*chunk.Vector{keyVec}, []*chunk.Vector{valVec}, n); err != nil {
			return err
		}
		remaining -= n
	}
	return node.OnInputTotal(int64(rowsTotal))
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"git.solver4all.com/azaryc2s/plfmip"
	"git.solver4all.com/azaryc2s/plfmip/mip"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Relative optimality gap of every benchmark solve.
const epsilon = mip.DefaultGap

var ratioColumns = [4]string{"solverTime", "lpTime", "envelopeTime", "plfTime"}

// Config drives one experiment run. Flags fill it; an optional YAML file
// with the same fields takes precedence.
type Config struct {
	Input     string   `yaml:"input"`
	Output    string   `yaml:"output"`
	Solver    string   `yaml:"solver"`
	TimeLimit float64  `yaml:"timelimit"`
	K         []int    `yaml:"k"`
	Methods   []string `yaml:"methods"`
}

var (
	inputF  = flag.String("input", ".", "Directory containing the problem_info_K=<K>.csv batches")
	outputF = flag.String("output", "results", "Directory for the timing tables")
	solverF = flag.String("solver", "highs", "MIP backend: highs or gurobi")
	limitF  = flag.Float64("timelimit", 1800, "Wall-clock time limit per solve in seconds")
	configF = flag.String("config", "", "Optional YAML config file; fields mirror the flags")

	kFlags      plfmip.ArrayIntFlags
	methodFlags plfmip.ArrayStringFlags
)

func main() {
	flag.Var(&kFlags, "K", "Batch size to sweep, repeatable; default 10,100,500,1000,5000,10000")
	flag.Var(&methodFlags, "method", "Encoding method to benchmark, repeatable; default all four")
	flag.Parse()

	cfg := Config{
		Input:     *inputF,
		Output:    *outputF,
		Solver:    *solverF,
		TimeLimit: *limitF,
		K:         kFlags,
		Methods:   methodFlags,
	}
	if *configF != "" {
		raw, err := os.ReadFile(*configF)
		if err != nil {
			log.Fatalf("At %s: %s", *configF, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Fatalf("At %s: %s", *configF, err)
		}
	}
	if len(cfg.K) == 0 {
		cfg.K = []int{10, 100, 500, 1000, 5000, 10000}
	}

	methods := plfmip.DefaultMethods
	if len(cfg.Methods) > 0 {
		methods = make([]plfmip.Method, 0, len(cfg.Methods))
		for _, s := range cfg.Methods {
			mth, err := plfmip.ParseMethod(s)
			if err != nil {
				log.Fatalf("%s", err)
			}
			if mth == plfmip.MethodSBB {
				log.Fatalf("sBB is the external baseline; its column comes verbatim from the input tables")
			}
			methods = append(methods, mth)
		}
	}

	if err := os.MkdirAll(cfg.Output, 0755); err != nil {
		log.Fatalf("At %s: %s", cfg.Output, err)
	}

	backend, err := mip.NewBackend(cfg.Solver)
	if err != nil {
		log.Fatalf("%s", err)
	}
	defer backend.Close()

	// One throwaway solve before anything is measured, so that solver
	// initialization cost never lands in a timing column.
	log.Infof("Warming up %s solver...", backend.Name())
	if err := mip.Warmup(backend); err != nil {
		log.Fatalf("%s", err)
	}

	info := plfmip.RunInfo{
		Solver:    backend.Name(),
		TimeLimit: cfg.TimeLimit,
		Gap:       epsilon,
		K:         cfg.K,
		Methods:   methods,
		Instances: make(map[int]int),
		System:    sysInfo(),
	}

	startTime := time.Now()
	for _, K := range cfg.K {
		count, err := runBatch(backend, cfg, methods, K)
		if err != nil {
			log.Fatalf("K=%d: %s", K, err)
		}
		info.Instances[K] = count
		log.Infof("K=%d done: %d instances", K, count)
	}
	info.Time = time.Since(startTime).String()

	raw, err := json.MarshalIndent(info, "", "\t")
	if err != nil {
		log.Fatalf("%s", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.Output, "run_info.json"), raw, 0644); err != nil {
		log.Fatalf("%s", err)
	}
	log.Info("Computations are done.")
}

// runBatch solves every instance of one batch with every method, in table
// order, and writes the two timing tables for that K.
func runBatch(backend mip.Backend, cfg Config, methods []plfmip.Method, K int) (int, error) {
	path := filepath.Join(cfg.Input, fmt.Sprintf("problem_info_K=%d.csv", K))
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	cols := []string{string(plfmip.MethodSBB)}
	for _, mth := range methods {
		cols = append(cols, string(mth))
	}
	times := plfmip.NewTimingTable(cols...)
	ratios := plfmip.NewTimingTable(ratioColumns[:]...)

	br := plfmip.NewBatchReader(f)
	count := 0
	for {
		inst, err := br.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}
		count++

		// Baseline column is the precomputed sBB time, verbatim.
		if err := times.Append(string(plfmip.MethodSBB), inst.Baseline.Total); err != nil {
			return count, err
		}
		rv := inst.Baseline.Ratios()
		for i, name := range ratioColumns {
			if err := ratios.Append(name, rv[i]); err != nil {
				return count, err
			}
		}

		for _, mth := range methods {
			start := time.Now()
			model, err := mip.BuildInstanceModel(inst, mth)
			if err != nil {
				return count, fmt.Errorf("instance %d: %w", count, err)
			}
			res, err := backend.Solve(model, cfg.TimeLimit, epsilon)
			if err != nil {
				return count, fmt.Errorf("instance %d: %w", count, err)
			}
			elapsed := time.Since(start).Seconds()

			if res.Feasible {
				log.Infof("K=%d instance=%d method=%s lb=%.6g ub=%.6g time=%.2fs",
					K, count, mth, res.Bound, res.Value, elapsed)
			} else {
				log.Warnf("K=%d instance=%d method=%s no incumbent, lb=%.6g time=%.2fs",
					K, count, mth, res.Bound, elapsed)
			}
			if err := times.Append(string(mth), elapsed); err != nil {
				return count, err
			}
		}
	}

	if err := writeTable(filepath.Join(cfg.Output, fmt.Sprintf("%d.csv", K)), times); err != nil {
		return count, err
	}
	if err := writeTable(filepath.Join(cfg.Output, fmt.Sprintf("%d_ratios.csv", K)), ratios); err != nil {
		return count, err
	}
	return count, nil
}

func writeTable(path string, t *plfmip.TimingTable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func sysInfo() plfmip.SysInfo {
	si := plfmip.SysInfo{}
	if hostStat, err := host.Info(); err == nil {
		si.Platform = hostStat.Platform
	}
	if cpuStat, err := cpu.Info(); err == nil && len(cpuStat) > 0 {
		si.CPU = cpuStat[0].ModelName
	}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		si.RAM = fmt.Sprintf("%d GB", vmStat.Total/1024/1024/1024)
	}
	return si
}

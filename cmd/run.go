package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/disketch/disketch/internal/appconfig"
	"github.com/disketch/disketch/internal/coordinator"
	"github.com/disketch/disketch/internal/diconfig"
	"github.com/disketch/disketch/internal/flowkey"
	"github.com/disketch/disketch/internal/fragment"
	applog "github.com/disketch/disketch/internal/log"
	"github.com/disketch/disketch/internal/metrics"
	"github.com/disketch/disketch/internal/pcapsource"
	"github.com/disketch/disketch/internal/report"
	"github.com/disketch/disketch/internal/topology"
)

var (
	runSimConfig   string
	runOutPath     string
	runOutFormat   string
	runMetricsAddr string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation and report heavy-hitter detection accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg, err := bootstrap()
		if err != nil {
			return err
		}
		return runSimulation(cmd.Context(), appCfg)
	},
}

func init() {
	runCmd.Flags().StringVarP(&runSimConfig, "config", "c", "", "simulation INI config (required)")
	runCmd.Flags().StringVarP(&runOutPath, "out", "o", "", "report output path (default stdout)")
	runCmd.Flags().StringVar(&runOutFormat, "format", "", "report format: csv|json (default from ambient config)")
	runCmd.Flags().StringVar(&runMetricsAddr, "metrics-addr", "", "expose Prometheus metrics at this address while running")
	runCmd.MarkFlagRequired("config")
}

func runSimulation(ctx context.Context, appCfg *appconfig.AppConfig) error {
	log := applog.GetLogger()

	simCfg, err := diconfig.Load(runSimConfig)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	topo, err := buildTopology(simCfg)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	log.WithField("path", simCfg.PcapPath).Info("loading packet capture")
	packets, err := pcapsource.Load(simCfg.PcapPath)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	log.WithField("packets", len(packets)).Info("loaded packet capture")

	metricsAddr := runMetricsAddr
	if metricsAddr == "" && appCfg.Metrics.Enabled {
		metricsAddr = appCfg.Metrics.Listen
	}
	if metricsAddr != "" {
		srv := metrics.NewServer(metricsAddr, appCfg.Metrics.Path)
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("run: starting metrics server: %w", err)
		}
		defer srv.Stop(ctx)
	}

	coordCfg := coordinator.Config{
		MaxEpochs:        simCfg.MaxEpochs,
		FullSketchDepth:  simCfg.FullSketchDepth,
		FullSketchMemory: simCfg.FullSketchMemory,
		HeavyHitterRatio: simCfg.HeavyHitterRatio,
		EpochDurationNs:  simCfg.EpochDurationNs,
		SketchKind:       simCfg.SketchKind,
	}

	started := time.Now()
	rep, err := coordinator.Run(ctx, coordCfg, topo, packets)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	elapsed := time.Since(started)

	for _, e := range rep.Epochs {
		metrics.EpochsTotal.Inc()
		metrics.PacketsProcessedTotal.WithLabelValues(simCfg.SketchKind.String()).Add(float64(e.TotalPackets))
	}
	if len(rep.Epochs) > 0 {
		metrics.EpochDurationSeconds.Observe(elapsed.Seconds() / float64(len(rep.Epochs)))
	}
	for _, f := range topo.Fragments() {
		label := strconv.Itoa(f.Index())
		metrics.FragmentSubepochCount.WithLabelValues(label).Set(float64(f.SubepochCount()))
		metrics.FragmentRhoAverage.WithLabelValues(label).Set(f.LastRhoAverage())
	}
	metrics.HeavyHitterF1.WithLabelValues("full_sketch").Set(rep.FullSketchStats.F1())
	metrics.HeavyHitterF1.WithLabelValues("disketch").Set(rep.DiSketchStats.F1())

	out := os.Stdout
	if runOutPath != "" {
		f, err := os.Create(runOutPath)
		if err != nil {
			return fmt.Errorf("run: opening output %s: %w", runOutPath, err)
		}
		defer f.Close()
		out = f
	}

	format := runOutFormat
	if format == "" {
		format = appCfg.Output.Format
	}
	var writer report.Writer
	switch format {
	case "json":
		writer = report.JSONWriter{Indent: appCfg.Output.Indent}
	default:
		writer = report.CSVWriter{}
	}
	if err := writer.Write(out, rep); err != nil {
		return fmt.Errorf("run: writing report: %w", err)
	}
	if runOutPath != "" {
		report.PrintMetrics(os.Stdout, rep)
	}
	return nil
}

func buildTopology(cfg *diconfig.Config) (*topology.Topology[flowkey.IPv4Pair], error) {
	fragments := make([]*fragment.Fragment[flowkey.IPv4Pair], len(cfg.FragmentSettings))
	for i, setting := range cfg.FragmentSettings {
		fragments[i] = fragment.New[flowkey.IPv4Pair](i, setting)
	}
	return topology.New[flowkey.IPv4Pair](fragments, cfg.Paths)
}

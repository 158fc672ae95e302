// Network time synchronization service

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gopkg.in/natefinch/lumberjack.v2"

	"example.com/rtc-sync/core/client"
	"example.com/rtc-sync/core/config"
	"example.com/rtc-sync/core/sync"

	"example.com/rtc-sync/driver/clock"

	"example.com/rtc-sync/net/netif"
)

const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
	logFileMaxAgeDays = 28
)

var (
	log *zap.Logger
)

func initLogger(verbose bool, logFile string) {
	c := zap.NewDevelopmentConfig()
	c.DisableStacktrace = true
	c.EncoderConfig.EncodeCaller = func(
		caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		p := caller.TrimmedPath()
		if len(p) > 30 {
			p = "..." + p[len(p)-27:]
		}
		enc.AppendString(fmt.Sprintf("%30s", p))
	}
	if !verbose {
		c.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	var opts []zap.Option
	if logFile != "" {
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    logFileMaxSizeMB,
			MaxBackups: logFileMaxBackups,
			MaxAge:     logFileMaxAgeDays,
		})
		opts = append(opts, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core,
				zapcore.NewCore(zapcore.NewJSONEncoder(c.EncoderConfig), w, c.Level))
		}))
	}
	var err error
	log, err = c.Build(opts...)
	if err != nil {
		panic(err)
	}
}

func runMonitor(log *zap.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	err := http.ListenAndServe(addr, mux)
	log.Fatal("failed to serve metrics", zap.Error(err))
}

func runService(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	initLogger(verbose, cfg.LogFile)
	defer func() { _ = log.Sync() }()

	netif.RegisterDefault(&netif.HostInterface{Name: cfg.Interface})
	lclk := &clock.SystemClock{Log: log}

	svc := sync.NewService(log, sync.Options{
		SyncInterval:   cfg.SyncInterval,
		TickPeriod:     cfg.TickPeriod(),
		ConnectTimeout: cfg.ConnectTimeout(),
		Source: &client.NTPSource{
			Server:  cfg.NTPServer,
			Timeout: cfg.NTPTimeout(),
			Version: cfg.NTPVersion,
		},
		Clock: lclk,
	})

	if cfg.MetricsAddr != "" {
		go runMonitor(log, cfg.MetricsAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kind := svc.Start(ctx)
	if kind != sync.NoError {
		svc.Stop()
		return fmt.Errorf("failed to start time sync: %v", kind)
	}
	log.Info("time sync started",
		zap.String("server", cfg.NTPServer),
		zap.Int("interval", cfg.SyncInterval),
	)

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		svc.Stop()
		return nil
	case <-svc.Done():
		svc.Stop()
		return fmt.Errorf("time sync stopped, last synced at %v", svc.LastSyncedTime())
	}
}

func runQuery(server, ifname string, count int, timeout time.Duration) error {
	initLogger(verbose, "")
	defer func() { _ = log.Sync() }()

	ni := &netif.HostInterface{Name: ifname}
	src := &client.ClockSource{
		Source: &client.NTPSource{Server: server, Timeout: timeout},
		Clock:  &clock.SystemClock{Log: log},
	}

	hg := hdrhistogram.New(1, 60_000_000, 3)
	ctx := context.Background()
	var nerr int
	for i := 0; i < count; i++ {
		t0 := time.Now()
		t, err := src.QueryNetworkTime(ctx, ni)
		rtt := time.Since(t0)
		if err != nil {
			nerr++
			log.Info("failed to query network time", zap.String("server", server), zap.Error(err))
			continue
		}
		err = hg.RecordValue(rtt.Microseconds())
		if err != nil {
			log.Error("failed to record histogram value", zap.Error(err))
		}
		log.Info("network time",
			zap.String("server", server),
			zap.Time("time", t),
			zap.Duration("offset", t.Sub(src.Clock.Now().Truncate(time.Second))),
			zap.Duration("duration", rtt),
		)
	}
	if hg.TotalCount() != 0 {
		hg.PercentilesPrint(os.Stdout, 1, 1.0)
	}
	if nerr == count {
		return fmt.Errorf("all %d queries to %s failed", count, server)
	}
	return nil
}

var (
	verbose bool
)

func newRootCmd() *cobra.Command {
	var (
		configFile string
		server     string
		ifname     string
		count      int
		timeout    time.Duration
	)

	rootCmd := &cobra.Command{
		Use:           "rtcsync",
		Short:         "Keep the system clock synchronized with a network time source",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the time sync service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runService(configFile)
		},
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "Config file")
	_ = runCmd.MarkFlagRequired("config")

	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Query a network time source without setting the clock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("invalid count: %d", count)
			}
			return runQuery(server, ifname, count, timeout)
		},
	}
	queryCmd.Flags().StringVar(&server, "server", config.DefaultNTPServer, "NTP server")
	queryCmd.Flags().StringVar(&ifname, "interface", "", "Network interface")
	queryCmd.Flags().IntVar(&count, "count", 1, "Number of queries")
	queryCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Query timeout")

	rootCmd.AddCommand(runCmd, queryCmd)
	return rootCmd
}

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

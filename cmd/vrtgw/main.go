// Command vrtgw is the VRT streaming gateway: it drives an SDR capability
// (simulated by default; see sdrcap.Hardware for wiring a real device),
// streams Signal Data and Context packets to registered subscribers, and
// accepts configuration changes on its control port.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"hz.tools/rf"
	"hz.tools/vrt/gwcontrol"
	"hz.tools/vrt/gwserver"
	"hz.tools/vrt/sdrcap"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "path to a gateway YAML config file")
		dataAddr   = pflag.String("data-addr", "", "override the data socket address (host:port)")
		ctrlAddr   = pflag.String("control-addr", "", "override the control socket address (host:port)")
		metricsAddr = pflag.String("metrics-addr", "", "override the Prometheus metrics address (host:port)")
		mtu        = pflag.Int("mtu", 0, "override the path MTU used to size Signal Data packets")
		logLevel   = pflag.String("log-level", "", "override the configured log level")
	)
	pflag.Parse()

	cfg, err := loadGatewayConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vrtgw: loading config: %v\n", err)
		os.Exit(1)
	}
	if *dataAddr != "" {
		cfg.Data.Addr = *dataAddr
	}
	if *ctrlAddr != "" {
		cfg.Control.Addr = *ctrlAddr
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	if *mtu != 0 {
		cfg.Data.MTU = *mtu
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	if level, err := log.ParseLevel(cfg.Logging.Level); err == nil {
		log.SetLevel(level)
	} else {
		log.WithError(err).Warn("vrtgw: unrecognized log level, leaving default")
	}

	if err := run(cfg); err != nil {
		log.WithError(err).Fatal("vrtgw: exiting")
	}
}

func run(cfg GatewayConfig) error {
	cap := &sdrcap.Simulated{}

	serverCfg := gwserver.DefaultConfig()
	serverCfg.DataAddr = cfg.Data.Addr
	serverCfg.MTU = cfg.Data.MTU
	serverCfg.ContextInterval = cfg.Data.ContextInterval
	serverCfg.DeviceID = cfg.Device.ID
	serverCfg.DataType = cfg.Device.DataType
	serverCfg.InitialConfig = sdrcap.Config{
		CenterFreqHz:          rf.Hz(cfg.Device.CenterFreqHz),
		SampleRateHz:          cfg.Device.SampleRateHz,
		BandwidthHz:           rf.Hz(cfg.Device.BandwidthHz),
		GainDb:                cfg.Device.GainDb,
		GainMode:              sdrcap.GainModeManual,
		EnabledChannels:       cfg.Device.Channels,
		AcquisitionBufferSize: cfg.Device.BufferSize,
	}

	server := gwserver.NewServer(cap, serverCfg)

	dataPort, err := portOf(cfg.Data.Addr)
	if err != nil {
		return fmt.Errorf("vrtgw: data addr: %w", err)
	}

	control := &gwcontrol.Listener{
		Addr:     cfg.Control.Addr,
		DataPort: dataPort,
		Target:   server,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("vrtgw: starting streaming server: %w", err)
	}
	defer server.Stop()

	if err := control.Start(ctx); err != nil {
		return fmt.Errorf("vrtgw: starting control listener: %w", err)
	}
	defer control.Stop()

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(gwserver.NewCollector(server))
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		httpServer := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Warn("vrtgw: metrics server stopped")
			}
		}()
		defer httpServer.Close()
	}

	log.WithFields(log.Fields{
		"data_addr":    cfg.Data.Addr,
		"control_addr": cfg.Control.Addr,
	}).Info("vrtgw: gateway running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Info("vrtgw: shutting down")
	return nil
}

func portOf(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(portStr)
}

// vim: foldmethod=marker

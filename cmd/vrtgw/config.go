package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// GatewayConfig is the on-disk YAML shape for the gateway binary, layered
// under CLI flag overrides the way doismellburning-samoyed and
// madpsy-ka9q_ubersdr's tools take a --config path plus flag overrides.
type GatewayConfig struct {
	Device  DeviceConfig  `yaml:"device"`
	Data    DataConfig    `yaml:"data"`
	Control ControlConfig `yaml:"control"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// DeviceConfig describes the initial SDR configuration applied at startup.
type DeviceConfig struct {
	CenterFreqHz float64 `yaml:"center_freq_hz"`
	SampleRateHz uint    `yaml:"sample_rate_hz"`
	BandwidthHz  float64 `yaml:"bandwidth_hz"`
	GainDb       float64 `yaml:"gain_db"`
	Channels     []int   `yaml:"channels"`
	BufferSize   int     `yaml:"buffer_size"`
	ID           uint8   `yaml:"id"`
	DataType     uint8   `yaml:"data_type"`
}

// DataConfig describes the data-plane socket and packet framing.
type DataConfig struct {
	Addr            string `yaml:"addr"`
	MTU             int    `yaml:"mtu"`
	ContextInterval int    `yaml:"context_interval"`
}

// ControlConfig describes the control-plane socket.
type ControlConfig struct {
	Addr string `yaml:"addr"`
}

// MetricsConfig describes the Prometheus HTTP endpoint.
type MetricsConfig struct {
	Addr    string `yaml:"addr"`
	Enabled bool   `yaml:"enabled"`
}

// LoggingConfig describes logrus output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// defaultGatewayConfig mirrors gwserver.DefaultConfig/registry defaults so
// a gateway run with no config file at all still starts in simulated mode
// against a sane baseline.
func defaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		Device: DeviceConfig{
			CenterFreqHz: 100_000_000,
			SampleRateHz: 2_000_000,
			BandwidthHz:  1_600_000,
			GainDb:       20,
			Channels:     []int{0},
			BufferSize:   4096,
			DataType:     1,
		},
		Data: DataConfig{
			Addr:            ":4991",
			MTU:             1500,
			ContextInterval: 100,
		},
		Control: ControlConfig{
			Addr: ":4990",
		},
		Metrics: MetricsConfig{
			Addr:    ":9091",
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// loadGatewayConfig reads and merges a YAML file over defaultGatewayConfig.
// A missing file is not an error: the defaults stand alone.
func loadGatewayConfig(path string) (GatewayConfig, error) {
	cfg := defaultGatewayConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// vim: foldmethod=marker

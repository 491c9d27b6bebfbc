package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/moleksy/mxl/flow"
)

// sampleConfig describes one run of the sample: which domain directory
// to create/open a flow in, the flow's shape, and which fabric role to
// play. Loadable from YAML so a target and an initiator can be started
// from two small config files instead of a long flag list.
type sampleConfig struct {
	Domain           string `yaml:"domain"`
	FlowID           string `yaml:"flow_id"`
	GrainCount       uint64 `yaml:"grain_count"`
	GrainPayloadSize uint64 `yaml:"grain_payload_size"`
	GrainRateNum     uint32 `yaml:"grain_rate_num"`
	GrainRateDen     uint32 `yaml:"grain_rate_den"`

	Role string `yaml:"role"` // "target" or "initiator"

	Bind struct {
		Node    string `yaml:"node"`
		Service string `yaml:"service"`
	} `yaml:"bind"`

	// TargetInfo is the string TargetInfoToString produced on the
	// target side; required when Role is "initiator".
	TargetInfo string `yaml:"target_info"`
}

func defaultConfig() sampleConfig {
	c := sampleConfig{
		Domain:           "./mxl-fabrics-sample-domain",
		GrainCount:       8,
		GrainPayloadSize: 4096,
		GrainRateNum:     25,
		GrainRateDen:     1,
		Role:             "target",
	}
	c.Bind.Node = "127.0.0.1"
	c.Bind.Service = "9300"
	return c
}

func loadConfig(path string) (sampleConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c sampleConfig) grainRate() flow.Rate {
	return flow.Rate{Num: c.GrainRateNum, Den: c.GrainRateDen}
}

// Command mxl-fabrics-sample is a runnable demonstration of a fabric
// target and a fabric initiator moving grains of a discrete flow
// between two processes over TCP loopback, exercising domain, flowio,
// and fabric end to end.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/moleksy/mxl/domain"
	"github.com/moleksy/mxl/fabric"
	"github.com/moleksy/mxl/flow"
	"github.com/moleksy/mxl/flowio"
	"github.com/moleksy/mxl/shmseg"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML sample config")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.Default()

	var running atomic.Bool
	running.Store(true)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		running.Store(false)
	}()

	var runErr error
	switch cfg.Role {
	case "target":
		runErr = runTarget(cfg, logger, &running)
	case "initiator":
		runErr = runInitiator(cfg, logger, &running)
	default:
		runErr = fmt.Errorf("unknown role %q, want target or initiator", cfg.Role)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}

func openOrCreateFlow(cfg sampleConfig, logger *slog.Logger) (*domain.Manager, *flow.DiscreteFlowData, uuid.UUID, error) {
	if err := os.MkdirAll(cfg.Domain, 0o755); err != nil {
		return nil, nil, uuid.Nil, fmt.Errorf("create domain dir: %w", err)
	}
	mgr, err := domain.NewManager(cfg.Domain, logger)
	if err != nil {
		return nil, nil, uuid.Nil, err
	}

	id := uuid.New()
	if cfg.FlowID != "" {
		id, err = uuid.Parse(cfg.FlowID)
		if err != nil {
			return nil, nil, uuid.Nil, fmt.Errorf("parse flow_id: %w", err)
		}
	}

	data, err := mgr.CreateDiscrete(id, nil, flow.FormatVideo, cfg.GrainCount, cfg.grainRate(), cfg.GrainPayloadSize)
	if errors.Is(err, domain.ErrAlreadyExists) {
		existing, openErr := mgr.Open(id, shmseg.OpenReadWrite)
		if openErr != nil {
			return nil, nil, uuid.Nil, fmt.Errorf("open flow: %w", openErr)
		}
		dfd, ok := existing.(*flow.DiscreteFlowData)
		if !ok {
			existing.Close()
			return nil, nil, uuid.Nil, fmt.Errorf("flow %s is not discrete", id)
		}
		return mgr, dfd, id, nil
	}
	if err != nil {
		return nil, nil, uuid.Nil, fmt.Errorf("create flow: %w", err)
	}
	return mgr, data, id, nil
}

// runTarget creates (or opens) the flow, binds a TCP endpoint for it,
// prints the TargetInfo string an initiator needs, and applies remote
// writes until signaled to stop.
func runTarget(cfg sampleConfig, logger *slog.Logger, running *atomic.Bool) error {
	_, data, id, err := openOrCreateFlow(cfg, logger)
	if err != nil {
		return err
	}
	defer data.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	target, err := fabric.TargetSetup(ctx, data, fabric.ProviderTCP,
		fabric.Endpoint{Node: cfg.Bind.Node, Service: cfg.Bind.Service}, cfg.GrainPayloadSize, logger)
	if err != nil {
		return fmt.Errorf("target setup: %w", err)
	}
	defer target.Close()

	info := target.Info(fabric.ProviderTCP, cfg.GrainPayloadSize)
	info.FlowID = id
	fmt.Println(fabric.TargetInfoToString(info))

	target.SetCompletionCallback(func(index uint64, err error) {
		if err != nil {
			logger.Warn("remote write failed", "index", index, "err", err)
			return
		}
		logger.Info("applied remote grain", "index", index)
	})

	for running.Load() {
		time.Sleep(100 * time.Millisecond)
	}
	return nil
}

// runInitiator creates (or opens) a local source flow, registers the
// target named by cfg.TargetInfo, and writes and transfers one grain
// per grain period until signaled to stop.
func runInitiator(cfg sampleConfig, logger *slog.Logger, running *atomic.Bool) error {
	if cfg.TargetInfo == "" {
		return fmt.Errorf("initiator role requires target_info in config")
	}
	info, err := fabric.TargetInfoFromString(cfg.TargetInfo)
	if err != nil {
		return fmt.Errorf("parse target_info: %w", err)
	}

	_, data, _, err := openOrCreateFlow(cfg, logger)
	if err != nil {
		return err
	}
	defer data.Close()

	writer := flowio.NewWriter(data, logger)
	initiator := fabric.InitiatorSetup(data, logger)
	initiator.AddTarget(info)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	period := time.Second
	if cfg.GrainRateNum > 0 {
		period = time.Duration(float64(time.Second) * float64(cfg.GrainRateDen) / float64(cfg.GrainRateNum))
	}

	var index uint64
	for running.Load() {
		grainInfo, payload, err := writer.OpenGrain(index)
		if err != nil {
			return fmt.Errorf("open grain %d: %w", index, err)
		}
		fillPattern(payload, index)
		if err := writer.Commit(grainInfo); err != nil {
			return fmt.Errorf("commit grain %d: %w", index, err)
		}

		results, err := initiator.TransferGrain(ctx, index)
		if err != nil {
			logger.Warn("transfer failed", "index", index, "err", err)
		}
		for _, r := range results {
			if r.Err != nil {
				logger.Warn("target rejected grain", "target", r.Key, "index", index, "err", r.Err)
			}
		}
		index++
		time.Sleep(period)
	}
	return nil
}

func fillPattern(payload []byte, index uint64) {
	for i := range payload {
		payload[i] = byte(index + uint64(i))
	}
}

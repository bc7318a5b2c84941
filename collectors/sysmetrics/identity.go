package sysmetrics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v4/host"

	"gitlab.com/tinyland/lab/cpu-pulse/telemetry"
)

const (
	identityCollectorName        = "identity"
	identityCollectorDescription = "Host OS name, version, architecture and hostname"

	// DefaultIdentityRetry is the delay between identity attempts until one
	// succeeds.
	DefaultIdentityRetry = 5 * time.Second
)

// IdentityCollector reads the host identity. The identity does not change
// while the process runs, so it is collected once.
type IdentityCollector struct {
	retry  time.Duration
	logger *slog.Logger

	// info is overridable for testing.
	info func(ctx context.Context) (*host.InfoStat, error)
}

// NewIdentityCollector returns an identity producer that retries every retry
// until it succeeds. A non-positive retry selects DefaultIdentityRetry.
func NewIdentityCollector(retry time.Duration, logger *slog.Logger) *IdentityCollector {
	if retry <= 0 {
		retry = DefaultIdentityRetry
	}
	return &IdentityCollector{
		retry:  retry,
		logger: discardIfNil(logger),
		info:   host.InfoWithContext,
	}
}

func (c *IdentityCollector) Name() string            { return identityCollectorName }
func (c *IdentityCollector) Description() string     { return identityCollectorDescription }
func (c *IdentityCollector) Interval() time.Duration { return c.retry }
func (c *IdentityCollector) OneShot() bool           { return true }

// Collect returns the host identity. Fields the host does not report hold
// telemetry.Placeholder. A partial result from gopsutil is still used.
func (c *IdentityCollector) Collect(ctx context.Context) (telemetry.IdentitySample, error) {
	info, err := c.info(ctx)
	if info == nil {
		if err == nil {
			err = fmt.Errorf("no host info")
		}
		return telemetry.IdentitySample{}, fmt.Errorf("sysmetrics: host info: %w", err)
	}
	if err != nil {
		c.logger.Debug("partial host info", "error", err)
	}

	name := info.Platform
	if name == "" {
		name = info.OS
	}
	id := telemetry.IdentitySample{
		Name:         orPlaceholder(name),
		Version:      orPlaceholder(info.PlatformVersion),
		Architecture: orPlaceholder(info.KernelArch),
		HostName:     orPlaceholder(info.Hostname),
	}
	c.logger.Debug("identity sampled", "name", id.Name, "version", id.Version, "arch", id.Architecture, "host", id.HostName)
	return id, nil
}

func orPlaceholder(s string) string {
	if s == "" {
		return telemetry.Placeholder
	}
	return s
}

// Package config holds the SDK's tunable defaults: timeouts, ports, and
// buffer sizes, loaded from an optional JSON overrides file -- pointer
// fields so an omitted key keeps the default rather than zeroing it out.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Fixed controller ports: these are not overridable, they are part of
// the wire protocol itself.
const (
	ControllerCommandPort  = 50105
	ControllerSenderPort   = 50107
	ControllerFeedbackPort = 50110
)

// FirewallPrimingToken is the historical fixed payload sent to open a
// stateful-firewall pinhole.
const FirewallPrimingToken = "fw4dtsdkj"

// Defaults holds the handful of SDK-level knobs: data and command
// timeouts, and the UDP receive buffer size. Overridable via a JSON
// file, merged over these defaults.
type Defaults struct {
	DataTimeoutUs    *int64 `json:"dataTimeoutUs,omitempty"`
	CommandTimeoutUs *int64 `json:"commandTimeoutUs,omitempty"`
	RcvBufSize       *int   `json:"rcvBufSize,omitempty"`
}

// Empty returns a Defaults with every field nil; Load merges a JSON file
// over it, and the Get* accessors fall back to their documented
// defaults for any field left nil.
func Empty() *Defaults {
	return &Defaults{}
}

// Load reads a JSON file of overrides. Fields omitted from the file keep
// their default values, so partial override files are safe.
func Load(path string) (*Defaults, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	d := Empty()
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return d, nil
}

// Validate rejects non-positive timeouts and buffer sizes.
func (d *Defaults) Validate() error {
	if d.DataTimeoutUs != nil && *d.DataTimeoutUs <= 0 {
		return fmt.Errorf("dataTimeoutUs must be positive, got %d", *d.DataTimeoutUs)
	}
	if d.CommandTimeoutUs != nil && *d.CommandTimeoutUs <= 0 {
		return fmt.Errorf("commandTimeoutUs must be positive, got %d", *d.CommandTimeoutUs)
	}
	if d.RcvBufSize != nil && *d.RcvBufSize <= 0 {
		return fmt.Errorf("rcvBufSize must be positive, got %d", *d.RcvBufSize)
	}
	return nil
}

// GetDataTimeoutUs returns the configured UDP receive timeout, or a
// default of 1,000,000us (1s).
func (d *Defaults) GetDataTimeoutUs() int64 {
	if d == nil || d.DataTimeoutUs == nil {
		return 1_000_000
	}
	return *d.DataTimeoutUs
}

// GetCommandTimeoutUs returns the configured TCP command timeout, or a
// default of 10,000,000us (10s).
func (d *Defaults) GetCommandTimeoutUs() int64 {
	if d == nil || d.CommandTimeoutUs == nil {
		return 10_000_000
	}
	return *d.CommandTimeoutUs
}

// GetRcvBufSize returns the configured UDP receive buffer size, or a
// default of 32 KiB.
func (d *Defaults) GetRcvBufSize() int {
	if d == nil || d.RcvBufSize == nil {
		return 32 * 1024
	}
	return *d.RcvBufSize
}

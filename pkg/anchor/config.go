/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anchor

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Strategy type names accepted by StrategyFromConfig.
const (
	StrategyTypePeriodic = "periodic"
	StrategyTypeLazy     = "lazy"
	StrategyTypeHybrid   = "hybrid"
)

type strategyConfig struct {
	Type                string        `mapstructure:"type"`
	Interval            time.Duration `mapstructure:"interval"`
	MaxUpdates          int           `mapstructure:"maxUpdates"`
	MaxStaleness        time.Duration `mapstructure:"maxStaleness"`
	ForceAnchorOnVerify bool          `mapstructure:"forceAnchorOnVerify"`
}

// StrategyFromConfig builds an anchor strategy from a generic configuration
// map, typically the result of parsing a host application's config file.
// Durations accept Go duration strings ("30m", "1h"). Missing interval and
// update settings fall back to DefaultInterval and DefaultMaxUpdates.
func StrategyFromConfig(cfg map[string]interface{}) (Strategy, error) {
	sc := strategyConfig{
		Interval:     DefaultInterval,
		MaxUpdates:   DefaultMaxUpdates,
		MaxStaleness: DefaultInterval,
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     &sc,
	})
	if err != nil {
		return nil, fmt.Errorf("create strategy config decoder: %w", err)
	}

	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode strategy config: %w", err)
	}

	if sc.Interval <= 0 || sc.MaxStaleness <= 0 || sc.MaxUpdates <= 0 {
		return nil, fmt.Errorf("strategy config values must be positive")
	}

	switch strings.ToLower(sc.Type) {
	case StrategyTypePeriodic:
		return PeriodicStrategy{Interval: sc.Interval, MaxUpdates: sc.MaxUpdates}, nil
	case StrategyTypeLazy:
		return LazyStrategy{MaxStaleness: sc.MaxStaleness}, nil
	case StrategyTypeHybrid:
		return HybridStrategy{
			Interval:            sc.Interval,
			MaxUpdates:          sc.MaxUpdates,
			ForceAnchorOnVerify: sc.ForceAnchorOnVerify,
		}, nil
	default:
		return nil, fmt.Errorf("unknown anchor strategy type %q", sc.Type)
	}
}

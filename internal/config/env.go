// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the environment, following the `env` and
// `envPrefix` tags of [StructuredConfig]. Durations use Go syntax ("30s")
// while CONTAINERS and IGNORED_SYNC_IDS are split on commas.
func parseEnv(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}
	return nil
}

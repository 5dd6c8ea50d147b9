package gc

import (
	"os"
	"strconv"
)

// growthScaleEnvVar is read once at policy construction to override
// the threshold growth percentage, matching internal/packagemanager's
// os.Getenv-based configuration convention.
const growthScaleEnvVar = "ORIZON_GC_GROWTH_SCALE"

// growthScaleFromEnv returns the integer value of growthScaleEnvVar if
// set and parseable, otherwise fallback.
func growthScaleFromEnv(fallback int) int {
	v := os.Getenv(growthScaleEnvVar)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}

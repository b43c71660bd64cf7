package health

import (
	"fmt"
	"strings"
	"time"

	"github.com/Gsweya/hweibo-prototype/internal/config"
	"github.com/hellofresh/health-go/v5"
	healthHttp "github.com/hellofresh/health-go/v5/checks/http"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

const Version = "1.0.0"

// NewHealthHandler reports on the catalog backend and, when configured,
// Redis. A down backend degrades search to the local catalog rather than
// breaking the storefront, so that check is allowed to fail.
func NewHealthHandler(cfg *config.Config) (*health.Health, error) {

	checks := []health.Config{
		{
			Name:      "backend",
			Timeout:   3 * time.Second,
			SkipOnErr: true,
			Check: healthHttp.New(healthHttp.Config{
				URL:            BackendHealthURL(cfg.Backend.URL),
				RequestTimeout: 3 * time.Second,
			}),
		},
	}

	if cfg.RedisConnect.Enabled() {
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(
				healthRedis.Config{
					DSN: cfg.RedisConnect.GetDSN(),
				},
			),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    cfg.Otel.ServiceName,
			Version: Version,
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

func BackendHealthURL(base string) string {
	return strings.TrimRight(base, "/") + "/health"
}

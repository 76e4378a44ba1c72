package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServiceEnvironment  string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
	ServiceAPIPort      string `envconfig:"SERVICE_API_PORT" default:"8080"`
	DatabaseFilePath    string `envconfig:"DATABASE_FILE_PATH" default:"telemetry.db"`
	IngestAuthToken     string `envconfig:"INGEST_AUTH_TOKEN" required:"true"`
	ReadAuthToken       string `envconfig:"READ_AUTH_TOKEN" required:"true"`
	ReportEventKind     string `envconfig:"REPORT_EVENT_KIND" default:"circle-tapped"`
	ReportParameterKind string `envconfig:"REPORT_PARAMETER_KIND" default:"color"`
	ReportWindowSec     int64  `envconfig:"REPORT_WINDOW_SEC" default:"600"`
	ReportBucketSec     int64  `envconfig:"REPORT_BUCKET_SEC" default:"60"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	pkgerrors "dailysketch/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "retention_job.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: "host=localhost dbname=dailysketch"
minio:
  endpoint: localhost:9000
  accessKey: test
  secretKey: test
  bucket: submissions
`)

	cfg, err := loadAppConfig(path)
	if err != nil {
		t.Fatalf("loadAppConfig() error = %v", err)
	}
	if cfg.Retention.PageSize != 1000 {
		t.Errorf("PageSize = %d, want 1000", cfg.Retention.PageSize)
	}
	if cfg.Retention.ChunkSize != 25 {
		t.Errorf("ChunkSize = %d, want 25", cfg.Retention.ChunkSize)
	}
	if cfg.Retention.Bucket != "submissions" {
		t.Errorf("Bucket = %q, want bucket inherited from minio", cfg.Retention.Bucket)
	}
	if cfg.Server.Addr == "" {
		t.Error("Server.Addr default not applied")
	}
}

func TestLoadAppConfigExpandsEnv(t *testing.T) {
	t.Setenv("TEST_DATABASE_DSN", "host=db.internal dbname=dailysketch")
	path := writeConfig(t, `
database:
  dsn: "${TEST_DATABASE_DSN}"
minio:
  endpoint: localhost:9000
  accessKey: test
  secretKey: test
  bucket: submissions
`)

	cfg, err := loadAppConfig(path)
	if err != nil {
		t.Fatalf("loadAppConfig() error = %v", err)
	}
	if cfg.Database.DSN != "host=db.internal dbname=dailysketch" {
		t.Errorf("DSN = %q, env not expanded", cfg.Database.DSN)
	}
}

func TestLoadAppConfigRejectsMissingParams(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing dsn", `
minio:
  endpoint: localhost:9000
  accessKey: test
  secretKey: test
  bucket: submissions
`},
		{"missing endpoint", `
database:
  dsn: "host=localhost dbname=dailysketch"
minio:
  accessKey: test
  secretKey: test
  bucket: submissions
`},
		{"missing bucket", `
database:
  dsn: "host=localhost dbname=dailysketch"
minio:
  endpoint: localhost:9000
  accessKey: test
  secretKey: test
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadAppConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected configuration error, got nil")
			}
			if !pkgerrors.Is(err, pkgerrors.ConfigMissing) {
				t.Errorf("error code = %v, want ConfigMissing", pkgerrors.GetCode(err))
			}
		})
	}
}

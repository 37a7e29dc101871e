package awsclient

import (
	"context"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name       string
		settings   Settings
		wantRegion string
		wantErr    bool
	}{
		{"default region", Settings{}, DefaultRegion, false},
		{"explicit region", Settings{Region: "eu-central-1"}, "eu-central-1", false},
		{"static credentials", Settings{AccessKeyID: "id", SecretAccessKey: "secret"}, DefaultRegion, false},
		{"partial credentials", Settings{AccessKeyID: "id"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(context.Background(), tt.settings)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if cfg.Region != tt.wantRegion {
				t.Fatalf("region = %s, want %s", cfg.Region, tt.wantRegion)
			}
		})
	}
}

func TestLoadConfig_StaticCredentialsAreUsed(t *testing.T) {
	cfg, err := LoadConfig(context.Background(), Settings{AccessKeyID: "id", SecretAccessKey: "secret"})
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	creds, err := cfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if creds.AccessKeyID != "id" || creds.SecretAccessKey != "secret" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
}

func TestEndpoint(t *testing.T) {
	if Endpoint("  ") != nil {
		t.Fatalf("expected nil for empty endpoint")
	}
	if got := Endpoint(" http://localhost:4566 "); got == nil || *got != "http://localhost:4566" {
		t.Fatalf("unexpected endpoint: %v", got)
	}
}

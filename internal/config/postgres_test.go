package config

import (
	"errors"
	"testing"
)

func TestLoadPostgresConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantDSN string
		wantErr error
		anyErr  bool
	}{
		{
			name:    "database URL",
			env:     map[string]string{"DATABASE_URL": "postgres://u:p@db/store", "POSTGRES_USER": "ignored"},
			wantDSN: "postgres://u:p@db/store",
		},
		{
			name: "individual variables",
			env: map[string]string{
				"POSTGRES_USER":     "store",
				"POSTGRES_PASSWORD": "secret",
				"POSTGRES_DB":       "orders",
				"POSTGRES_HOSTNAME": "db",
			},
			wantDSN: "host=db user=store password=secret dbname=orders sslmode=disable",
		},
		{
			name:    "nothing set",
			env:     map[string]string{},
			wantErr: ErrPostgresNotConfigured,
		},
		{
			name:   "partial settings",
			env:    map[string]string{"POSTGRES_USER": "store"},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadPostgresConfig(envMap(tt.env))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if tt.anyErr {
				if err == nil {
					t.Fatal("Expected an error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if cfg.ConnectionString() != tt.wantDSN {
				t.Errorf("Expected %q, got %q", tt.wantDSN, cfg.ConnectionString())
			}
		})
	}
}

func TestLoadTelegramConfig(t *testing.T) {
	cfg := LoadTelegramConfig(envMap(map[string]string{"TELEGRAM_BOT_TOKEN": "123:abc"}))
	if cfg.Enabled() {
		t.Error("Expected forwarding disabled without a chat id")
	}
	if cfg.APIBase != "https://api.telegram.org" {
		t.Errorf("Expected default API base, got %q", cfg.APIBase)
	}

	cfg = LoadTelegramConfig(envMap(map[string]string{"TELEGRAM_BOT_TOKEN": "123:abc", "TELEGRAM_CHAT_ID": "42"}))
	if !cfg.Enabled() {
		t.Error("Expected forwarding enabled")
	}
}

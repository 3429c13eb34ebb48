package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 0}}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_CatalogSource(t *testing.T) {
	tests := []struct {
		name    string
		catalog CatalogConfig
		wantErr string
	}{
		{name: "embedded", catalog: CatalogConfig{Source: SourceEmbedded}},
		{name: "file", catalog: CatalogConfig{Source: SourceFile, Path: "songs.yaml"}},
		{name: "file without path", catalog: CatalogConfig{Source: SourceFile}, wantErr: "catalog.path is required"},
		{name: "valkey", catalog: CatalogConfig{Source: SourceValkey, Addrs: []string{"localhost:6379"}}},
		{name: "redis without addrs", catalog: CatalogConfig{Source: SourceRedis}, wantErr: "catalog.addrs is required"},
		{name: "unknown", catalog: CatalogConfig{Source: "s3"}, wantErr: "catalog.source must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{HTTP: HTTPConfig{Port: 8080}, Catalog: tt.catalog}
			cfg.ApplyDefaults()

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_SocketModeRequiresTokens(t *testing.T) {
	cfg := Config{
		HTTP:  HTTPConfig{Port: 8080},
		Slack: SlackConfig{SocketMode: true, BotToken: "xoxb-test"},
	}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing app token")
	}
	if !strings.Contains(err.Error(), "slack.app_token") {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.Slack.AppToken = "xapp-test"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Dimensions(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Filters: FiltersConfig{Dimensions: []DimensionConfig{
			{Name: "bands", Type: "multi_select", Attribute: "band"},
			{Name: "bands", Type: "toggle", Attribute: "is_single"},
		}},
	}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicated") {
		t.Fatalf("expected duplicate dimension error, got %v", err)
	}

	cfg.Filters.Dimensions[1] = DimensionConfig{Name: "mood", Type: "slider"}
	err = cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), `got "slider"`) {
		t.Fatalf("expected invalid type error, got %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{Slack: SlackConfig{BaseURL: "http://localhost:9000/api"}}
	cfg.ApplyDefaults()

	if cfg.Slack.BaseURL != "http://localhost:9000/api/" {
		t.Errorf("expected trailing slash on base url, got %q", cfg.Slack.BaseURL)
	}
	if cfg.Catalog.Source != SourceEmbedded {
		t.Errorf("expected embedded source, got %q", cfg.Catalog.Source)
	}
	if cfg.Catalog.Key != "songsearch:catalog" {
		t.Errorf("unexpected catalog key %q", cfg.Catalog.Key)
	}
	if len(cfg.Filters.Dimensions) != 2 {
		t.Fatalf("expected 2 default dimensions, got %d", len(cfg.Filters.Dimensions))
	}
	if cfg.Filters.Dimensions[0].Name != "bands" || cfg.Filters.Dimensions[1].Name != "is_single" {
		t.Errorf("unexpected default dimensions: %+v", cfg.Filters.Dimensions)
	}
	if cfg.Details.Title != "hello world" || cfg.Details.Description != "This is a description" {
		t.Errorf("unexpected details placeholder: %+v", cfg.Details)
	}
}

func TestParse_ExpandsEnvVars(t *testing.T) {
	t.Setenv("SONGSEARCH_TEST_BOT_TOKEN", "xoxb-from-env")

	data := []byte(`
http:
  port: ${SONGSEARCH_TEST_PORT:-8081}
slack:
  bot_token: ${SONGSEARCH_TEST_BOT_TOKEN}
catalog:
  source: embedded
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 8081 {
		t.Errorf("expected default port 8081, got %d", cfg.HTTP.Port)
	}
	if cfg.Slack.BotToken != "xoxb-from-env" {
		t.Errorf("expected bot token from env, got %q", cfg.Slack.BotToken)
	}
}

func TestParse_RetryMax(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want int
	}{
		{name: "omitted", yaml: "http:\n  port: 8080\n", want: 3},
		{name: "zero disables retries", yaml: "http:\n  port: 8080\nslack:\n  retry_max: 0\n", want: 0},
		{name: "explicit", yaml: "http:\n  port: 8080\nslack:\n  retry_max: 5\n", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Slack.RetryMax != tt.want {
				t.Errorf("retry_max = %d, want %d", cfg.Slack.RetryMax, tt.want)
			}
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "SONGSEARCH_TEST_DOTENV_VALUE"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv(key); got != "from-dotenv" {
		t.Errorf("expected value from dotenv, got %q", got)
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing dotenv file must be ignored, got %v", err)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("expected local, got %q", got)
	}

	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("expected prod, got %q", got)
	}
}

package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NATS_SUBJECT", "")
	t.Setenv("API_RATE_LIMIT_RPS", "")
	t.Setenv("API_RATE_LIMIT_BURST", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")
	t.Setenv("RUN_TIMEOUT_SECONDS", "")

	cfg := Load()
	if cfg.NATSSubject != "runs.requested" {
		t.Fatalf("expected default subject runs.requested, got %q", cfg.NATSSubject)
	}
	if cfg.APIRateLimitRPS != 20 {
		t.Fatalf("expected default rate limit 20 rps, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.APIRateLimitBurst != 40 {
		t.Fatalf("expected default burst 40, got %d", cfg.APIRateLimitBurst)
	}
	if cfg.MaxUploadBytes != 64<<20 {
		t.Fatalf("expected default upload cap 64MiB, got %d", cfg.MaxUploadBytes)
	}
	if cfg.RunTimeoutSeconds != 120 {
		t.Fatalf("expected default run timeout 120s, got %d", cfg.RunTimeoutSeconds)
	}
	if cfg.TaxonomyPath != "" {
		t.Fatalf("expected empty taxonomy path by default, got %q", cfg.TaxonomyPath)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("NATS_SUBJECT", "runs.analysis")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("API_RATE_LIMIT_BURST", "5")
	t.Setenv("TAXONOMY_PATH", "/etc/bpmn/taxonomy.yaml")

	cfg := Load()
	if cfg.NATSSubject != "runs.analysis" {
		t.Fatalf("expected subject override, got %q", cfg.NATSSubject)
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit 2.5, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.APIRateLimitBurst != 5 {
		t.Fatalf("expected burst 5, got %d", cfg.APIRateLimitBurst)
	}
	if cfg.TaxonomyPath != "/etc/bpmn/taxonomy.yaml" {
		t.Fatalf("expected taxonomy path override, got %q", cfg.TaxonomyPath)
	}
}

func TestLoadFallsBackOnInvalidNumbers(t *testing.T) {
	t.Setenv("API_RATE_LIMIT_RPS", "plenty")
	t.Setenv("API_RATE_LIMIT_BURST", "a lot")

	cfg := Load()
	if cfg.APIRateLimitRPS != 20 {
		t.Fatalf("expected fallback rate limit 20, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.APIRateLimitBurst != 40 {
		t.Fatalf("expected fallback burst 40, got %d", cfg.APIRateLimitBurst)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func lookupFrom(env map[string]string) envLookup {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func baseEnv() map[string]string {
	return map[string]string{
		"SUPABASE_URL":     "https://project.supabase.co",
		"SUPABASE_API_KEY": "anon-key",
	}
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	_, err := load(nil, func(string) (string, bool) { return "", false })
	if err == nil {
		t.Fatalf("expected error due to missing required envs, got nil")
	}

	cfg, err := load(nil, lookupFrom(baseEnv()))
	if err != nil {
		t.Fatalf("load returned unexpected error: %v", err)
	}

	if cfg.RunAddress != defaultRunAddress {
		t.Errorf("expected default run address %q, got %q", defaultRunAddress, cfg.RunAddress)
	}
	if cfg.JWTSecret != defaultJWTSecret {
		t.Errorf("expected default jwt secret %q, got %q", defaultJWTSecret, cfg.JWTSecret)
	}
	if cfg.JWTTTL != defaultJWTTTL {
		t.Errorf("expected default jwt ttl %v, got %v", defaultJWTTTL, cfg.JWTTTL)
	}
	if cfg.StoreTimeout != defaultStoreTimeout {
		t.Errorf("expected default store timeout %v, got %v", defaultStoreTimeout, cfg.StoreTimeout)
	}
	if cfg.ReconcileInterval != defaultReconcileInterval {
		t.Errorf("expected default reconcile interval %v, got %v", defaultReconcileInterval, cfg.ReconcileInterval)
	}
	if cfg.WorkerPoolSize != defaultWorkerPoolSize {
		t.Errorf("expected default worker pool %d, got %d", defaultWorkerPoolSize, cfg.WorkerPoolSize)
	}
	if cfg.ReconcileBatch != defaultReconcileBatch {
		t.Errorf("expected default batch size %d, got %d", defaultReconcileBatch, cfg.ReconcileBatch)
	}
	if cfg.StrictPricing {
		t.Errorf("expected unknown products to be dropped by default")
	}
	if cfg.StrictTransitions {
		t.Errorf("expected admin transition override by default")
	}
	if cfg.DatabaseURI != "" {
		t.Errorf("expected empty database uri, got %q", cfg.DatabaseURI)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Errorf("expected default log level %q, got %q", defaultLogLevel, cfg.LogLevel)
	}
}

func TestLoadWithFlagOverrides(t *testing.T) {
	env := baseEnv()
	env["WORKER_POOL_SIZE"] = "3"
	env["RECONCILE_BATCH"] = "10"
	env["RECONCILE_INTERVAL"] = "5s"
	env["STRICT_PRICING"] = "true"
	env["BCRYPT_COST"] = "12"

	args := []string{
		"-a", ":9090",
		"-s", "http://localhost:54321",
		"-k", "flag-key",
		"-d", "postgres://override",
		"--store-timeout", "3s",
		"--jwt-ttl", "1h",
		"--reconcile-interval", "7s",
		"--shutdown-timeout", "20s",
		"--worker-pool", "9",
		"--reconcile-batch", "11",
		"--jwt-secret", "flag-secret",
		"--strict-transitions",
		"--log-level", "debug",
	}

	cfg, err := load(args, lookupFrom(env))
	if err != nil {
		t.Fatalf("load returned unexpected error: %v", err)
	}

	if cfg.RunAddress != ":9090" {
		t.Errorf("expected run address :9090, got %q", cfg.RunAddress)
	}
	if cfg.StoreURL != "http://localhost:54321" {
		t.Errorf("expected store url override, got %q", cfg.StoreURL)
	}
	if cfg.StoreAPIKey != "flag-key" {
		t.Errorf("expected api key override, got %q", cfg.StoreAPIKey)
	}
	if cfg.DatabaseURI != "postgres://override" {
		t.Errorf("expected database uri override, got %q", cfg.DatabaseURI)
	}
	if cfg.StoreTimeout != 3*time.Second {
		t.Errorf("expected store timeout 3s, got %v", cfg.StoreTimeout)
	}
	if cfg.JWTTTL != time.Hour {
		t.Errorf("expected jwt ttl 1h, got %v", cfg.JWTTTL)
	}
	if cfg.ReconcileInterval != 7*time.Second {
		t.Errorf("expected reconcile interval 7s, got %v", cfg.ReconcileInterval)
	}
	if cfg.ShutdownTimeout != 20*time.Second {
		t.Errorf("expected shutdown timeout 20s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.WorkerPoolSize != 9 {
		t.Errorf("expected worker pool 9, got %d", cfg.WorkerPoolSize)
	}
	if cfg.ReconcileBatch != 11 {
		t.Errorf("expected batch size 11, got %d", cfg.ReconcileBatch)
	}
	if cfg.JWTSecret != "flag-secret" {
		t.Errorf("expected jwt secret override, got %q", cfg.JWTSecret)
	}
	if !cfg.StrictPricing {
		t.Errorf("expected strict pricing from env")
	}
	if !cfg.StrictTransitions {
		t.Errorf("expected strict transitions from flag")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.LogLevel)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("expected bcrypt cost 12 from env, got %d", cfg.BcryptCost)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		env  map[string]string
		want string
	}{
		{"store timeout", []string{"--store-timeout", "bad"}, baseEnv(), "invalid store timeout"},
		{"jwt ttl", []string{"--jwt-ttl", "bad"}, baseEnv(), "invalid jwt ttl"},
		{"reconcile interval", []string{"--reconcile-interval", "bad"}, baseEnv(), "invalid reconcile interval"},
		{"shutdown timeout", []string{"--shutdown-timeout", "bad"}, baseEnv(), "invalid shutdown timeout"},
		{"relative url", []string{"-s", "/rest"}, baseEnv(), "must be absolute"},
		{"missing key", nil, map[string]string{"SUPABASE_URL": "http://store"}, "API key must be provided"},
		{"unknown flag", []string{"--nope"}, baseEnv(), "parse flags"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := load(tc.args, lookupFrom(tc.env))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q error, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadNormalizesNonPositiveValues(t *testing.T) {
	env := baseEnv()
	env["WORKER_POOL_SIZE"] = "-1"
	env["RECONCILE_BATCH"] = "0"
	env["RECONCILE_INTERVAL"] = "0"
	env["SHUTDOWN_TIMEOUT"] = "0"
	env["STORE_TIMEOUT"] = "-5s"
	env["JWT_TTL"] = "0"

	cfg, err := load(nil, lookupFrom(env))
	if err != nil {
		t.Fatalf("load returned unexpected error: %v", err)
	}

	if cfg.WorkerPoolSize != defaultWorkerPoolSize {
		t.Errorf("expected default worker pool %d, got %d", defaultWorkerPoolSize, cfg.WorkerPoolSize)
	}
	if cfg.ReconcileBatch != defaultReconcileBatch {
		t.Errorf("expected default batch size %d, got %d", defaultReconcileBatch, cfg.ReconcileBatch)
	}
	if cfg.ReconcileInterval != defaultReconcileInterval {
		t.Errorf("expected default reconcile interval %v, got %v", defaultReconcileInterval, cfg.ReconcileInterval)
	}
	if cfg.ShutdownTimeout != defaultShutdownTimeout {
		t.Errorf("expected default shutdown timeout %v, got %v", defaultShutdownTimeout, cfg.ShutdownTimeout)
	}
	if cfg.StoreTimeout != defaultStoreTimeout {
		t.Errorf("expected default store timeout %v, got %v", defaultStoreTimeout, cfg.StoreTimeout)
	}
	if cfg.JWTTTL != defaultJWTTTL {
		t.Errorf("expected default jwt ttl %v, got %v", defaultJWTTTL, cfg.JWTTTL)
	}
}

func TestLoadReadsSecretsFromFiles(t *testing.T) {
	dir := t.TempDir()
	secretFile := filepath.Join(dir, "secret")
	if err := os.WriteFile(secretFile, []byte("file-secret\n"), 0o600); err != nil {
		t.Fatalf("failed to write secret file: %v", err)
	}
	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("file-key"), 0o600); err != nil {
		t.Fatalf("failed to write key file: %v", err)
	}

	env := map[string]string{
		"SUPABASE_URL":          "https://project.supabase.co",
		"SUPABASE_API_KEY_FILE": keyFile,
		"JWT_SECRET_FILE":       secretFile,
	}

	cfg, err := load(nil, lookupFrom(env))
	if err != nil {
		t.Fatalf("load returned unexpected error: %v", err)
	}

	if cfg.JWTSecret != "file-secret" {
		t.Errorf("expected secret from file, got %q", cfg.JWTSecret)
	}
	if cfg.StoreAPIKey != "file-key" {
		t.Errorf("expected api key from file, got %q", cfg.StoreAPIKey)
	}
}

func TestLoadMissingSecretFile(t *testing.T) {
	env := baseEnv()
	env["JWT_SECRET_FILE"] = filepath.Join(t.TempDir(), "missing")

	if _, err := load(nil, lookupFrom(env)); err == nil {
		t.Fatal("expected error for missing secret file")
	}
}

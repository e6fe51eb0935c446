package config

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mcm-analyzer/backend/providers"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, pc := range providers.Registry() {
		t.Setenv(pc.EnvKey, "")
		os.Unsetenv(pc.EnvKey)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")
	t.Setenv("DATA_DIR", "")
	os.Unsetenv("DATA_DIR")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8082" {
		t.Errorf("Expected default port 8082, got %q", cfg.Port)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("Expected default data dir, got %q", cfg.DataDir)
	}
	if cfg.DevMode {
		t.Error("Dev mode should default to off")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("PORT", "9001")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9001" {
		t.Errorf("Expected port 9001, got %q", cfg.Port)
	}
	if !cfg.DevMode {
		t.Error("Expected dev mode on")
	}
	creds := cfg.CredentialsFor("OPENAI_API_KEY")
	if creds == nil || creds.APIKey != "sk-test" {
		t.Errorf("Expected OpenAI credentials, got %+v", creds)
	}
	if cfg.CredentialsFor("GROQ_API_KEY") != nil {
		t.Error("Unset key should yield nil credentials")
	}
}

func TestValidate(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	v := cfg.Validate()
	if v.IsValid {
		t.Error("Validation should fail with eight keys missing")
	}
	if len(v.Missing) != 8 {
		t.Errorf("Expected 8 missing keys, got %d: %v", len(v.Missing), v.Missing)
	}
	for _, missing := range v.Missing {
		if missing == "OPENAI_API_KEY" {
			t.Error("A configured key should not be reported missing")
		}
	}

	models := cfg.AvailableModels()
	if len(models) != 1 || models[0] != providers.NameGPT4o {
		t.Errorf("Expected only GPT-4o available, got %v", models)
	}
}

func TestLoadMissingOverridesFileTolerated(t *testing.T) {
	clearProviderEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("A missing overrides file should not fail startup: %v", err)
	}
}

func TestLoadRejectsMalformedOverrides(t *testing.T) {
	clearProviderEnv(t)
	path := filepath.Join(t.TempDir(), "providers.yaml")
	if err := os.WriteFile(path, []byte(":\n\t- not yaml"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Malformed overrides should fail loudly")
	}
}

func TestBuildProvidersAppliesOverrides(t *testing.T) {
	received := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		json.Unmarshal(body, &req)
		received <- req["model"].(string)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "ok"}},
			},
		})
	}))
	defer server.Close()

	clearProviderEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	path := filepath.Join(t.TempDir(), "providers.yaml")
	overrides := "providers:\n  GPT-4o:\n    model: gpt-4o-mini\n    endpoint: " + server.URL + "\n"
	if err := os.WriteFile(path, []byte(overrides), 0644); err != nil {
		t.Fatalf("Failed to write overrides: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	built := cfg.BuildProviders(server.Client())
	if len(built) != 9 {
		t.Fatalf("Expected all 9 providers, got %d", len(built))
	}

	var gpt *providers.Provider
	for _, p := range built {
		if p.Name() == providers.NameGPT4o {
			gpt = p
		}
	}
	if gpt == nil {
		t.Fatal("GPT-4o adapter missing")
	}
	if !gpt.Configured() {
		t.Fatal("GPT-4o should be configured via the environment")
	}

	if _, err := gpt.Complete(context.Background(), "hello"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if model := <-received; model != "gpt-4o-mini" {
		t.Errorf("Expected the overridden model, got %q", model)
	}
}

func TestBuildProvidersWithoutCredentials(t *testing.T) {
	clearProviderEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	built := cfg.BuildProviders(nil)
	if len(built) != 9 {
		t.Fatalf("Expected all 9 providers even without keys, got %d", len(built))
	}
	for _, p := range built {
		if p.Configured() {
			t.Errorf("%s should not be configured", p.Name())
		}
	}
}

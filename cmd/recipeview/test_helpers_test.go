package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"recipeview/internal/config"
	"recipeview/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	server     *testsupport.ImageServer
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, recipes ...testsupport.Recipe) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("RECIPEVIEW_DATASET", "")
	t.Setenv("RECIPEVIEW_ASSET_DIR", "")

	srv := testsupport.NewImageServer(t, 120, 80)
	cfg := testsupport.NewConfig(t, testsupport.WithIntakeLimit(2))
	cfg.Logging.Level = "error"

	if recipes == nil {
		recipes = []testsupport.Recipe{
			testsupport.NewRecipe("Chicken Dish", srv.ImageURL("chicken-dish.jpg")).
				With("description", "Crispy and golden").
				With("ingredients", []string{"1 chicken", "salt"}),
			testsupport.NewRecipe("Png Salad", srv.ImageURL("salad.png")),
			testsupport.NewRecipe("Noodles", srv.ImageURL("noodles.jpg")).With("cookTime", "PT90M"),
			testsupport.NewRecipe("Late Soup", srv.ImageURL("soup.jpg")),
		}
	}
	testsupport.WriteDataset(t, cfg.Paths.Dataset, recipes...)

	configPath := filepath.Join(homeDir, ".config", "recipeview", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		server:     srv,
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}

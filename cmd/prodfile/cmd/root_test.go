package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ssargent/prodfile/pkg/api"
	"github.com/ssargent/prodfile/pkg/client"
	"github.com/ssargent/prodfile/pkg/config"
	"github.com/ssargent/prodfile/pkg/di"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	dir        string
	configPath string
	dataFile   string
}

func setupTestEnv(t *testing.T, mutate func(*config.Config)) *testEnv {
	t.Helper()
	SetContainer(di.NewContainer())

	dir := t.TempDir()
	env := &testEnv{
		dir:        dir,
		configPath: filepath.Join(dir, "config.yaml"),
		dataFile:   filepath.Join(dir, "products.dat"),
	}

	cfg := config.DefaultConfig()
	cfg.DataFile = env.dataFile
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, config.SaveConfig(cfg, env.configPath))
	return env
}

func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	args = append([]string{"--config", e.configPath}, args...)
	err := run(context.Background(), args, strings.NewReader(stdin), &out)
	return out.String(), err
}

func TestAddGetCount(t *testing.T) {
	env := setupTestEnv(t, nil)

	out, err := env.run(t, "", "add", "P001", "Widget", "A small widget", "19.99")
	require.NoError(t, err)
	assert.Contains(t, out, "Added P001 to slot 0")
	assert.Contains(t, out, "Record Count: 1")

	out, err = env.run(t, "", "add", " P002 ", "Gadget", "", "$5")
	require.NoError(t, err)
	assert.Contains(t, out, "Record Count: 2")

	out, err = env.run(t, "", "get", "1")
	require.NoError(t, err)
	assert.Equal(t, "ID: P002\nName: Gadget\nDescription: \nCost: $5.00\n-----------------------------------------\n", out)

	out, err = env.run(t, "", "count")
	require.NoError(t, err)
	assert.Equal(t, "Record Count: 2\n", out)

	info, err := os.Stat(env.dataFile)
	require.NoError(t, err)
	assert.Equal(t, int64(252), info.Size())
}

func TestAddRejectsInvalidInput(t *testing.T) {
	env := setupTestEnv(t, nil)

	_, err := env.run(t, "", "add", "TOOLONG", "Widget", "", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id must be at most 6 characters")

	_, err = env.run(t, "", "add", "P1", "Widget", "", "abc")
	assert.ErrorIs(t, err, client.ErrInvalidCost)

	out, err := env.run(t, "", "count")
	require.NoError(t, err)
	assert.Equal(t, "Record Count: 0\n", out)
}

func TestGetOutOfRange(t *testing.T) {
	env := setupTestEnv(t, nil)

	_, err := env.run(t, "", "get", "0")
	assert.Error(t, err)

	_, err = env.run(t, "", "get", "x")
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	env := setupTestEnv(t, nil)

	_, err := env.run(t, "", "add", "A1", "Alpha Tool", "", "1")
	require.NoError(t, err)
	_, err = env.run(t, "", "add", "W1", "Widget", "", "2")
	require.NoError(t, err)
	_, err = env.run(t, "", "add", "B1", "Beta Tool", "", "3")
	require.NoError(t, err)

	out, err := env.run(t, "", "search", "tool")
	require.NoError(t, err)
	alpha := strings.Index(out, "Name: Alpha Tool")
	beta := strings.Index(out, "Name: Beta Tool")
	require.True(t, alpha >= 0 && beta > alpha, out)
	assert.NotContains(t, out, "Widget")

	out, err = env.run(t, "", "search", "zzz")
	require.NoError(t, err)
	assert.Equal(t, "No products found matching the name: zzz\n", out)

	out, err = env.run(t, "", "--json", "search", "idg")
	require.NoError(t, err)
	var res client.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Matches, 1)
	assert.Equal(t, int64(1), res.Matches[0].Slot)
}

func TestScan(t *testing.T) {
	env := setupTestEnv(t, nil)

	_, err := env.run(t, "", "add", "P1", "Widget", "", "1")
	require.NoError(t, err)
	_, err = env.run(t, "", "add", "P2", "Gadget", "", "2")
	require.NoError(t, err)

	out, err := env.run(t, "", "scan")
	require.NoError(t, err)
	assert.Contains(t, out, "Name: Widget")
	assert.Contains(t, out, "Name: Gadget")
	assert.Contains(t, out, "Record Count: 2")
}

func TestFileFlagOverridesConfig(t *testing.T) {
	env := setupTestEnv(t, nil)
	other := filepath.Join(env.dir, "other.dat")

	_, err := env.run(t, "", "--file", other, "add", "P1", "Widget", "", "1")
	require.NoError(t, err)

	assert.FileExists(t, other)
	out, err := env.run(t, "", "count")
	require.NoError(t, err)
	assert.Equal(t, "Record Count: 0\n", out)
}

func TestMissingExplicitConfig(t *testing.T) {
	SetContainer(di.NewContainer())
	var out bytes.Buffer
	err := run(context.Background(),
		[]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "count"},
		strings.NewReader(""), &out)
	assert.Error(t, err)
}

func TestBackupRestore(t *testing.T) {
	env := setupTestEnv(t, nil)
	archive := filepath.Join(env.dir, "products.dat.zst")

	_, err := env.run(t, "", "add", "P1", "Widget", "", "1")
	require.NoError(t, err)

	out, err := env.run(t, "", "backup", archive)
	require.NoError(t, err)
	assert.Contains(t, out, "Backed up 1 records")

	_, err = env.run(t, "", "restore", archive)
	require.Error(t, err, "restore must not replace an existing file without --force")

	restored := filepath.Join(env.dir, "restored.dat")
	out, err = env.run(t, "", "--file", restored, "restore", archive)
	require.NoError(t, err)
	assert.Contains(t, out, "Restored 1 records")

	out, err = env.run(t, "", "--file", restored, "get", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Name: Widget")
}

func TestJournal(t *testing.T) {
	env := setupTestEnv(t, func(cfg *config.Config) { cfg.Journal.Enabled = true })

	_, err := env.run(t, "", "add", "P1", "Widget", "", "1.5")
	require.NoError(t, err)

	out, err := env.run(t, "", "journal")
	require.NoError(t, err)
	assert.Contains(t, out, "Widget")
	assert.Contains(t, out, "1.50")
	assert.DirExists(t, filepath.Join(env.dir, "journal"))
}

func TestJournalDisabled(t *testing.T) {
	env := setupTestEnv(t, nil)

	_, err := env.run(t, "", "journal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal is disabled")
}

func TestConfigInit(t *testing.T) {
	SetContainer(di.NewContainer())
	dir := t.TempDir()
	configPath := filepath.Join(dir, "prodfile.yaml")

	var out bytes.Buffer
	err := run(context.Background(),
		[]string{"--config", configPath, "--file", "/srv/products.dat", "config", "init", "--print-key"},
		strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "API Key: ")

	cfg, err := config.LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "/srv/products.dat", cfg.DataFile)
	assert.Len(t, cfg.Security.APIKey, 64)

	err = run(context.Background(),
		[]string{"--config", configPath, "config", "init"},
		strings.NewReader(""), &out)
	assert.Error(t, err)
}

type fakeStarter struct {
	deps   api.Dependencies
	config api.ServerConfig
}

func (f *fakeStarter) StartServer(_ context.Context, deps api.Dependencies, config api.ServerConfig) error {
	f.deps = deps
	f.config = config
	return nil
}

type fakeFactory struct{ starter *fakeStarter }

func (f *fakeFactory) CreateServerStarter() api.ServerStarter { return f.starter }

func TestServe(t *testing.T) {
	env := setupTestEnv(t, func(cfg *config.Config) { cfg.Security.APIKey = "from-config" })

	starter := &fakeStarter{}
	c := di.NewContainer()
	c.SetServerFactory(&fakeFactory{starter: starter})
	SetContainer(c)

	var out bytes.Buffer
	err := run(context.Background(),
		[]string{"--config", env.configPath, "serve", "--port", "9000"},
		strings.NewReader(""), &out)
	require.NoError(t, err)

	assert.Equal(t, 9000, starter.config.Port)
	assert.Equal(t, "127.0.0.1", starter.config.Bind)
	assert.Equal(t, "from-config", starter.config.APIKey)
	assert.NotNil(t, starter.deps.Store)
	assert.Nil(t, starter.deps.Journal)
}

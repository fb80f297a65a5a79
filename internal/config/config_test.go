package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flynn-ai/baymax/internal/errors"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, cfg.Model.Name)
	assert.Equal(t, "Baymax: ", cfg.Assistant.EchoPrefix)
	assert.Len(t, cfg.Models, 3)
	require.NoError(t, cfg.Validate())
}

func TestLoadMergesCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baymax.toml")
	content := `
[model]
name = "phi-3"
backend = "openai"

[models.phi-3]
path = "/srv/models/phi-3.gguf"
n_ctx = 8192
temperature = 0.5
max_tokens = 256
chat_format = "chatml"

[capabilities.search]
max_results = 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendOpenAI, cfg.Model.Backend)
	assert.Equal(t, 3, cfg.Capabilities.Search.MaxResults)
	assert.Contains(t, cfg.Models, "phi-3")
	assert.Contains(t, cfg.Models, DefaultModel)

	mc, err := cfg.ResolveModel()
	require.NoError(t, err)
	assert.Equal(t, "/srv/models/phi-3.gguf", mc.Path)
	assert.Equal(t, 8192, mc.ContextSize)
	assert.Equal(t, 0.5, mc.Temperature)
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[model\nname="), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeConfigInvalid))
}

func TestResolveDefaultModel(t *testing.T) {
	cfg := Default()
	mc, err := cfg.ResolveModel()
	require.NoError(t, err)

	assert.Equal(t, "gemma-3n-E2B-it-IQ4_XS", mc.Name)
	assert.Equal(t, filepath.Join("models", "gemma-3n-E2B-it-IQ4_XS.gguf"), mc.Path)
	assert.Equal(t, 2048, mc.ContextSize)
	assert.Equal(t, runtime.NumCPU(), mc.Threads)
	assert.Equal(t, 0, mc.GPULayers)
	assert.Equal(t, 0.8, mc.Temperature)
	assert.Equal(t, 512, mc.MaxTokens)
	assert.Equal(t, 0.95, mc.TopP)
	assert.Equal(t, 40, mc.TopK)
	assert.Equal(t, "chatml", mc.ChatFormat)
}

func TestResolveUnknownModel(t *testing.T) {
	cfg := Default()
	cfg.Model.Name = "gpt-9"

	_, err := cfg.ResolveModel()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeUnknownModel))
	assert.Equal(t, errors.CategoryUser, errors.GetCategory(err))
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		EnvModel:     "mistral-7b-instruct",
		EnvGPULayers: "12",
		EnvThreads:   "3",
		EnvGmailUser: "baymax@example.com",
		EnvGmailPass: "secret",
	}))
	require.NoError(t, err)

	mc, err := cfg.ResolveModel()
	require.NoError(t, err)
	assert.Equal(t, "mistral-7b-instruct", mc.Name)
	assert.Equal(t, 12, mc.GPULayers)
	assert.Equal(t, 3, mc.Threads)
	assert.Equal(t, "mistral", mc.ChatFormat)
	assert.Equal(t, "baymax@example.com", cfg.Capabilities.Email.Username)
	assert.Equal(t, "secret", cfg.Capabilities.Email.Password)
}

func TestApplyEnvRejectsBadIntegers(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"gpu layers not a number", map[string]string{EnvGPULayers: "lots"}},
		{"negative gpu layers", map[string]string{EnvGPULayers: "-1"}},
		{"zero threads", map[string]string{EnvThreads: "0"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Default().ApplyEnv(envMap(tc.env))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.CodeConfigInvalid))
		})
	}
}

func TestValidateBackend(t *testing.T) {
	cfg := Default()
	cfg.Model.Backend = "onnx"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model.backend")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "baymax.toml")
	cfg := Default()
	cfg.Assistant.ResponseTimeoutSeconds = 30
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, loaded.Assistant.ResponseTimeoutSeconds)
	assert.Equal(t, cfg.Models, loaded.Models)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BAYMAX_TEST_DOTENV=loaded\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("BAYMAX_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("BAYMAX_TEST_DOTENV"))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}

func TestModelNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"gemma-3n-E2B-it-IQ4_XS", "llama-7b-chat", "mistral-7b-instruct"}, Default().ModelNames())
}

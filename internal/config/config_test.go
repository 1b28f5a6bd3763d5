package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meowafisha/meowmap/internal/crypto"
)

func TestLoad_FirstRunWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "meowafisha", cfg.VK.Domain)
	assert.Equal(t, "Europe/Kaliningrad", cfg.Timezone)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoad_PartialFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := "listen: \"0.0.0.0:9000\"\nvk:\n  domain: someclub\n"
	require.NoError(t, os.WriteFile(path, []byte(partial), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Listen)
	assert.Equal(t, "someclub", cfg.VK.Domain)
	assert.Equal(t, 300, cfg.VK.MaxPosts, "missing values should default")
	assert.Equal(t, "0 */6 * * *", cfg.RefreshCron)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unterminated"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.VK.Token = "vk1.a.secret"
	cfg.Telegram.ChatID = "@meowafisha"
	require.NoError(t, cfg.Save(path))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "vk1.a.secret", reloaded.VK.Token)
	assert.Equal(t, "@meowafisha", reloaded.Telegram.ChatID)
}

func TestDurationHelpers(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 350*time.Millisecond, cfg.VK.Pause())
	assert.Equal(t, 1100*time.Millisecond, cfg.Geocode.MinDelay())
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestApplyEnv_EnvironmentWins(t *testing.T) {
	t.Setenv(EnvVKToken, "env-token")
	t.Setenv(EnvTelegramToken, "")
	t.Setenv(EnvTelegramChat, "12345")
	t.Setenv(EnvYandexAPIKey, "")
	t.Setenv(EnvPassphrase, "")

	cfg := DefaultConfig()
	cfg.VK.Token = "file-token"
	cfg.Telegram.Token = "file-telegram"

	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "env-token", cfg.VK.Token)
	assert.Equal(t, "file-telegram", cfg.Telegram.Token, "file value kept when env empty")
	assert.Equal(t, "12345", cfg.Telegram.ChatID)
}

func TestApplyEnv_DecryptsFileTokens(t *testing.T) {
	const passphrase = "map-passphrase"

	enc := crypto.NewEncryptor(passphrase)
	encrypted, err := enc.Encrypt("vk1.a.secret")
	require.NoError(t, err)

	t.Setenv(EnvVKToken, "")
	t.Setenv(EnvTelegramToken, "")
	t.Setenv(EnvTelegramChat, "")
	t.Setenv(EnvYandexAPIKey, "")
	t.Setenv(EnvPassphrase, passphrase)

	cfg := DefaultConfig()
	cfg.VK.Token = encrypted

	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "vk1.a.secret", cfg.VK.Token)
}

func TestEncryptSecretsRoundTrip(t *testing.T) {
	const passphrase = "map-passphrase"

	cfg := DefaultConfig()
	cfg.VK.Token = "vk1.a.secret"
	cfg.Telegram.Token = "123:telegram"

	require.NoError(t, cfg.EncryptSecrets(passphrase))
	assert.NotEqual(t, "vk1.a.secret", cfg.VK.Token)
	assert.NotEqual(t, "123:telegram", cfg.Telegram.Token)

	t.Setenv(EnvVKToken, "")
	t.Setenv(EnvTelegramToken, "")
	t.Setenv(EnvTelegramChat, "")
	t.Setenv(EnvYandexAPIKey, "")
	t.Setenv(EnvPassphrase, passphrase)

	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "vk1.a.secret", cfg.VK.Token)
	assert.Equal(t, "123:telegram", cfg.Telegram.Token)
}

func TestEncryptSecrets_EmptyPassphrase(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.EncryptSecrets(""))
}

func TestLoadEnv_MissingFileIsFine(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "nope.env")))
}

func TestLoadEnv_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MEOWMAP_ENV_PROBE=from-file\n"), 0o600))

	require.NoError(t, LoadEnv(path))
	t.Cleanup(func() { os.Unsetenv("MEOWMAP_ENV_PROBE") })
	assert.Equal(t, "from-file", os.Getenv("MEOWMAP_ENV_PROBE"))
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/meowafisha/meowmap/internal/crypto"
)

// Environment variable names recognized by ApplyEnv.
const (
	EnvVKToken       = "VK_TOKEN"
	EnvTelegramToken = "TELEGRAM_BOT_TOKEN"
	EnvTelegramChat  = "TELEGRAM_CHAT_ID"
	EnvYandexAPIKey  = "YANDEX_API_KEY"
	EnvPassphrase    = "MEOWMAP_PASSPHRASE"
)

// LoadEnv reads a .env file if one exists at path. A missing file is
// not an error; environment variables already set win over the file.
func LoadEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays credentials from the environment onto cfg and
// decrypts file-stored tokens when MEOWMAP_PASSPHRASE is set. Values
// from the environment are taken as plaintext and always win over the
// config file.
func (c *Config) ApplyEnv() error {
	enc := crypto.NewEncryptor(os.Getenv(EnvPassphrase))

	var err error
	if c.VK.Token, err = resolveSecret(enc, os.Getenv(EnvVKToken), c.VK.Token); err != nil {
		return fmt.Errorf("vk token: %w", err)
	}
	if c.Telegram.Token, err = resolveSecret(enc, os.Getenv(EnvTelegramToken), c.Telegram.Token); err != nil {
		return fmt.Errorf("telegram token: %w", err)
	}
	if c.Geocode.YandexAPIKey, err = resolveSecret(enc, os.Getenv(EnvYandexAPIKey), c.Geocode.YandexAPIKey); err != nil {
		return fmt.Errorf("yandex api key: %w", err)
	}
	if chat := strings.TrimSpace(os.Getenv(EnvTelegramChat)); chat != "" {
		c.Telegram.ChatID = chat
	}
	return nil
}

// EncryptSecrets encrypts the stored tokens with the given passphrase
// so the config file can be committed or synced without exposing them.
func (c *Config) EncryptSecrets(passphrase string) error {
	enc := crypto.NewEncryptor(passphrase)
	if enc == nil {
		return fmt.Errorf("empty passphrase")
	}

	var err error
	if c.VK.Token, err = enc.Encrypt(c.VK.Token); err != nil {
		return fmt.Errorf("vk token: %w", err)
	}
	if c.Telegram.Token, err = enc.Encrypt(c.Telegram.Token); err != nil {
		return fmt.Errorf("telegram token: %w", err)
	}
	if c.Geocode.YandexAPIKey, err = enc.Encrypt(c.Geocode.YandexAPIKey); err != nil {
		return fmt.Errorf("yandex api key: %w", err)
	}
	return nil
}

// resolveSecret prefers the environment value, then the (possibly
// encrypted) file value.
func resolveSecret(enc *crypto.Encryptor, envValue, fileValue string) (string, error) {
	if v := strings.TrimSpace(envValue); v != "" {
		return v, nil
	}
	return enc.Decrypt(fileValue)
}

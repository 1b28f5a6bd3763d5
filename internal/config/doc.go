// Package config loads the YAML application configuration and overlays
// credentials from the environment.
//
// The config file is created on first run with 0600 permissions since
// it may hold API tokens. Tokens can additionally be encrypted at rest
// with a passphrase (MEOWMAP_PASSPHRASE); see EncryptSecrets. A .env
// file next to the binary is honored for local development.
package config

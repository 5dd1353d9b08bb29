package credentials

import (
	"os"

	"github.com/joho/godotenv"
)

// ResolveKey resolves the API key for a provider without touching the
// network. Sources are checked in order:
//  1. The environment variable named by envVar.
//  2. A .env file in the current working directory.
//  3. The stored credentials.toml.
//  4. For huggingface, the token cached by the hub CLI.
//
// Returns an empty string when no source has a key; callers decide whether
// that is fatal for their provider.
func (m *Manager) ResolveKey(provider, envVar string) (string, error) {
	if envVar != "" {
		if key := os.Getenv(envVar); key != "" {
			return key, nil
		}

		if env, err := godotenv.Read(); err == nil {
			if key := env[envVar]; key != "" {
				return key, nil
			}
		}
	}

	key, err := m.GetKey(provider)
	if err != nil {
		return "", err
	}
	if key != "" {
		return key, nil
	}

	if provider == "huggingface" {
		if token, ok := ReadHubCLIToken(); ok {
			return token, nil
		}
	}

	return "", nil
}

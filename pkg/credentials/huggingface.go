package credentials

import (
	"os"
	"path/filepath"
	"strings"
)

// ReadHubCLIToken reads the token cached by the Hugging Face hub CLI after
// `huggingface-cli login`. The token lives at $HF_HOME/token, defaulting to
// ~/.cache/huggingface/token, with ~/.huggingface/token as the legacy
// location. Returns "", false if no token file can be read.
func ReadHubCLIToken() (string, bool) {
	for _, path := range hubTokenPaths() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		token := strings.TrimSpace(string(data))
		if token != "" {
			return token, true
		}
	}

	return "", false
}

func hubTokenPaths() []string {
	var paths []string

	if hfHome := os.Getenv("HF_HOME"); hfHome != "" {
		paths = append(paths, filepath.Join(hfHome, "token"))
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return paths
	}

	return append(paths,
		filepath.Join(home, ".cache", "huggingface", "token"),
		filepath.Join(home, ".huggingface", "token"),
	)
}

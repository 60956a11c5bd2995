// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials for the pipeline.
// Keys come from two places: a directory of plain-text files (the
// filename is the key name, the trimmed contents the value) and an
// optional .env file merged via godotenv. Directory files win over
// .env entries of the same name.
//
// Supported key names: google-api-key, naver-client-id,
// naver-client-secret, openai-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Key names used by the pipeline.
const (
	KeyGoogleAPIKey      = "google-api-key"
	KeyNaverClientID     = "naver-client-id"
	KeyNaverClientSecret = "naver-client-secret"
	KeyOpenAIAPIKey      = "openai-api-key"
)

// envAliases maps .env variable names (the convention the pipeline's
// operators inherited) to secret key names.
var envAliases = map[string]string{
	"GOOGLE_API_KEY":      KeyGoogleAPIKey,
	"NAVER_CLIENT_ID":     KeyNaverClientID,
	"NAVER_CLIENT_SECRET": KeyNaverClientSecret,
	"OPENAI_API_KEY":      KeyOpenAIAPIKey,
}

// Load reads credentials from envFile (ignored if absent) and then from
// every file in dir. A missing directory or missing files are not
// errors; Load returns whatever it found. Unreadable files produce a
// warning on stderr but do not abort.
func Load(dir, envFile string) (map[string]string, error) {
	secrets := make(map[string]string)

	if envFile != "" {
		if env, err := godotenv.Read(envFile); err == nil {
			for name, key := range envAliases {
				if v := strings.TrimSpace(env[name]); v != "" {
					secrets[key] = v
				}
			}
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return secrets, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Require returns the value for key or an error naming it. Missing
// credentials are the one fatal error class: the batch must abort
// before any topic is processed.
func Require(secrets map[string]string, key string) (string, error) {
	v, ok := secrets[key]
	if !ok || v == "" {
		return "", fmt.Errorf("missing required credential %q (add .secrets/%s or the matching .env entry)", key, key)
	}
	return v, nil
}

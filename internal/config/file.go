package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arktoria/acolors/internal/support/jsonutil"
)

const defaultFileContent = `{
  "inbounds": {
    "socks5": {
      "enable": true,
      "listen": "127.0.0.1",
      "port": 4444,
      "udp_enable": true
    },
    "http": {
      "enable": true,
      "listen": "127.0.0.1",
      "port": 4445
    }
  }
}`

// readDocument loads the config file as a generic JSON document, writing
// the default skeleton first when the file is absent or empty.
func readDocument(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if len(content) == 0 {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create config dir: %w", err)
			}
		}
		if err := os.WriteFile(path, []byte(defaultFileContent), 0o644); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
		content = []byte(defaultFileContent)
	}

	var doc map[string]any
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return doc, nil
}

// writeDocument replaces the inbounds member of the on-disk document,
// prunes canonical defaults and rewrites the file.
func writeDocument(path string, inbounds Inbounds) error {
	doc, err := readDocument(path)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(inbounds)
	if err != nil {
		return fmt.Errorf("encode inbounds: %w", err)
	}
	var value any
	if err := json.Unmarshal(encoded, &value); err != nil {
		return fmt.Errorf("encode inbounds: %w", err)
	}
	doc["inbounds"] = value

	jsonutil.Prune(doc)

	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config file: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// decodeMember decodes one top-level member of the document into dst.
func decodeMember(doc map[string]any, key string, dst any) error {
	raw, ok := doc[key]
	if !ok {
		return nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, dst)
}

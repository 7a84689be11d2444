package discord

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const defaultCacheDir = "data/commands"

// hashCachePath is the hash file of a guild; the global set uses "global".
func hashCachePath(dir, guildID string) string {
	if guildID == "" {
		guildID = "global"
	}
	return filepath.Join(dir, guildID+".json")
}

// loadCommandHashes returns an empty map when nothing was cached yet.
func loadCommandHashes(dir, guildID string) (map[string]string, error) {
	out := map[string]string{}
	data, err := os.ReadFile(hashCachePath(dir, guildID))
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("read command hashes: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]string{}, fmt.Errorf("decode command hashes: %w", err)
	}
	return out, nil
}

func saveCommandHashes(dir, guildID string, hashes map[string]string) error {
	path := hashCachePath(dir, guildID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create command cache dir: %w", err)
	}
	data, err := json.MarshalIndent(hashes, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func clearCommandHashes(dir, guildID string) error {
	err := os.Remove(hashCachePath(dir, guildID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove command hashes: %w", err)
	}
	return nil
}

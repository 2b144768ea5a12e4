package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Story operations (filesystem-backed)

func (r *RedisStorage) storiesDir() string {
	return filepath.Join(r.dataDir, "stories")
}

func (r *RedisStorage) listStoryFiles() ([]string, error) {
	entries, err := os.ReadDir(r.storiesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read stories directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != StoryExt {
			continue
		}
		name := entry.Name()[:len(entry.Name())-len(StoryExt)]
		if ValidateName(name) != nil {
			r.logger.Warn("Skipping story file with invalid name", "file", entry.Name())
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func (r *RedisStorage) readStoryFile(name string) (string, error) {
	path := filepath.Join(r.storiesDir(), name+StoryExt)
	r.logger.Debug("Loading story", "name", name, "full_path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("failed to read story file: %w", err)
	}
	return string(data), nil
}

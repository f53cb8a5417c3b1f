package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Domenick1991/thsrbook/config"
	"github.com/Domenick1991/thsrbook/internal/domain"
	"github.com/redis/go-redis/v9"
)

// PresetStore keeps the preset list as one JSON value under a single key.
type PresetStore struct {
	client *redis.Client
	key    string
}

func NewPresetStore(cfg config.RedisConfig, key string) *PresetStore {
	return &PresetStore{client: newClient(cfg), key: key}
}

func (s *PresetStore) Load(ctx context.Context) ([]domain.Preset, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []domain.Preset{}, nil
		}
		return nil, fmt.Errorf("load presets: %w", err)
	}

	var presets []domain.Preset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	return presets, nil
}

func (s *PresetStore) Save(ctx context.Context, presets []domain.Preset) error {
	payload, err := json.Marshal(presets)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, payload, 0).Err()
}

func (s *PresetStore) Close() error {
	return s.client.Close()
}

package cache

import (
	"testing"
	"time"

	"github.com/Domenick1991/thsrbook/config"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisCache(t *testing.T) {
	c := NewRedisCache(config.RedisConfig{Addr: "localhost:6379", HistoryTTLSeconds: 90})
	defer c.Close()

	assert.Equal(t, 90*time.Second, c.historyTTL)
	assert.Equal(t, "cache:reservations", reservationsKey())
}

func TestNewPresetStore(t *testing.T) {
	s := NewPresetStore(config.RedisConfig{Addr: "localhost:6379"}, "thsrbook:presets")
	defer s.Close()

	assert.Equal(t, "thsrbook:presets", s.key)
}

package session

import (
	"testing"

	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passgate/passgate/internal/config"
)

func TestNewStorage(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SessionStorage
		want    any
		wantErr error
	}{
		{name: "default", cfg: config.SessionStorage{}, want: &memory.Storage{}},
		{name: "memory", cfg: config.SessionStorage{Type: config.StorageMemory}, want: &memory.Storage{}},
		{
			name: "redis",
			cfg:  config.SessionStorage{Type: config.StorageRedis, Redis: config.Redis{Addr: "127.0.0.1:0"}},
			want: &RedisStorage{},
		},
		{name: "unknown", cfg: config.SessionStorage{Type: "etcd"}, wantErr: ErrUnknownStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStorage(tt.cfg, config.DB{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.want, s)
			assert.NoError(t, s.Close())
		})
	}
}

// Package lock implementa el lock de corrida de generación de liquidaciones.
package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/tms-settlements/internal/application/settlement"
	"github.com/jhoicas/tms-settlements/internal/domain"
	"github.com/jhoicas/tms-settlements/pkg/config"
)

const keyPrefix = "tms:lock:"

// releaseScript borra la clave solo si el token sigue siendo el nuestro
// (el lock pudo expirar y ser tomado por otra instancia).
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

var _ settlement.RunLocker = (*RedisRunLocker)(nil)

// RedisRunLocker lock distribuido con SET NX PX; válido entre varias instancias del API.
type RedisRunLocker struct {
	client *redis.Client
}

// NewRedisClient abre el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return client, nil
}

// NewRedisRunLocker construye el locker con un cliente existente.
func NewRedisRunLocker(client *redis.Client) *RedisRunLocker {
	return &RedisRunLocker{client: client}
}

// TryLock toma el lock sin esperar. domain.ErrLockNotAcquired si otra corrida lo tiene;
// cualquier otro error es de infraestructura.
func (l *RedisRunLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	fullKey := keyPrefix + key
	ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis SETNX %s: %w", fullKey, err)
	}
	if !ok {
		return nil, domain.ErrLockNotAcquired
	}
	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{fullKey}, token).Err(); err != nil {
			return fmt.Errorf("redis liberar %s: %w", fullKey, err)
		}
		return nil
	}
	return release, nil
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generar token de lock: %w", err)
	}
	return hex.EncodeToString(b), nil
}

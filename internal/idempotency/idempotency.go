// Package idempotency lets clients safely retry POST requests by sending an
// Idempotency-Key header. The first request with a key runs normally and its
// response is stored in Redis; later requests with the same key get the
// stored response back without touching the ledger.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nimasrn/finance-ledger/pkg/logger"
	"github.com/nimasrn/finance-ledger/pkg/redis"
)

var (
	// ErrInProgress means another request holding the same key has not finished yet.
	ErrInProgress = errors.New("a request with this idempotency key is in progress")
	// ErrKeyReused means the key was already used with a different request body.
	ErrKeyReused = errors.New("idempotency key was used with a different request")
)

const MaxKeyLength = 255

type Config struct {
	// LockTTL bounds how long an unfinished request blocks its key.
	LockTTL time.Duration

	// ResponseTTL is how long a completed response can be replayed.
	ResponseTTL time.Duration

	LockKeyPrefix string

	ResponseKeyPrefix string

	// OpTimeout bounds every Redis round trip.
	OpTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		LockTTL:           30 * time.Second,
		ResponseTTL:       24 * time.Hour,
		LockKeyPrefix:     "idem:lock:",
		ResponseKeyPrefix: "idem:resp:",
		OpTimeout:         time.Second,
	}
}

// StoredResponse is what a replay sends back.
type StoredResponse struct {
	Fingerprint string `json:"fingerprint"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type Service struct {
	redis  redis.RedisAdapter
	config Config
}

func NewService(redisAdapter redis.RedisAdapter, config Config) *Service {
	def := DefaultConfig()
	if config.LockTTL <= 0 {
		config.LockTTL = def.LockTTL
	}
	if config.ResponseTTL <= 0 {
		config.ResponseTTL = def.ResponseTTL
	}
	if config.LockKeyPrefix == "" {
		config.LockKeyPrefix = def.LockKeyPrefix
	}
	if config.ResponseKeyPrefix == "" {
		config.ResponseKeyPrefix = def.ResponseKeyPrefix
	}
	if config.OpTimeout <= 0 {
		config.OpTimeout = def.OpTimeout
	}
	return &Service{
		redis:  redisAdapter,
		config: config,
	}
}

// Claim is held by the request that owns a key until Complete or Release.
type Claim struct {
	Key         string
	Fingerprint string
	held        bool
}

// Fingerprint identifies a request body so a key cannot be replayed against
// a different payload.
func Fingerprint(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// Begin either returns a stored response for key, or claims the key for the
// caller. ErrInProgress and ErrKeyReused are returned when neither applies.
func (s *Service) Begin(ctx context.Context, key, fingerprint string) (*Claim, *StoredResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.OpTimeout)
	defer cancel()

	stored, err := s.lookup(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	if stored != nil {
		if stored.Fingerprint != fingerprint {
			return nil, nil, ErrKeyReused
		}
		logger.Info("[idempotency] replaying stored response", "key", key, "status", stored.Status)
		return nil, stored, nil
	}

	lockValue := []byte(fmt.Sprintf("%d", time.Now().UnixNano()))
	acquired, err := s.redis.SetNX(ctx, s.config.LockKeyPrefix+key, lockValue, s.config.LockTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("acquire idempotency lock: %w", err)
	}
	if !acquired {
		// The holder may have finished between lookup and SetNX.
		if stored, err := s.lookup(ctx, key); err == nil && stored != nil && stored.Fingerprint == fingerprint {
			return nil, stored, nil
		}
		return nil, nil, ErrInProgress
	}

	logger.Debug("[idempotency] key claimed", "key", key, "lock_ttl", s.config.LockTTL)
	return &Claim{Key: key, Fingerprint: fingerprint, held: true}, nil, nil
}

// Complete stores resp for replay and releases the lock.
func (s *Service) Complete(ctx context.Context, c *Claim, resp StoredResponse) error {
	if c == nil || !c.held {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.OpTimeout)
	defer cancel()

	resp.Fingerprint = c.Fingerprint
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, s.config.ResponseKeyPrefix+c.Key, data, s.config.ResponseTTL); err != nil {
		logger.Error("[idempotency] failed to store response", "key", c.Key, "error", err)
		s.release(ctx, c)
		return fmt.Errorf("store idempotent response: %w", err)
	}
	s.release(ctx, c)
	return nil
}

// Release gives the key up without storing anything, so the client may retry.
func (s *Service) Release(ctx context.Context, c *Claim) error {
	if c == nil || !c.held {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.OpTimeout)
	defer cancel()
	return s.release(ctx, c)
}

func (s *Service) release(ctx context.Context, c *Claim) error {
	if err := s.redis.Del(ctx, s.config.LockKeyPrefix+c.Key); err != nil {
		logger.Warn("[idempotency] failed to release lock", "key", c.Key, "error", err)
		return err
	}
	c.held = false
	return nil
}

func (s *Service) lookup(ctx context.Context, key string) (*StoredResponse, error) {
	data, err := s.redis.Get(ctx, s.config.ResponseKeyPrefix+key)
	if err != nil {
		if errors.Is(err, redis.NilError) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup idempotent response: %w", err)
	}
	var resp StoredResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode idempotent response: %w", err)
	}
	return &resp, nil
}

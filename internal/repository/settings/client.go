package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

// ClientConfig holds connection parameters for the settings store.
type ClientConfig struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// Client is a rueidis-backed store for index settings hashes.
type Client struct {
	client rueidis.Client
}

// NewClient connects to the settings store.
func NewClient(cfg ClientConfig) (*Client, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Client{client: client}, nil
}

// HGetAll returns all fields of a hash. A missing key yields an empty map.
func (c *Client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	cmd := c.client.B().Hgetall().Key(key).Build()
	m, err := c.client.Do(ctx, cmd).AsStrMap()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", key, err)
	}
	return m, nil
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	cmd := c.client.B().Ping().Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for settings store: %w", ctx.Err())
		case <-ticker.C:
			if err := c.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Close shuts down the client.
func (c *Client) Close() {
	c.client.Close()
}

/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package nats

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/numaproj/reactorwatch/pkg/shared/logging"
)

// Config holds the connection settings.
type Config struct {
	URL      string
	User     string
	Password string
	// TLS enables TLS without verifying the server certificate.
	TLS bool
}

// Client is a client for NATS server which can be shared by multiple writers.
type Client struct {
	sync.Mutex
	nc  *nats.Conn
	log *zap.SugaredLogger
}

// NewNATSClient Create a new NATS client
func NewNATSClient(ctx context.Context, config Config, natsOptions ...nats.Option) (*Client, error) {
	log := logging.FromContext(ctx)
	if config.URL == "" {
		return nil, fmt.Errorf("nats url is required")
	}
	opts := []nats.Option{
		// if max reconnects is set to -1, it will try to reconnect forever
		nats.MaxReconnects(-1),
		// every three seconds we will try to ping the server, if we don't get a pong back
		// after two attempts, we will consider the connection lost and try to reconnect
		nats.PingInterval(3 * time.Second),
		nats.MaxPingsOutstanding(2),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Errorw("Nats default: error occurred for subscription", zap.Error(err))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("Nats default: connection closed")
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Errorw("Nats default: disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("Nats default: reconnected")
		}),
		// Write (and flush) timeout
		nats.FlusherTimeout(10 * time.Second),
	}
	if config.User != "" {
		opts = append(opts, nats.UserInfo(config.User, config.Password))
	}
	if config.TLS {
		opts = append(opts, nats.Secure(&tls.Config{
			InsecureSkipVerify: true,
		}))
	}

	opts = append(opts, natsOptions...)
	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats url=%s: %w", config.URL, err)
	}
	return &Client{nc: nc, log: log}, nil
}

// DefaultFlushTimeout bounds the flush of a publish when the caller's context has no deadline.
const DefaultFlushTimeout = 5 * time.Second

// Publish sends the data and waits until the server has received it.
func (c *Client) Publish(ctx context.Context, subject string, data []byte) error {
	if err := c.nc.Publish(subject, data); err != nil {
		return err
	}
	// FlushWithContext rejects contexts without a deadline
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultFlushTimeout)
		defer cancel()
	}
	return c.nc.FlushWithContext(ctx)
}

// IsHealthy returns an error if the connection is not established.
func (c *Client) IsHealthy(_ context.Context) error {
	if !c.nc.IsConnected() {
		return fmt.Errorf("nats connection status %s", c.nc.Status())
	}
	return nil
}

// Close closes the NATS client. Published data has already been flushed.
func (c *Client) Close() error {
	c.Lock()
	defer c.Unlock()
	c.nc.Close()
	return nil
}

// NewTestClient creates a new NATS client for testing
// only use this for testing
func NewTestClient(t *testing.T, url string) *Client {
	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("failed to connect to %s: %v", url, err)
	}
	return &Client{nc: nc, log: logging.NewLogger()}
}

// NewTestClientWithServer is used to get a testing client connected to the given server
func NewTestClientWithServer(t *testing.T, s *server.Server) *Client {
	return NewTestClient(t, s.ClientURL())
}

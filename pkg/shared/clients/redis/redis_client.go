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
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient datatype to hold redis client attributes.
type RedisClient struct {
	Client redis.UniversalClient
}

// NewRedisClient returns a new Redis Client.
func NewRedisClient(options *redis.UniversalOptions) *RedisClient {
	client := new(RedisClient)
	client.Client = redis.NewUniversalClient(options)
	return client
}

// NewRedisClientFromConfig returns a Redis Client for a single node, a cluster or a sentinel setup,
// depending on the number of addresses and whether a master name is given.
func NewRedisClientFromConfig(addrs []string, username, password, masterName string) *RedisClient {
	opts := &redis.UniversalOptions{
		Addrs:      addrs,
		Username:   username,
		Password:   password,
		MasterName: masterName,
	}
	if masterName != "" {
		opts.SentinelPassword = password
	}
	return NewRedisClient(opts)
}

// HSetWithTTL writes the fields of a hash and refreshes its expiry in one transaction.
// A zero ttl keeps the hash forever.
func (cl *RedisClient) HSetWithTTL(ctx context.Context, key string, ttl time.Duration, values map[string]interface{}) error {
	_, err := cl.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, values)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	return err
}

// HSet writes the fields of a hash without a transaction.
func (cl *RedisClient) HSet(ctx context.Context, key string, values map[string]interface{}) error {
	return cl.Client.HSet(ctx, key, values).Err()
}

// HGetAll returns all the fields of a hash.
func (cl *RedisClient) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return cl.Client.HGetAll(ctx, key).Result()
}

// DeleteKeys deletes a redis keys
func (cl *RedisClient) DeleteKeys(ctx context.Context, keys ...string) error {
	return cl.Client.Del(ctx, keys...).Err()
}

// Ping checks the connection.
func (cl *RedisClient) Ping(ctx context.Context) error {
	return cl.Client.Ping(ctx).Err()
}

func (cl *RedisClient) Close() error {
	return cl.Client.Close()
}

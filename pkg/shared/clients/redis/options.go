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
	"time"
)

// Options for writing to redis
type Options struct {
	// Pipelining wraps the write and the expiry in one MULTI/EXEC
	Pipelining bool
	// TTL is the expiry of every written key, 0 disables it
	TTL time.Duration
	// KeyPrefix is prepended to every key
	KeyPrefix string
}

// DefaultOptions returns the default write options.
func DefaultOptions() *Options {
	return &Options{
		Pipelining: true,
		TTL:        24 * time.Hour,
		KeyPrefix:  "reactor_state",
	}
}

// Option to apply different options
type Option interface {
	Apply(*Options)
}

// pipelining option
type pipelining bool

func (p pipelining) Apply(opts *Options) {
	opts.Pipelining = bool(p)
}

// WithoutPipelining turns off redis pipelining
func WithoutPipelining() Option {
	return pipelining(false)
}

// ttl option
type ttl time.Duration

func (t ttl) Apply(o *Options) {
	o.TTL = time.Duration(t)
}

// WithTTL sets the key expiry
func WithTTL(t time.Duration) Option {
	return ttl(t)
}

// keyPrefix option
type keyPrefix string

func (k keyPrefix) Apply(o *Options) {
	o.KeyPrefix = string(k)
}

// WithKeyPrefix sets the key prefix
func WithKeyPrefix(p string) Option {
	return keyPrefix(p)
}

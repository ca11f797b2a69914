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
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/reactorwatch/pkg/aggregator"
	redisclient "github.com/numaproj/reactorwatch/pkg/shared/clients/redis"
	"github.com/numaproj/reactorwatch/pkg/sinks"
)

func snapshot() aggregator.Snapshot {
	return aggregator.Snapshot{
		UnitID:            "SUNPP-1",
		WindowStart:       time.UnixMilli(60000).UTC(),
		WindowEnd:         time.UnixMilli(120000).UTC(),
		Count:             3,
		AvgNeutronFlux:    1010.5,
		ThermalEfficiency: 0.25,
		SafetyMargin:      2.2,
		LastTimestamp:     65000,
	}
}

func TestToRedis_Key(t *testing.T) {
	client := redisclient.NewRedisClientFromConfig([]string{"localhost:6379"}, "", "", "")
	defer func() { _ = client.Close() }()
	r := NewToRedis(context.Background(), "state", client)
	assert.Equal(t, "reactor_state:SUNPP-1:60000", r.Key(snapshot()))

	r = NewToRedis(context.Background(), "state", client, redisclient.WithKeyPrefix("npp"))
	assert.Equal(t, "npp:SUNPP-1:60000", r.Key(snapshot()))
}

func TestStateFields(t *testing.T) {
	f := stateFields(snapshot())
	assert.Equal(t, "SUNPP-1", f["unit_id"])
	assert.Equal(t, int64(60000), f["window_start"])
	assert.Equal(t, "1010.5", f["avg_neutron_flux"])
	assert.Equal(t, "0.25", f["thermal_efficiency"])
	assert.Equal(t, "2.2", f["safety_margin"])
}

func TestToRedis_WriteStateUnreachable(t *testing.T) {
	client := redisclient.NewRedisClient(&goredis.UniversalOptions{
		Addrs:       []string{"127.0.0.1:1"},
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	for _, opts := range [][]redisclient.Option{nil, {redisclient.WithoutPipelining()}} {
		r := NewToRedis(context.Background(), "state", client, opts...)
		res := r.WriteState(context.Background(), snapshot())
		assert.Equal(t, sinks.Dropped, res.Outcome)
		assert.Equal(t, "state", res.Sink)
		assert.Error(t, res.Err)
		assert.Error(t, r.IsHealthy(context.Background()))
	}
	require.NoError(t, client.Close())
}

func TestToRedis_WriteState(t *testing.T) {
	t.SkipNow() // needs a redis server on :6379
	ctx := context.Background()
	client := redisclient.NewRedisClientFromConfig([]string{":6379"}, "", "", "")
	r := NewToRedis(ctx, "state", client, redisclient.WithTTL(time.Minute))
	defer func() { _ = r.Close() }()
	s := snapshot()
	assert.Equal(t, sinks.Written, r.WriteState(ctx, s).Outcome)
	s.Count = 4
	assert.Equal(t, sinks.Written, r.WriteState(ctx, s).Outcome)
	got, err := client.HGetAll(ctx, r.Key(s))
	require.NoError(t, err)
	assert.Equal(t, "4", got["count"])
	assert.NoError(t, client.DeleteKeys(ctx, r.Key(s)))
}

package driver

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paramKeys(data []*ParameterData) map[string]bool {
	keys := make(map[string]bool, len(data))
	for _, d := range data {
		keys[d.ParameterKey] = true
	}
	return keys
}

func TestResolver_TemperatureData(t *testing.T) {
	now := time.Date(2024, 3, 1, 14, 5, 9, 0, time.Local)
	r := NewDefaultResolver(fixedClock{t: now})

	data := r.Resolve(context.Background(), SetTemperatureData, Equipment{Id: 7, IpAddress: "10.0.0.5"})
	require.Len(t, data, 1)

	d := data[0]
	assert.Equal(t, uint32(7), d.EquipmentId)
	assert.Equal(t, ParamLaserTemperature, d.ParameterKey)
	assert.Equal(t, "2024-03-01 14:05:09", d.Timestamp)

	v, err := strconv.Atoi(d.Value)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v, 1500)
	assert.LessOrEqual(t, v, 1600)
}

func TestResolver_AllDataIsSupersetOfTemperatureData(t *testing.T) {
	r := NewDefaultResolver(nil)
	eq := Equipment{Id: 3}

	all := paramKeys(r.Resolve(context.Background(), SetAllData, eq))
	for key := range paramKeys(r.Resolve(context.Background(), SetTemperatureData, eq)) {
		assert.True(t, all[key], "AllData is missing %s", key)
	}
	assert.Len(t, all, len(r.Keys()))
}

func TestResolver_UnknownKeyIsEmpty(t *testing.T) {
	r := NewDefaultResolver(nil)

	data := r.Resolve(context.Background(), "NoSuchSet", Equipment{Id: 1})
	assert.NotNil(t, data)
	assert.Empty(t, data)
	assert.False(t, r.Has("NoSuchSet"))
	assert.True(t, r.Has(SetAllData))
}

func TestResolver_ResolveStrict(t *testing.T) {
	r := NewDefaultResolver(nil)

	_, err := r.ResolveStrict(context.Background(), "NoSuchSet", Equipment{Id: 1})
	var unknown *UnknownParameterSetError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, ParameterSetKey("NoSuchSet"), unknown.Key)

	data, err := r.ResolveStrict(context.Background(), SetTemperatureData, Equipment{Id: 1})
	require.NoError(t, err)
	assert.Len(t, data, 1)
}

func TestResolver_RegisterAddsToAllData(t *testing.T) {
	r := NewDefaultResolver(nil)
	r.Register(CollectorFunc("door_open", func(_ context.Context, eq Equipment) ParameterData {
		return ParameterData{EquipmentId: eq.Id, ParameterKey: "door_open", Value: "false"}
	}))
	r.DefineSet("DoorData", "door_open")

	assert.True(t, paramKeys(r.Resolve(context.Background(), SetAllData, Equipment{}))["door_open"])
	assert.Len(t, r.Resolve(context.Background(), "DoorData", Equipment{}), 1)
	assert.Len(t, r.Resolve(context.Background(), SetTemperatureData, Equipment{}), 1)
}

func TestResolver_DefineAllDataIgnored(t *testing.T) {
	r := NewDefaultResolver(nil)
	r.DefineSet(SetAllData, ParamLaserPower)

	assert.Len(t, r.Resolve(context.Background(), SetAllData, Equipment{}), 2)
}

func TestSimulatedCollector_StaysInRange(t *testing.T) {
	c := LaserPowerCollector(nil)
	for i := 0; i < 50; i++ {
		d := c.Collect(context.Background(), Equipment{Id: uint32(i)})
		v, err := strconv.Atoi(d.Value)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 40)
		assert.LessOrEqual(t, v, 60)
	}
}

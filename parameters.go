package driver

import (
	"context"
	"math/rand/v2"
	"slices"
	"strconv"
	"sync"
)

// Resolver routes a parameter-set key to the collectors that serve it.
// AllData always covers every registered collector; other sets are explicit
// lists of collector keys.
type Resolver struct {
	mu         sync.RWMutex
	collectors map[string]Collector
	sets       map[ParameterSetKey][]string
}

func NewResolver() *Resolver {
	return &Resolver{
		collectors: make(map[string]Collector),
		sets:       make(map[ParameterSetKey][]string),
	}
}

// NewDefaultResolver registers the built-in laser collectors and the
// TemperatureData set.
func NewDefaultResolver(clock Clock) *Resolver {
	r := NewResolver()
	r.Register(LaserTemperatureCollector(clock))
	r.Register(LaserPowerCollector(clock))
	r.DefineSet(SetTemperatureData, ParamLaserTemperature)
	return r
}

// Register adds or replaces the collector under c.Key().
func (r *Resolver) Register(c Collector) {
	if c == nil || c.Key() == "" {
		return
	}
	r.mu.Lock()
	r.collectors[c.Key()] = c
	r.mu.Unlock()
}

// DefineSet binds key to the given collector keys. Defining AllData is ignored.
func (r *Resolver) DefineSet(key ParameterSetKey, paramKeys ...string) {
	if key == SetAllData {
		return
	}
	r.mu.Lock()
	r.sets[key] = slices.Clone(paramKeys)
	r.mu.Unlock()
}

// Has reports whether key names a known parameter set.
func (r *Resolver) Has(key ParameterSetKey) bool {
	if key == SetAllData {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sets[key]
	return ok
}

// Keys returns the registered collector keys in sorted order.
func (r *Resolver) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.collectors))
	for k := range r.collectors {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Resolve collects every parameter of the set. Unknown keys yield an empty
// result.
func (r *Resolver) Resolve(ctx context.Context, key ParameterSetKey, eq Equipment) []*ParameterData {
	collectors, _ := r.lookup(key)
	data := make([]*ParameterData, 0, len(collectors))
	for _, c := range collectors {
		d := c.Collect(ctx, eq)
		data = append(data, &d)
	}
	return data
}

// ResolveStrict is Resolve but fails with *UnknownParameterSetError for keys
// that name no set.
func (r *Resolver) ResolveStrict(ctx context.Context, key ParameterSetKey, eq Equipment) ([]*ParameterData, error) {
	if _, ok := r.lookup(key); !ok {
		return nil, &UnknownParameterSetError{Key: key}
	}
	return r.Resolve(ctx, key, eq), nil
}

func (r *Resolver) lookup(key ParameterSetKey) ([]Collector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if key == SetAllData {
		keys := make([]string, 0, len(r.collectors))
		for k := range r.collectors {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return r.collectorsFor(keys), true
	}

	keys, ok := r.sets[key]
	if !ok {
		return nil, false
	}
	return r.collectorsFor(keys), true
}

// collectorsFor skips keys without a registered collector. Manifest.Apply
// rejects such sets up front.
func (r *Resolver) collectorsFor(keys []string) []Collector {
	out := make([]Collector, 0, len(keys))
	for _, k := range keys {
		if c, ok := r.collectors[k]; ok {
			out = append(out, c)
		}
	}
	return out
}

// SimulatedCollector reads an integer in [lo, hi] from a generator seeded
// from the clock on every call.
func SimulatedCollector(key string, lo, hi int, clock Clock) Collector {
	if clock == nil {
		clock = NewSystemClock()
	}
	return CollectorFunc(key, func(_ context.Context, eq Equipment) ParameterData {
		now := clock.Now()
		rng := rand.New(rand.NewPCG(uint64(now.UnixNano()), uint64(eq.Id)))
		value := lo + rng.IntN(hi-lo+1)
		return ParameterData{
			EquipmentId:  eq.Id,
			ParameterKey: key,
			Timestamp:    now.Format(TimestampLayout),
			Value:        strconv.Itoa(value),
		}
	})
}

func LaserTemperatureCollector(clock Clock) Collector {
	return SimulatedCollector(ParamLaserTemperature, 1500, 1600, clock)
}

func LaserPowerCollector(clock Clock) Collector {
	return SimulatedCollector(ParamLaserPower, 40, 60, clock)
}

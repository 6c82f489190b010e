// Command adminguard-loadtest hammers the sign-in path with concurrent
// workers and reports throughput, latency percentiles, and the engine's
// own metric counters. It spins up an embedded miniredis unless a real
// redis address is given via -redis-addr or REDIS_ADDR.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/volunteerhub/adminguard"
	"github.com/volunteerhub/adminguard/password"
)

const secret = "loadtest-secret-001"

func main() {
	var (
		identities  = flag.Int("identities", 512, "number of admin identities to seed")
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		ops         = flag.Int("ops", 50000, "total sign-in attempts")
		wrongRate   = flag.Int("wrong-rate", 10, "percentage of attempts using a wrong password")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
	)
	flag.Parse()

	if *identities <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "identities, concurrency, and ops must be > 0")
		os.Exit(2)
	}
	if *wrongRate < 0 || *wrongRate > 100 {
		fmt.Fprintln(os.Stderr, "wrong-rate must be 0..100")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	// Minimum argon2 cost: the test measures the engine, not the hasher.
	provider, err := adminguard.NewStaticProviderWithHashing(password.Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "provider: %v\n", err)
		os.Exit(1)
	}

	names := make([]string, *identities)
	fmt.Printf("seeding %d identities...\n", *identities)
	startSeed := time.Now()
	for i := range names {
		names[i] = fmt.Sprintf("admin-%d@load.test", i)
		if err := provider.Register(names[i], secret, fmt.Sprintf("Load Admin %d", i)); err != nil {
			fmt.Fprintf(os.Stderr, "register failed: %v\n", err)
			os.Exit(1)
		}
	}

	engine, err := adminguard.New().
		WithProvider(provider).
		WithSeedAdmins(names...).
		WithRedis(client).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	stats := runSignInPhase(ctx, engine, names, *ops, *concurrency, *wrongRate)

	fmt.Println("---- results ----")
	printStats("sign-in", stats)

	snap := engine.MetricsSnapshot()
	ids := make([]adminguard.MetricID, 0, len(snap.Counters))
	for id := range snap.Counters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fmt.Printf("metric %-20s %d\n", id.String(), snap.Counters[id])
	}
	fmt.Printf("audit dropped: %d\n", engine.AuditDropped())
}

func runSignInPhase(ctx context.Context, engine *adminguard.Engine, names []string, ops, concurrency, wrongRate int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				identity := names[r.Intn(len(names))]
				attempt := secret
				if r.Intn(100) < wrongRate {
					attempt = "definitely-not-it"
				}

				t0 := time.Now()
				_, err := engine.SignInAsAdmin(ctx, identity, attempt)
				d := time.Since(t0)
				if err != nil && attempt == secret {
					// Lockouts from earlier wrong attempts are expected;
					// anything else counts as a failure.
					if !isExpected(err) {
						atomic.AddInt64(&failures, 1)
					}
				}

				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

func isExpected(err error) bool {
	return errors.Is(err, adminguard.ErrLockedOut) || errors.Is(err, adminguard.ErrInvalidCredentials)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type mockChecker struct {
	result CheckResult
}

func (m mockChecker) Check(context.Context) CheckResult {
	return m.result
}

func TestProbeRunnerReady(t *testing.T) {
	runner := NewProbeRunner(200*time.Millisecond, 0,
		mockChecker{result: CheckResult{Name: "db", Healthy: true}},
		mockChecker{result: CheckResult{Name: "redis", Healthy: true}},
	)
	ready, results := runner.Ready(context.Background())
	if !ready {
		t.Fatal("expected ready")
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestProbeRunnerUnready(t *testing.T) {
	runner := NewProbeRunner(200*time.Millisecond, 0,
		mockChecker{result: CheckResult{Name: "db", Healthy: true}},
		mockChecker{result: CheckResult{Name: "redis", Healthy: false, Error: errors.New("down").Error()}},
	)
	ready, results := runner.Ready(context.Background())
	if ready {
		t.Fatal("expected unready")
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestProbeRunnerStartupGrace(t *testing.T) {
	runner := NewProbeRunner(200*time.Millisecond, 2*time.Second,
		mockChecker{result: CheckResult{Name: "db", Healthy: true}},
	)
	ready, results := runner.Ready(context.Background())
	if ready {
		t.Fatal("expected unready during grace period")
	}
	if len(results) != 1 || results[0].Name != "startup_grace" {
		t.Fatalf("unexpected grace results: %+v", results)
	}
}

type slowChecker struct{}

func (slowChecker) Check(ctx context.Context) CheckResult {
	<-ctx.Done()
	return CheckResult{Name: "slow", Healthy: false, Error: ctx.Err().Error()}
}

func TestProbeRunnerBoundsSlowChecks(t *testing.T) {
	runner := NewProbeRunner(20*time.Millisecond, 0, slowChecker{})
	start := time.Now()
	ready, results := runner.Ready(context.Background())
	if ready {
		t.Fatal("expected unready when a check times out")
	}
	if time.Since(start) > time.Second {
		t.Fatalf("probe was not bounded by its timeout: %v", time.Since(start))
	}
	if results[0].Error == "" {
		t.Fatal("expected timeout error in result")
	}
}

func TestProbeRunnerSkipsNilCheckers(t *testing.T) {
	runner := NewProbeRunner(time.Second, 0, NewRedisChecker(nil), NewDBChecker(nil), NewFuncChecker("amqp", nil))
	ready, results := runner.Ready(context.Background())
	if !ready || len(results) != 0 {
		t.Fatalf("expected ready with no results, got ready=%v results=%+v", ready, results)
	}
}

func TestDependencyCheckers(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:health_checker?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	runner := NewProbeRunner(time.Second, 0,
		NewDBChecker(db),
		NewRedisChecker(client),
		NewFuncChecker("amqp", func(context.Context) error { return nil }),
	)
	ready, results := runner.Ready(context.Background())
	if !ready {
		t.Fatalf("expected all dependencies healthy: %+v", results)
	}

	mr.Close()
	ready, results = runner.Ready(context.Background())
	if ready {
		t.Fatal("expected unready after redis goes away")
	}
	for _, res := range results {
		if res.Name == "redis" && res.Healthy {
			t.Fatal("expected redis check to fail")
		}
	}
}

func TestFuncCheckerReportsError(t *testing.T) {
	c := NewFuncChecker("amqp", func(context.Context) error { return errors.New("connection closed") })
	res := c.Check(context.Background())
	if res.Healthy || res.Name != "amqp" || res.Error != "connection closed" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

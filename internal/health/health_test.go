package health

import (
	"context"
	"errors"
	"testing"
)

type stubChecker struct {
	err error
}

func (s *stubChecker) HealthCheck(ctx context.Context) error {
	return s.err
}

func TestCheckAll(t *testing.T) {
	dbErr := errors.New("connection refused")

	results := CheckAll(context.Background(), map[string]Checker{
		"database": &stubChecker{err: dbErr},
		"redis":    &stubChecker{},
	})

	if len(results) != 2 {
		t.Fatalf("CheckAll() returned %d results, want 2", len(results))
	}
	if !errors.Is(results["database"], dbErr) {
		t.Errorf("database result = %v, want the probe error", results["database"])
	}
	if results["redis"] != nil {
		t.Errorf("redis result = %v, want healthy", results["redis"])
	}
}

func TestCheckAllEmpty(t *testing.T) {
	results := CheckAll(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("CheckAll(nil) returned %d results, want 0", len(results))
	}
}

type ctxChecker struct{}

func (c *ctxChecker) HealthCheck(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("probe context has no deadline")
	}
	return nil
}

func TestCheckAllAppliesTimeout(t *testing.T) {
	results := CheckAll(context.Background(), map[string]Checker{
		"probe": &ctxChecker{},
	})
	if results["probe"] != nil {
		t.Errorf("probe not given a deadline: %v", results["probe"])
	}
}

package health

import (
	"context"
	"sync"
	"time"
)

// Status 健康状态
type Status string

const (
	// StatusHealthy 健康
	StatusHealthy Status = "healthy"
	// StatusUnhealthy 不健康
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult 单个依赖的检查结果
type CheckResult struct {
	Status    Status        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// Probe 对单个依赖执行一次探测，nil 表示健康
type Probe func(ctx context.Context) error

// Registry 健康探测注册表，按名字聚合各依赖的探测结果
type Registry struct {
	mu     sync.RWMutex
	probes map[string]Probe
}

// NewRegistry 创建探测注册表
func NewRegistry() *Registry {
	return &Registry{
		probes: make(map[string]Probe),
	}
}

// Register 注册依赖探测
func (r *Registry) Register(name string, probe Probe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.probes[name] = probe
}

// Check 并发执行所有探测
func (r *Registry) Check(ctx context.Context) map[string]CheckResult {
	r.mu.RLock()
	probes := make(map[string]Probe, len(r.probes))
	for name, probe := range r.probes {
		probes[name] = probe
	}
	r.mu.RUnlock()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]CheckResult, len(probes))
	)
	for name, probe := range probes {
		wg.Add(1)
		go func(name string, probe Probe) {
			defer wg.Done()
			result := runProbe(ctx, probe)
			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, probe)
	}
	wg.Wait()
	return results
}

// Status 整体状态：任一依赖不健康即不健康
func (r *Registry) Status(ctx context.Context) (Status, map[string]CheckResult) {
	results := r.Check(ctx)
	for _, result := range results {
		if result.Status != StatusHealthy {
			return StatusUnhealthy, results
		}
	}
	return StatusHealthy, results
}

func runProbe(ctx context.Context, probe Probe) CheckResult {
	start := time.Now()
	err := probe(ctx)
	duration := time.Since(start)

	result := CheckResult{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Duration:  duration,
	}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
	}
	return result
}

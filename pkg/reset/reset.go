package reset

import (
	"context"
	"fmt"
	"time"

	"github.com/maplelabs/chaos-actions/pkg/cerrors"
	"github.com/maplelabs/chaos-actions/pkg/log"
	"github.com/maplelabs/chaos-actions/pkg/platform"
)

// mongod default for net.maxIncomingConnections
const defaultMongoMaxConnections = 65536

// Result is the outcome of one single-shot reset command.
type Result struct {
	Status string `json:"status"`
	Target string `json:"target"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Resetter issues single-shot data reset commands against store pods. The
// pod is addressed by the app=<deployment> label convention and the first
// listed pod is used.
type Resetter struct {
	Client platform.Client
}

func (r Resetter) run(ctx context.Context, namespace, deployment, container string, command []string) Result {
	target, err := r.findTarget(ctx, namespace, deployment)
	if err != nil {
		return Result{Status: "error", Target: deployment, Error: err.Error()}
	}

	log.Infof("[Reset]: Executing on %v/%v: %v", target, container, command)
	execution, err := r.Client.Dispatch(ctx, namespace, target, container, command)
	if err != nil {
		return Result{Status: "error", Target: target, Error: err.Error()}
	}
	if execution.CtrlErr != "" {
		return Result{Status: "error", Target: target, Output: execution.Stdout, Error: execution.CtrlErr}
	}
	return Result{Status: "success", Target: target, Output: execution.Stdout}
}

func (r Resetter) findTarget(ctx context.Context, namespace, deployment string) (string, error) {
	targets, err := r.Client.ListTargets(ctx, namespace, "app="+deployment)
	if err != nil {
		return "", cerrors.Platform{Operation: "list", Target: deployment, Reason: err.Error()}
	}
	if len(targets) == 0 {
		return "", cerrors.Platform{Operation: "list", Target: deployment, Reason: "no pods found for deployment"}
	}
	return targets[0].Name, nil
}

// FlushRedis clears all data from a redis pod.
func (r Resetter) FlushRedis(ctx context.Context, namespace, deployment, container string) Result {
	return r.run(ctx, namespace, deployment, container, []string{"redis-cli", "FLUSHALL"})
}

// FlushMemcached clears all data from a memcached pod.
func (r Resetter) FlushMemcached(ctx context.Context, namespace, deployment, container string) Result {
	return r.run(ctx, namespace, deployment, container, []string{"sh", "-c", "echo 'flush_all' | nc localhost 11211"})
}

// DropMongoDatabase drops the named database on a mongo pod.
func (r Resetter) DropMongoDatabase(ctx context.Context, namespace, deployment, container, database string) Result {
	command := fmt.Sprintf("db.getSiblingDB('%s').dropDatabase()", database)
	return r.run(ctx, namespace, deployment, container, []string{"mongo", "--eval", command})
}

// SetRedisMaxMemory caps the redis memory at limitKB with the given eviction
// policy, pressuring the store until ResetRedisMaxMemory lifts the cap.
func (r Resetter) SetRedisMaxMemory(ctx context.Context, namespace, deployment, container string, limitKB int, evictionPolicy string) Result {
	result := r.run(ctx, namespace, deployment, container, []string{"redis-cli", "CONFIG", "SET", "maxmemory", fmt.Sprintf("%vkb", limitKB)})
	if result.Status != "success" {
		return result
	}
	return r.run(ctx, namespace, deployment, container, []string{"redis-cli", "CONFIG", "SET", "maxmemory-policy", evictionPolicy})
}

// ResetRedisMaxMemory restores the redis memory settings to their defaults,
// an unbounded maxmemory with the noeviction policy.
func (r Resetter) ResetRedisMaxMemory(ctx context.Context, namespace, deployment, container string) Result {
	result := r.run(ctx, namespace, deployment, container, []string{"redis-cli", "CONFIG", "SET", "maxmemory", "0"})
	if result.Status != "success" {
		return result
	}
	return r.run(ctx, namespace, deployment, container, []string{"redis-cli", "CONFIG", "SET", "maxmemory-policy", "noeviction"})
}

// RedisMemoryStress holds a maxmemory cap on the redis pod for the given
// duration and then restores the defaults. Cancellation cuts the hold short,
// the restore is still attempted.
func (r Resetter) RedisMemoryStress(ctx context.Context, namespace, deployment, container string, limitKB int, evictionPolicy string, duration time.Duration) Result {
	if result := r.SetRedisMaxMemory(ctx, namespace, deployment, container, limitKB, evictionPolicy); result.Status != "success" {
		return result
	}
	log.Infof("[Reset]: Holding the %vkb redis memory cap for %v", limitKB, duration)
	select {
	case <-ctx.Done():
	case <-time.After(duration):
	}
	return r.ResetRedisMaxMemory(ctx, namespace, deployment, container)
}

// SetMongoMaxConnections lowers the mongod incoming connection ceiling at
// runtime, starving the application of connections without a restart.
func (r Resetter) SetMongoMaxConnections(ctx context.Context, namespace, deployment, container string, maxConnections int) Result {
	command := fmt.Sprintf("db.adminCommand({setParameter: 1, maxIncomingConnections: %v})", maxConnections)
	return r.run(ctx, namespace, deployment, container, []string{"mongo", "--eval", command})
}

// ResetMongoMaxConnections rolls the connection ceiling back to the mongod
// default.
func (r Resetter) ResetMongoMaxConnections(ctx context.Context, namespace, deployment, container string) Result {
	return r.SetMongoMaxConnections(ctx, namespace, deployment, container, defaultMongoMaxConnections)
}

package action

import (
	"context"

	"farmstead/internal/domain/farm"
)

// HookDecision is the explicit outcome of a before-hook: either continue the
// pipeline or short-circuit it with a replacement result.
type HookDecision struct {
	stop   bool
	result Result
}

func Continue() HookDecision { return HookDecision{} }

func ShortCircuit(result Result) HookDecision {
	return HookDecision{stop: true, result: result}
}

// ShortCircuits returns the replacement result when the decision stops the
// pipeline.
func (d HookDecision) ShortCircuits() (Result, bool) {
	return d.result, d.stop
}

type BeforeFunc func(ctx context.Context, uc UseCase, ac *ActionContext) (HookDecision, error)

type AfterFunc func(ctx context.Context, uc UseCase, ac *ActionContext, result Result) (Result, error)

// Hook is a named cross-cutting behavior attached to one action by a module
// other than the action's owner. RunBefore/RunAfter name other hook owners on
// the same action; names with no registered hook are ignored.
type Hook struct {
	Owner     string
	Action    farm.ActionType
	Before    BeforeFunc
	After     AfterFunc
	RunBefore []string
	RunAfter  []string
}

// sortHooks orders hooks with Kahn's algorithm over the declared constraints:
// a RunAfter edge makes the declaring hook depend on the named owner, a
// RunBefore edge makes the named owner depend on the declarer. Ties keep
// registration order. When a cycle prevents a full ordering the original
// registration order is returned along with cyclic=true.
func sortHooks(hooks []Hook) (sorted []Hook, cyclic bool) {
	n := len(hooks)
	if n <= 1 {
		return hooks, false
	}

	index := make(map[string]int, n)
	for i, h := range hooks {
		index[h.Owner] = i
	}

	dependents := make([][]int, n)
	indegree := make([]int, n)
	addEdge := func(from, to int) {
		if from == to {
			return
		}
		dependents[from] = append(dependents[from], to)
		indegree[to]++
	}
	for i, h := range hooks {
		for _, owner := range h.RunAfter {
			if j, ok := index[owner]; ok {
				addEdge(j, i)
			}
		}
		for _, owner := range h.RunBefore {
			if j, ok := index[owner]; ok {
				addEdge(i, j)
			}
		}
	}

	sorted = make([]Hook, 0, n)
	emitted := make([]bool, n)
	for len(sorted) < n {
		progressed := false
		for i := 0; i < n; i++ {
			if emitted[i] || indegree[i] != 0 {
				continue
			}
			emitted[i] = true
			sorted = append(sorted, hooks[i])
			for _, dep := range dependents[i] {
				indegree[dep]--
			}
			progressed = true
		}
		if !progressed {
			return hooks, true
		}
	}
	return sorted, false
}

package managers

import "github.com/bawdo/sqlbuild/nodes"

// JoinContext is returned by SelectManager.JoinOn and holds the join
// until its condition is supplied with On.
type JoinContext struct {
	manager *SelectManager
	join    *nodes.JoinNode
}

// On sets the join condition and returns the SelectManager for
// continued method chaining.
func (jc *JoinContext) On(condition any) *SelectManager {
	jc.manager.touch()
	jc.join.On = nodes.Wrap(condition)
	return jc.manager
}

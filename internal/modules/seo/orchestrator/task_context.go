package orchestrator

import (
	"github.com/google/uuid"

	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/ledger"
)

// TaskContext is the read-only state every fan-out task receives. Only the
// cost accumulator is shared mutable state, and it is safe for concurrent use.
type TaskContext struct {
	projectID uuid.UUID
	userID    uuid.UUID
	channel   types.Channel
	cost      *ledger.CostAccumulator
}

func NewTaskContext(projectID, userID uuid.UUID, channel types.Channel, cost *ledger.CostAccumulator) TaskContext {
	if cost == nil {
		cost = ledger.NewCostAccumulator()
	}
	return TaskContext{projectID: projectID, userID: userID, channel: channel, cost: cost}
}

func (t TaskContext) ProjectID() uuid.UUID          { return t.projectID }
func (t TaskContext) UserID() uuid.UUID             { return t.userID }
func (t TaskContext) Channel() types.Channel        { return t.channel }
func (t TaskContext) Cost() *ledger.CostAccumulator { return t.cost }

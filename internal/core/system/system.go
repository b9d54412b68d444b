package system

// Phase defines execution ordering within a single simulation step.
type Phase int

const (
	PhaseInput   Phase = iota // 0: take the player's next action
	PhaseUpdate               // 1: player action, NPC turns, environment
	PhaseEvents               // 2: deliver this step's events
	PhasePersist              // 3: ledger writes
	PhaseCleanup              // 4: end-of-step bookkeeping
)

// System is the interface every step system implements.
type System interface {
	Phase() Phase
	Update() error
}

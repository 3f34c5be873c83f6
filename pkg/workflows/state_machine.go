package workflows

import "slices"

// Phase is the lifecycle position of a plot dialog.
type Phase string

const (
	PhaseEditing    Phase = "EDITING"
	PhaseGenerating Phase = "GENERATING"
	PhaseGenerated  Phase = "GENERATED"
	PhaseSaving     Phase = "SAVING"
	PhaseClosed     Phase = "CLOSED"
)

// StateMachine enforces plot dialog phase transitions
type StateMachine struct {
	allowedTransitions map[Phase][]Phase
}

// NewStateMachine creates a new state machine with allowed transitions
func NewStateMachine() *StateMachine {
	return &StateMachine{
		allowedTransitions: map[Phase][]Phase{
			PhaseEditing:    {PhaseGenerating, PhaseClosed},
			PhaseGenerating: {PhaseGenerated, PhaseEditing, PhaseClosed},
			PhaseGenerated:  {PhaseGenerating, PhaseSaving, PhaseClosed},
			PhaseSaving:     {PhaseGenerated, PhaseEditing, PhaseClosed},
			PhaseClosed:     {},
		},
	}
}

// CanTransition checks if a phase transition is allowed
func (sm *StateMachine) CanTransition(from, to Phase) bool {
	return slices.Contains(sm.allowedTransitions[from], to)
}

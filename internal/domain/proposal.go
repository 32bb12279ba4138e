package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ProposalState enumerates the confirmation lifecycle of a command proposal.
type ProposalState string

const (
	StateProposed              ProposalState = "proposed"
	StateAwaitingIntentConfirm ProposalState = "awaiting_intent_confirm"
	StateAwaitingFinalConfirm  ProposalState = "awaiting_final_confirm"
	StateConfirmed             ProposalState = "confirmed"
	StateRejected              ProposalState = "rejected"
	StateExecuted              ProposalState = "executed"
)

// ProposalEvent drives state transitions.
type ProposalEvent string

const (
	EventBegin   ProposalEvent = "begin"
	EventYes     ProposalEvent = "yes"
	EventNo      ProposalEvent = "no"
	EventTimeout ProposalEvent = "timeout"
	EventCancel  ProposalEvent = "cancel"
	EventExecute ProposalEvent = "execute"
)

// AllProposalStates and AllProposalEvents exist so the transition table can be
// enumerated exhaustively in tests.
var (
	AllProposalStates = []ProposalState{
		StateProposed,
		StateAwaitingIntentConfirm,
		StateAwaitingFinalConfirm,
		StateConfirmed,
		StateRejected,
		StateExecuted,
	}
	AllProposalEvents = []ProposalEvent{
		EventBegin,
		EventYes,
		EventNo,
		EventTimeout,
		EventCancel,
		EventExecute,
	}
)

// Next returns the successor state for an event, or an error for any pair the
// table does not allow. The only path into StateExecuted runs through both
// confirmation states; either negative answer lands in StateRejected, which is
// terminal.
func (s ProposalState) Next(ev ProposalEvent) (ProposalState, error) {
	switch s {
	case StateProposed:
		if ev == EventBegin {
			return StateAwaitingIntentConfirm, nil
		}
	case StateAwaitingIntentConfirm:
		switch ev {
		case EventYes:
			return StateAwaitingFinalConfirm, nil
		case EventNo, EventTimeout, EventCancel:
			return StateRejected, nil
		}
	case StateAwaitingFinalConfirm:
		switch ev {
		case EventYes:
			return StateConfirmed, nil
		case EventNo, EventTimeout, EventCancel:
			return StateRejected, nil
		}
	case StateConfirmed:
		if ev == EventExecute {
			return StateExecuted, nil
		}
	}
	return s, fmt.Errorf("proposal: invalid transition %s --%s-->", s, ev)
}

// Terminal reports whether no further transition is possible.
func (s ProposalState) Terminal() bool {
	return s == StateRejected || s == StateExecuted
}

// CommandProposal is a synthesized, not-yet-executed shell command awaiting
// confirmation. Command and Summary are frozen at creation: the confirmation
// gate re-reads these fields and never regenerates them, so the command the
// user confirms is the command that runs. Proposals are discarded after
// execution or rejection, never persisted across sessions.
type CommandProposal struct {
	ID        uuid.UUID
	Utterance Utterance
	Command   string
	Summary   string
	Profile   SystemProfile

	state ProposalState
}

// NewCommandProposal creates a proposal in StateProposed.
func NewCommandProposal(u Utterance, command, summary string, profile SystemProfile) *CommandProposal {
	return &CommandProposal{
		ID:        uuid.New(),
		Utterance: u,
		Command:   command,
		Summary:   summary,
		Profile:   profile,
		state:     StateProposed,
	}
}

// State returns the current lifecycle state.
func (p *CommandProposal) State() ProposalState {
	return p.state
}

// Apply advances the state machine. The state field is private so Apply is the
// only mutation path.
func (p *CommandProposal) Apply(ev ProposalEvent) error {
	next, err := p.state.Next(ev)
	if err != nil {
		return err
	}
	p.state = next
	return nil
}

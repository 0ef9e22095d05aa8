package application

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Pipeline stage states. These must remain untyped string constants for
// statekit.StateID compatibility; they are persisted verbatim in state.json.
const (
	StateInitial  = "initial"
	StateDetected = "detected"
	StateAnalyzed = "analyzed"
	StateScored   = "scored"
	StatePlanned  = "planned"
	StateExported = "exported"
)

// Pipeline events.
const (
	EventDetect  = "detect"
	EventAnalyze = "analyze"
	EventScore   = "score"
	EventPlan    = "plan"
	EventExport  = "export"
	EventReset   = "reset"
)

// workflowContext carries identification for logging and guards.
type workflowContext struct {
	Root string
}

// Workflow tracks which pipeline stages have run, so commands can refuse
// to operate on stale or missing upstream artifacts (scoring before
// analysis, exporting before planning).
type Workflow struct {
	interpreter *statekit.Interpreter[workflowContext]
}

// NewWorkflow builds the pipeline state machine starting from the given
// state. An empty state starts from the beginning.
func NewWorkflow(initial, root string) (*Workflow, error) {
	if initial == "" {
		initial = StateInitial
	}

	builder := statekit.NewMachine[workflowContext]("gapmap-pipeline").
		WithInitial(statekit.StateID(initial)).
		WithContext(workflowContext{Root: root})

	builder.State(StateInitial).
		On(EventDetect).Target(StateDetected).
		Done()

	// Detection and analysis run together in practice, so analyze is
	// accepted from either state.
	builder.State(StateDetected).
		On(EventAnalyze).Target(StateAnalyzed).
		On(EventDetect).Target(StateDetected).
		On(EventReset).Target(StateInitial).
		Done()

	builder.State(StateAnalyzed).
		On(EventScore).Target(StateScored).
		On(EventAnalyze).Target(StateAnalyzed).
		On(EventDetect).Target(StateDetected).
		On(EventReset).Target(StateInitial).
		Done()

	builder.State(StateScored).
		On(EventPlan).Target(StatePlanned).
		On(EventScore).Target(StateScored).
		On(EventAnalyze).Target(StateAnalyzed).
		On(EventReset).Target(StateInitial).
		Done()

	builder.State(StatePlanned).
		On(EventExport).Target(StateExported).
		On(EventPlan).Target(StatePlanned).
		On(EventAnalyze).Target(StateAnalyzed).
		On(EventReset).Target(StateInitial).
		Done()

	builder.State(StateExported).
		On(EventExport).Target(StateExported).
		On(EventAnalyze).Target(StateAnalyzed).
		On(EventReset).Target(StateInitial).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build pipeline state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()
	return &Workflow{interpreter: interpreter}, nil
}

// Advance attempts a pipeline transition. If the event is not valid in the
// current state an error names both, so the caller can tell the user which
// stage to run first.
func (w *Workflow) Advance(event string) error {
	before := w.Current()
	w.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	after := w.Current()

	if before == after && !selfLoop(before, event) {
		return fmt.Errorf("cannot %s while the pipeline is in the %q stage", event, before)
	}
	return nil
}

// selfLoop reports whether the event legitimately keeps the state in place
// (re-running a stage).
func selfLoop(state, event string) bool {
	switch state {
	case StateDetected:
		return event == EventDetect
	case StateAnalyzed:
		return event == EventAnalyze
	case StateScored:
		return event == EventScore
	case StatePlanned:
		return event == EventPlan
	case StateExported:
		return event == EventExport
	default:
		return false
	}
}

// Current returns the pipeline's current stage.
func (w *Workflow) Current() string {
	return string(w.interpreter.State().Value)
}

package resolve

// State is the lifecycle of one package within a run.
type State int

const (
	Pending State = iota
	Resolving
	Resolved
	Unresolved
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	case Unresolved:
		return "unresolved"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// RunStatus is the lifecycle of a whole resolution run.
type RunStatus int

const (
	Initialized RunStatus = iota
	Running
	Completed
	Aborted
)

func (s RunStatus) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

package domain

// QueueState is the lifecycle state of the commit queue.
type QueueState int

// Queue states. A queue starts in QueueInit, is opened by the extraction
// side and ends in QueueClosed, which is terminal.
const (
	QueueInit QueueState = iota
	QueueOpen
	QueueClosed
)

// String returns the state name.
func (s QueueState) String() string {
	switch s {
	case QueueInit:
		return "INIT"
	case QueueOpen:
		return "OPEN"
	case QueueClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

package types

type StatusType int32

const (
	None      StatusType = 0
	Pending   StatusType = 1
	Waiting   StatusType = 2
	Running   StatusType = 3
	Skipped   StatusType = 4
	Cancelled StatusType = 5
	Failed    StatusType = 9
	Completed StatusType = 10
)

var statusNames = map[StatusType]string{
	None:      "none",
	Pending:   "pending",
	Waiting:   "waiting",
	Running:   "running",
	Skipped:   "skipped",
	Cancelled: "cancelled",
	Failed:    "failed",
	Completed: "completed",
}

func (s StatusType) String() string {
	if name, exists := statusNames[s]; exists {
		return name
	}
	return "unknown"
}

// Done reports whether the status is terminal.
func (s StatusType) Done() bool {
	return s == Completed || s == Failed || s == Skipped || s == Cancelled
}

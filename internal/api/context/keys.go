package context

type Key string

const (
	Params    Key = "params"
	Store     Key = "store"
	RequestID Key = "request_id"
	StartedAt Key = "started_at"
)

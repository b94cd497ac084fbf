package event

import "time"

type Event struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Messages holds the fixed message pool for each level.
var Messages = map[Level][]string{
	LevelError: {
		"Connection refused to database",
		"Out of memory exception",
		"Timeout waiting for response",
		"Critical assertion failed",
		"Unhandled exception in worker",
	},
	LevelWarn: {
		"Rate limit approaching threshold",
		"Memory usage high (85%)",
		"Connection pool nearly exhausted",
		"Slow query detected (>2s)",
		"Retry attempt 3 of 5",
	},
	LevelInfo: {
		"Request processed successfully",
		"User authentication completed",
		"Cache hit ratio: 92%",
		"Background job finished",
		"Health check passed",
	},
	LevelDebug: {
		"Parsing request payload",
		"Executing database query",
		"Loading configuration",
		"Initializing connection",
		"Validating input parameters",
	},
}

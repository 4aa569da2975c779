package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 13000-13999: Execution & Compilation errors
// 17000-17999: Queue & Scheduling errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalError ErrorCode = 10001
	InvalidParams ErrorCode = 10002
	NotFound      ErrorCode = 10003
	Timeout       ErrorCode = 10008

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	InvalidFormat      ErrorCode = 10301
	RequiredFieldEmpty ErrorCode = 10303

	// ========== Execution & Compilation Errors (13000-13999) ==========

	// Execution (13000-13099)
	ExecSystemError ErrorCode = 13000
	ProcessSpawn    ErrorCode = 13001
	ProcessKill     ErrorCode = 13002

	// Compilation (13100-13199)
	CompileFailed  ErrorCode = 13100
	CompileTimeout ErrorCode = 13101

	// ========== Queue & Scheduling Errors (17000-17999) ==========

	QueueFull    ErrorCode = 17000
	QueueStopped ErrorCode = 17001
	QueueTimeout ErrorCode = 17002
	TaskNotFound ErrorCode = 17003
	TaskFailed   ErrorCode = 17004
	TaskTimeout  ErrorCode = 17005
)

var errorMessages = map[ErrorCode]string{
	Success: "Success",

	// Generic
	InternalError: "Internal error",
	InvalidParams: "Invalid parameters",
	NotFound:      "Resource not found",
	Timeout:       "Operation timed out",

	// Validation
	ValidationFailed:   "Validation failed",
	InvalidFormat:      "Invalid format",
	RequiredFieldEmpty: "Required field is empty",

	// Execution
	ExecSystemError: "Execution system error",
	ProcessSpawn:    "Failed to spawn process",
	ProcessKill:     "Failed to kill process",

	// Compilation
	CompileFailed:  "Compilation failed",
	CompileTimeout: "Compilation timed out",

	// Queue
	QueueFull:    "Execution queue is full, please try again later",
	QueueStopped: "Execution queue is not running",
	QueueTimeout: "Wait for task result timed out",
	TaskNotFound: "Task not found",
	TaskFailed:   "Task execution failed",
	TaskTimeout:  "Task execution timed out",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

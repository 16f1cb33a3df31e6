package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 11000-11999: Relational store errors
// 12000-12999: Object storage errors
// 13000-13999: Entitlement errors
// 14000-14999: Prompt seeding errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalError   ErrorCode = 10001
	InvalidParams   ErrorCode = 10002
	NotFound        ErrorCode = 10003
	Timeout         ErrorCode = 10004
	ConfigInvalid   ErrorCode = 10005
	ConfigMissing   ErrorCode = 10006
	StartupFailed   ErrorCode = 10007
	ScheduleInvalid ErrorCode = 10008

	// ========== Relational Store Errors (11000-11999) ==========

	DatabaseError      ErrorCode = 11000
	DatabaseConnFailed ErrorCode = 11001
	FetchBatchFailed   ErrorCode = 11100
	DeleteRowsFailed   ErrorCode = 11101

	// ========== Object Storage Errors (12000-12999) ==========

	StorageError        ErrorCode = 12000
	StorageConnFailed   ErrorCode = 12001
	BucketNotFound      ErrorCode = 12002
	RemoveObjectsFailed ErrorCode = 12100
	PartialRemoveFailed ErrorCode = 12101

	// ========== Entitlement Errors (13000-13999) ==========

	EntitlementError     ErrorCode = 13000
	EntitlementAmbiguous ErrorCode = 13001
	EntitlementNotCached ErrorCode = 13002

	// ========== Prompt Seeding Errors (14000-14999) ==========

	SeedError        ErrorCode = 14000
	SeedIdeasMissing ErrorCode = 14001
)

// codeMessages maps error codes to their default human readable messages.
var codeMessages = map[ErrorCode]string{
	Success:         "success",
	InternalError:   "internal error",
	InvalidParams:   "invalid parameters",
	NotFound:        "not found",
	Timeout:         "operation timed out",
	ConfigInvalid:   "invalid configuration",
	ConfigMissing:   "missing required configuration",
	StartupFailed:   "startup check failed",
	ScheduleInvalid: "invalid cron schedule",

	DatabaseError:      "database error",
	DatabaseConnFailed: "database connection failed",
	FetchBatchFailed:   "fetch expired batch failed",
	DeleteRowsFailed:   "delete submission rows failed",

	StorageError:        "object storage error",
	StorageConnFailed:   "object storage connection failed",
	BucketNotFound:      "bucket not found",
	RemoveObjectsFailed: "remove objects failed",
	PartialRemoveFailed: "one or more objects failed to delete",

	EntitlementError:     "entitlement check failed",
	EntitlementAmbiguous: "entitlement check returned no usable result",
	EntitlementNotCached: "entitlement not resolved for owner",

	SeedError:        "prompt seeding failed",
	SeedIdeasMissing: "no prompt ideas available for tier",
}

// Message returns the default message for the error code.
func (c ErrorCode) Message() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return "unknown error"
}

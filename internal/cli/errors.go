package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Timesheet errors
	ErrTimesheetNotFound     = "TIMESHEET_NOT_FOUND"
	ErrTimesheetNotSpecified = "TIMESHEET_NOT_SPECIFIED"
	ErrConfigInvalid         = "CONFIG_INVALID"

	// Project errors
	ErrProjectNotFound = "PROJECT_NOT_FOUND"
	ErrProjectExists   = "PROJECT_EXISTS"
	ErrProjectInUse    = "PROJECT_IN_USE"

	// Record errors
	ErrRecordNotFound = "RECORD_NOT_FOUND"
	ErrRecordOverlap  = "RECORD_OVERLAP"
	ErrNoOpenRecord   = "NO_OPEN_RECORD"

	// File errors
	ErrFileNotFound   = "FILE_NOT_FOUND"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Database errors
	ErrDatabaseError = "DATABASE_ERROR"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"
	ErrDuplicateName   = "DUPLICATE_NAME"

	// General errors
	ErrConfirmationRequired = "CONFIRMATION_REQUIRED"
	ErrInternal             = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnOpenRecords = "OPEN_RECORDS"
	WarnNoRecords   = "NO_RECORDS"
)

package code

// Error code to message map.
var codeMessageMap = map[int]string{
	// Generic
	ErrSuccess:         "success",
	ErrUnknown:         "unknown error",
	ErrBind:            "request parameter binding error",
	ErrValidation:      "request parameter validation error",
	ErrTooManyRequests: "too many requests",

	// Users
	ErrUserNotFound:          "user not found",
	ErrUserAlreadyExist:      "user already exists",
	ErrUserPasswordIncorrect: "incorrect password",

	// Emergency calls
	ErrCallNotFound:      "emergency call not found",
	ErrCallAlreadyClosed: "emergency call already closed",

	// Persons
	ErrPersonNotFound:     "person not found",
	ErrPersonAlreadyExist: "person already exists",

	// Shift logs
	ErrShiftLogNotFound: "shift log entry not found",

	// Database
	ErrDatabase:       "database error",
	ErrRecordNotFound: "record not found",

	// WhatsApp
	ErrWhatsAppNotConfigured: "WhatsApp gateway not configured",
	ErrWhatsAppDelivery:      "message delivery failed",

	// Backup and restore
	ErrBackupFailed:       "backup creation failed",
	ErrBackupNotFound:     "backup archive not found",
	ErrArchiveInvalid:     "invalid backup archive: metadata.json missing",
	ErrSafetyBackupFailed: "could not create safety backup",
	ErrRestoreFailed:      "restore failed",

	// Configuration
	ErrConfigNotFound: "configuration entry not found",
}

// Error code to HTTP status map.
var codeStatusMap = map[int]int{
	// Generic
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTooManyRequests: StatusTooManyRequests,

	// Users
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusBadRequest,
	ErrUserPasswordIncorrect: StatusUnauthorized,

	// Emergency calls
	ErrCallNotFound:      StatusNotFound,
	ErrCallAlreadyClosed: StatusBadRequest,

	// Persons
	ErrPersonNotFound:     StatusNotFound,
	ErrPersonAlreadyExist: StatusBadRequest,

	// Shift logs
	ErrShiftLogNotFound: StatusNotFound,

	// Database
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,

	// WhatsApp
	ErrWhatsAppNotConfigured: StatusBadRequest,
	ErrWhatsAppDelivery:      StatusInternalServerError,

	// Backup and restore
	ErrBackupFailed:       StatusInternalServerError,
	ErrBackupNotFound:     StatusNotFound,
	ErrArchiveInvalid:     StatusBadRequest,
	ErrSafetyBackupFailed: StatusInternalServerError,
	ErrRestoreFailed:      StatusInternalServerError,

	// Configuration
	ErrConfigNotFound: StatusNotFound,
}

// GetMessage returns the message for an error code.
func GetMessage(errorCode int) string {
	if msg, ok := codeMessageMap[errorCode]; ok {
		return msg
	}
	return codeMessageMap[ErrUnknown]
}

// GetStatus returns the HTTP status for an error code.
func GetStatus(errorCode int) int {
	if status, ok := codeStatusMap[errorCode]; ok {
		return status
	}
	return StatusInternalServerError
}

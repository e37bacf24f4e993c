package code

// HTTP status codes used by the code-to-status map.
const (
	// StatusOK - 200: success.
	StatusOK = 200
	// StatusBadRequest - 400: invalid request parameters.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: unauthorized.
	StatusUnauthorized = 401
	// StatusForbidden - 403: forbidden.
	StatusForbidden = 403
	// StatusNotFound - 404: resource not found.
	StatusNotFound = 404
	// StatusInternalServerError - 500: internal server error.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: too many requests.
	StatusTooManyRequests = 429
)

// Generic error codes (100xxx).
const (
	// ErrSuccess - 200: success.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: unknown error.
	ErrUnknown
	// ErrBind - 400: request parameter binding error.
	ErrBind
	// ErrValidation - 400: request parameter validation error.
	ErrValidation
	// ErrTooManyRequests - 429: request rate too high.
	ErrTooManyRequests
)

// User error codes (101xxx).
const (
	// ErrUserNotFound - 404: user does not exist.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: user already exists.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: incorrect password.
	ErrUserPasswordIncorrect
)

// Emergency call error codes (102xxx).
const (
	// ErrCallNotFound - 404: emergency call does not exist.
	ErrCallNotFound int = iota + 102000
	// ErrCallAlreadyClosed - 400: emergency call already closed.
	ErrCallAlreadyClosed
)

// Person registry error codes (103xxx).
const (
	// ErrPersonNotFound - 404: person does not exist.
	ErrPersonNotFound int = iota + 103000
	// ErrPersonAlreadyExist - 400: person already exists.
	ErrPersonAlreadyExist
)

// Shift log error codes (104xxx).
const (
	// ErrShiftLogNotFound - 404: shift log entry does not exist.
	ErrShiftLogNotFound int = iota + 104000
)

// Database error codes (105xxx).
const (
	// ErrDatabase - 500: database error.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: record not found.
	ErrRecordNotFound
)

// WhatsApp error codes (106xxx).
const (
	// ErrWhatsAppNotConfigured - 400: WhatsApp gateway not configured.
	ErrWhatsAppNotConfigured int = iota + 106000
	// ErrWhatsAppDelivery - 500: message delivery failed.
	ErrWhatsAppDelivery
)

// Backup and restore error codes (107xxx).
const (
	// ErrBackupFailed - 500: backup creation failed.
	ErrBackupFailed int = iota + 107000
	// ErrBackupNotFound - 404: backup archive not found.
	ErrBackupNotFound
	// ErrArchiveInvalid - 400: archive is missing its metadata marker.
	ErrArchiveInvalid
	// ErrSafetyBackupFailed - 500: protective pre-restore backup failed.
	ErrSafetyBackupFailed
	// ErrRestoreFailed - 500: restore failed.
	ErrRestoreFailed
)

// Configuration error codes (108xxx).
const (
	// ErrConfigNotFound - 404: configuration entry not found.
	ErrConfigNotFound int = iota + 108000
)

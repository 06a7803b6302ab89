package errors

// Error code constants returned in the `code` field of error responses.
// Format: CATEGORY_SPECIFIC_DETAIL. The frontend maps these to messages;
// the `error` field carries the default human-readable text.

const (
	// Authentication
	AuthUnauthorized = "AUTH_UNAUTHORIZED"
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// Authorization
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"

	// Validation
	ValidationRequired     = "VALIDATION_REQUIRED"
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"

	// Store registration
	StoreUsernameTaken     = "STORE_USERNAME_TAKEN"
	StoreUserRecordMissing = "STORE_USER_RECORD_MISSING"

	// Upload
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// Webhook relay
	WebhookMissingHeaders     = "WEBHOOK_MISSING_HEADERS"
	WebhookVerificationFailed = "WEBHOOK_VERIFICATION_FAILED"

	// Resources
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"

	// Internal
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)

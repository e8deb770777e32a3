package httperr

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Client-fault codes. All of these map to HTTP 400.
const (
	// ErrCodeValidationFailure indicates a structurally invalid payload.
	ErrCodeValidationFailure ErrorCode = "VALIDATION_FAILURE"
	// ErrCodeDuplicateCredential indicates the email is already registered.
	ErrCodeDuplicateCredential ErrorCode = "DUPLICATE_CREDENTIAL"
	// ErrCodeInvalidCredentials covers both unknown identifier and wrong
	// password, deliberately indistinguishable.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	// ErrCodeInvalidRefreshToken indicates a refresh token that failed
	// verification, kind, or address binding checks.
	ErrCodeInvalidRefreshToken ErrorCode = "INVALID_REFRESH_TOKEN"
	// ErrCodeIdentityMissing indicates a valid refresh token whose subject
	// no longer exists.
	ErrCodeIdentityMissing ErrorCode = "IDENTITY_MISSING"
	// ErrCodeMissingCredential indicates an absent Authorization header.
	ErrCodeMissingCredential ErrorCode = "MISSING_CREDENTIAL"
	// ErrCodeMalformedHeader indicates an Authorization header that is not
	// valid text.
	ErrCodeMalformedHeader ErrorCode = "MALFORMED_HEADER"
	// ErrCodeMissingBearerToken indicates an Authorization header without a
	// Bearer token.
	ErrCodeMissingBearerToken ErrorCode = "MISSING_BEARER_TOKEN"
	// ErrCodeMalformedToken indicates a token that failed signature,
	// audience, expiry, or algorithm checks.
	ErrCodeMalformedToken ErrorCode = "MALFORMED_TOKEN"
	// ErrCodePayloadMismatch indicates a cryptographically valid token whose
	// payload is not of the expected kind.
	ErrCodePayloadMismatch ErrorCode = "PAYLOAD_MISMATCH"
)

// Server-fault codes. All of these map to HTTP 500.
const (
	// ErrCodeKeyMaterial indicates undecodable or unparseable RSA key material.
	ErrCodeKeyMaterial ErrorCode = "KEY_MATERIAL_ERROR"
	// ErrCodeHashingFailure indicates a password hashing or hash-parsing fault.
	ErrCodeHashingFailure ErrorCode = "HASHING_FAILURE"
	// ErrCodeStorageFailure indicates a repository error.
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	// ErrCodeInternal indicates any other unexpected server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var serverFaultCodes = map[ErrorCode]bool{
	ErrCodeKeyMaterial:    true,
	ErrCodeHashingFailure: true,
	ErrCodeStorageFailure: true,
	ErrCodeInternal:       true,
}

// IsServerFault returns true if the code represents a server-side fault.
func IsServerFault(code ErrorCode) bool {
	return serverFaultCodes[code]
}

package constant

// System codes (1xxx)
const (
	CodeSuccess       = 0
	CodeSystemError   = 1000 // unexpected internal failure
	CodeDatabaseError = 1001
	CodeRedisError    = 1002
	CodeConfigError   = 1003 // missing/inconsistent gateway credentials, fatal at first use
)

// Request validation codes (11xx)
const (
	CodeInvalidParams = 1100
	CodeAmountInvalid = 1101 // non-positive or non-integral payable amount
	CodeOwnerNotFound = 1102
	CodeOwnerUnpaid   = 1103 // owner has no payable fee configured
)

// Ownership / caller identity codes (12xx)
const (
	CodeUnauthorized   = 1200 // no caller identity on the request
	CodeOwnershipError = 1201 // caller does not own the payable entity
)

// Order lifecycle codes (13xx)
const (
	CodeOrderNotFound      = 1300
	CodeOrderAlreadyPaid   = 1301 // owner already has an approved order
	CodeOrderStatusInvalid = 1302
)

// Gateway codes (14xx)
const (
	CodeApprovalFailed        = 1400 // network, timeout, non-success code or missing tid
	CodeApprovalAmountTamper  = 1401 // approved amount differs from stored amount
	CodeCompensationFailed    = 1402 // net-cancel failed; authorization may be dangling
	CodeReconciliationNoOp    = 1403 // finalize on an already-terminal order (idempotent no-op)
	CodeCallbackFieldsMissing = 1404
	CodeMerchantIDMismatch    = 1405
)

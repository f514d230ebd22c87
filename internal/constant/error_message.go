package constant

// ErrorMessages maps codes to user-facing messages. Internal detail goes to
// the payment log, never into this table.
var ErrorMessages = map[int]string{
	CodeSuccess:       "success",
	CodeSystemError:   "system error",
	CodeDatabaseError: "database error",
	CodeRedisError:    "cache error",
	CodeConfigError:   "payment service misconfigured",

	CodeInvalidParams: "invalid request",
	CodeAmountInvalid: "invalid payment amount",
	CodeOwnerNotFound: "payable item not found",
	CodeOwnerUnpaid:   "item has no payable fee",

	CodeUnauthorized:   "sign-in required",
	CodeOwnershipError: "not the owner of this item",

	CodeOrderNotFound:      "payment order not found",
	CodeOrderAlreadyPaid:   "already paid",
	CodeOrderStatusInvalid: "payment order state invalid",

	CodeApprovalFailed:        "payment approval failed",
	CodeApprovalAmountTamper:  "payment amount mismatch",
	CodeCompensationFailed:    "payment reversal failed",
	CodeReconciliationNoOp:    "payment already finalized",
	CodeCallbackFieldsMissing: "payment callback incomplete",
	CodeMerchantIDMismatch:    "payment callback rejected",
}

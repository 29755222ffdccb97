package status

const (
	OK                    = "OK"
	CREATED               = "CREATED"
	BAD_REQUEST           = "BAD_REQUEST"
	UNAUTHORIZED          = "UNAUTHORIZED"
	FORBIDDEN             = "FORBIDDEN"
	NOT_FOUND             = "NOT_FOUND"
	CONFLICT              = "CONFLICT"
	UNPROCESSABLE_ENTITY  = "UNPROCESSABLE_ENTITY"
	INTERNAL_SERVER_ERROR = "INTERNAL_SERVER_ERROR"

	UNSUPPORTED_CURRENCY         = "UNSUPPORTED_CURRENCY"
	INSUFFICIENT_STOCK           = "INSUFFICIENT_STOCK"
	TIER_INACTIVE                = "TIER_INACTIVE"
	GATEWAY_CANCELLED            = "GATEWAY_CANCELLED"
	GATEWAY_ERROR                = "GATEWAY_ERROR"
	ISSUANCE_VERIFICATION_FAILED = "ISSUANCE_VERIFICATION_FAILED"
)

package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Polygon RPC errors
	CodeChainConnectionFailed: "Failed to connect to Polygon node",
	CodeChainSubscribeFailed:  "Failed to subscribe to chain events",
	CodeChainRPCError:         "Polygon RPC call failed",
	CodeGasPriceUnavailable:   "Gas price unavailable",
	CodeBalanceFetchFailed:    "Failed to fetch wallet balance",

	// WebSocket errors
	CodeWebSocketConnectionError: "WebSocket connection error",
	CodeWebSocketClosed:          "WebSocket connection closed",
	CodeWebSocketSendError:       "Failed to send WebSocket message",

	// Venue (DEX router) errors
	CodeVenueQuoteFailed:      "Failed to get venue quote",
	CodeVenueUnknown:          "Unknown exchange venue",
	CodeInvalidQuote:          "Invalid quote data",
	CodeContractCallFailed:    "Smart contract call failed",
	CodeInsufficientLiquidity: "Insufficient liquidity for trade size",

	// Trading errors
	CodeTradeSubmitFailed: "Failed to submit trade",
	CodeTradeReverted:     "Trade transaction reverted",
	CodeCycleInProgress:   "A scan cycle is already in progress",
	CodeTradingDisabled:   "Trading is disabled",

	// Circuit breaker errors
	CodeCircuitOpen: "Circuit breaker is open",
}

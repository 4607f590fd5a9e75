package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Domain-specific error codes
const (
	// Polygon RPC errors
	CodeChainConnectionFailed Code = "CHAIN_CONNECTION_FAILED"
	CodeChainSubscribeFailed  Code = "CHAIN_SUBSCRIBE_FAILED"
	CodeChainRPCError         Code = "CHAIN_RPC_ERROR"
	CodeGasPriceUnavailable   Code = "GAS_PRICE_UNAVAILABLE"
	CodeBalanceFetchFailed    Code = "BALANCE_FETCH_FAILED"

	// WebSocket errors
	CodeWebSocketConnectionError Code = "WEBSOCKET_CONNECTION_ERROR"
	CodeWebSocketClosed          Code = "WEBSOCKET_CLOSED"
	CodeWebSocketSendError       Code = "WEBSOCKET_SEND_ERROR"

	// Venue (DEX router) errors
	CodeVenueQuoteFailed     Code = "VENUE_QUOTE_FAILED"
	CodeVenueUnknown         Code = "VENUE_UNKNOWN"
	CodeInvalidQuote         Code = "INVALID_QUOTE"
	CodeContractCallFailed   Code = "CONTRACT_CALL_FAILED"
	CodeInsufficientLiquidity Code = "INSUFFICIENT_LIQUIDITY"

	// Trading errors
	CodeTradeSubmitFailed Code = "TRADE_SUBMIT_FAILED"
	CodeTradeReverted     Code = "TRADE_REVERTED"
	CodeCycleInProgress   Code = "CYCLE_IN_PROGRESS"
	CodeTradingDisabled   Code = "TRADING_DISABLED"

	// Circuit breaker errors
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)

package polygon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/polygon-arb-bot/business/chain/domain"
	"github.com/fd1az/polygon-arb-bot/internal/apperror"
	"github.com/fd1az/polygon-arb-bot/internal/circuitbreaker"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
	"github.com/fd1az/polygon-arb-bot/internal/wsconn"
)

// HeadsConfig holds configuration for the head subscriber.
type HeadsConfig struct {
	WSURL          string        // WebSocket endpoint (primary)
	HTTPURL        string        // HTTP endpoint (fallback)
	PollInterval   time.Duration // polling interval for HTTP fallback
	InitialBackoff time.Duration // WS reconnect backoff
	MaxBackoff     time.Duration
	BufferSize     int // head channel buffer size
}

// DefaultHeadsConfig returns sensible defaults for Polygon (~2s blocks).
func DefaultHeadsConfig(wsURL, httpURL string) HeadsConfig {
	return HeadsConfig{
		WSURL:          wsURL,
		HTTPURL:        httpURL,
		PollInterval:   2 * time.Second,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		BufferSize:     16,
	}
}

// headsMetrics holds OTEL metric instruments.
type headsMetrics struct {
	headsReceived    metric.Int64Counter
	subscribeErrors  metric.Int64Counter
	connectionState  metric.Int64Gauge
	httpFallbackUsed metric.Int64Counter
}

// newHeadsRequest is the eth_subscribe call sent after every (re)connect.
var newHeadsRequest = map[string]any{
	"jsonrpc": "2.0",
	"id":      1,
	"method":  "eth_subscribe",
	"params":  []any{"newHeads"},
}

// subscriptionNotification is the eth_subscription push frame.
type subscriptionNotification struct {
	Method string `json:"method"`
	Params struct {
		Result json.RawMessage `json:"result"`
	} `json:"params"`
}

// wireHeader is the subset of the newHeads payload the bot consumes.
type wireHeader struct {
	Number     *hexutil.Big   `json:"number"`
	Hash       common.Hash    `json:"hash"`
	ParentHash common.Hash    `json:"parentHash"`
	Timestamp  hexutil.Uint64 `json:"timestamp"`
	GasLimit   hexutil.Uint64 `json:"gasLimit"`
	GasUsed    hexutil.Uint64 `json:"gasUsed"`
	BaseFee    *hexutil.Big   `json:"baseFeePerGas"`
}

// HeadSubscriber streams new Polygon heads. It subscribes over raw
// WebSocket JSON-RPC (eth_subscribe newHeads) and falls back to HTTP
// polling when no WS endpoint is configured or the socket cannot
// recover.
type HeadSubscriber struct {
	config HeadsConfig
	logger logger.LoggerInterface

	ws         *wsconn.Client
	httpClient *ethclient.Client
	clientMu   sync.RWMutex

	state     domain.ConnectionState
	stateMu   sync.RWMutex
	usingHTTP atomic.Bool
	lastBlock atomic.Uint64
	reconnect atomic.Int32

	heads  chan domain.Head
	done   chan struct{}
	closed atomic.Bool

	httpCB *circuitbreaker.CircuitBreaker[*types.Header]

	tracer  trace.Tracer
	metrics *headsMetrics
}

// NewHeadSubscriber creates a new head subscriber.
func NewHeadSubscriber(cfg HeadsConfig, log logger.LoggerInterface) (*HeadSubscriber, error) {
	s := &HeadSubscriber{
		config: cfg,
		logger: log,
		state:  domain.StateDisconnected,
		heads:  make(chan domain.Head, cfg.BufferSize),
		done:   make(chan struct{}),
		httpCB: circuitbreaker.New[*types.Header](circuitbreaker.DefaultConfig("heads-http")),
		tracer: otel.Tracer(tracerName),
	}

	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return s, nil
}

func (s *HeadSubscriber) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &headsMetrics{}

	s.metrics.headsReceived, err = meter.Int64Counter(
		"polygon_heads_received_total",
		metric.WithDescription("Total Polygon block heads received"),
		metric.WithUnit("{head}"),
	)
	if err != nil {
		return err
	}

	s.metrics.subscribeErrors, err = meter.Int64Counter(
		"polygon_subscribe_errors_total",
		metric.WithDescription("Total head subscription errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	s.metrics.connectionState, err = meter.Int64Gauge(
		"polygon_connection_state",
		metric.WithDescription("Node connection state (0=disconnected, 1=connecting, 2=connected, 3=reconnecting)"),
		metric.WithUnit("{state}"),
	)
	if err != nil {
		return err
	}

	s.metrics.httpFallbackUsed, err = meter.Int64Counter(
		"polygon_http_fallback_total",
		metric.WithDescription("Times HTTP polling fallback was used"),
		metric.WithUnit("{fallback}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Subscribe starts the head stream and returns the channel.
func (s *HeadSubscriber) Subscribe(ctx context.Context) (<-chan domain.Head, error) {
	ctx, span := s.tracer.Start(ctx, "heads.subscribe",
		trace.WithAttributes(
			attribute.String("ws_url", s.config.WSURL),
			attribute.String("http_url", s.config.HTTPURL),
		),
	)
	defer span.End()

	if s.closed.Load() {
		err := errors.New("head subscriber is closed")
		span.RecordError(err)
		return nil, err
	}

	s.setState(domain.StateConnecting)

	if s.config.WSURL != "" {
		if err := s.startWS(ctx); err == nil {
			s.setState(domain.StateConnected)
			span.SetStatus(codes.Ok, "subscribed via ws")
			return s.heads, nil
		} else {
			s.logger.Warn(ctx, "ws subscribe failed, falling back to http polling", "error", err)
			s.metrics.subscribeErrors.Add(ctx, 1)
			span.AddEvent("ws_failed_trying_http")
		}
	}

	if err := s.startHTTPPoller(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "all transports failed")
		s.setState(domain.StateDisconnected)
		return nil, apperror.New(apperror.CodeChainSubscribeFailed,
			apperror.WithCause(err),
			apperror.WithContext("failed to subscribe via WS and HTTP"))
	}

	s.usingHTTP.Store(true)
	s.metrics.httpFallbackUsed.Add(ctx, 1)
	s.setState(domain.StateConnected)
	span.SetStatus(codes.Ok, "subscribed via http polling")

	return s.heads, nil
}

// startWS connects the WebSocket and issues eth_subscribe. The wsconn
// client handles reconnects; after each reconnect the subscription is
// re-issued from the state change handler.
func (s *HeadSubscriber) startWS(ctx context.Context) error {
	wsCfg := wsconn.DefaultConfig(s.config.WSURL, "polygon-heads")
	wsCfg.InitialBackoff = s.config.InitialBackoff
	wsCfg.MaxBackoff = s.config.MaxBackoff

	ws, err := wsconn.New(wsCfg)
	if err != nil {
		return err
	}

	ws.OnMessage(func(msgCtx context.Context, msg []byte) {
		s.handleWSMessage(msgCtx, msg)
	})

	ws.OnStateChange(func(state wsconn.State, cause error) {
		switch state {
		case wsconn.StateConnected:
			// resubscribe on every (re)connect
			subCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := ws.SendJSON(subCtx, newHeadsRequest); err != nil {
				s.logger.Error(subCtx, "failed to send eth_subscribe", "error", err)
				s.metrics.subscribeErrors.Add(subCtx, 1)
			}
			s.setState(domain.StateConnected)
		case wsconn.StateReconnecting:
			s.reconnect.Add(1)
			s.setState(domain.StateReconnecting)
			if cause != nil {
				s.logger.Warn(context.Background(), "ws connection lost", "error", cause)
			}
		case wsconn.StateDisconnected:
			s.setState(domain.StateDisconnected)
		}
	})

	if err := ws.Connect(ctx); err != nil {
		return err
	}

	s.clientMu.Lock()
	s.ws = ws
	s.clientMu.Unlock()

	return nil
}

// handleWSMessage parses an inbound frame and emits a head when it is a
// newHeads notification. Subscription confirmations and unrelated
// responses are ignored.
func (s *HeadSubscriber) handleWSMessage(ctx context.Context, msg []byte) {
	var note subscriptionNotification
	if err := json.Unmarshal(msg, &note); err != nil || note.Method != "eth_subscription" {
		return
	}

	var header wireHeader
	if err := json.Unmarshal(note.Params.Result, &header); err != nil {
		s.logger.Warn(ctx, "failed to decode head notification", "error", err)
		s.metrics.subscribeErrors.Add(ctx, 1)
		return
	}
	if header.Number == nil {
		return
	}

	head := domain.Head{
		Number:     header.Number.ToInt().Uint64(),
		Hash:       header.Hash,
		ParentHash: header.ParentHash,
		Timestamp:  time.Unix(int64(header.Timestamp), 0),
		GasLimit:   uint64(header.GasLimit),
		GasUsed:    uint64(header.GasUsed),
	}
	if header.BaseFee != nil {
		head.BaseFee = header.BaseFee.ToInt()
	}

	s.emit(ctx, head)
}

// startHTTPPoller dials the HTTP endpoint and polls for new heads.
func (s *HeadSubscriber) startHTTPPoller(ctx context.Context) error {
	if s.config.HTTPURL == "" {
		return errors.New("http url not configured")
	}

	client, err := ethclient.DialContext(ctx, s.config.HTTPURL)
	if err != nil {
		return fmt.Errorf("dial http: %w", err)
	}

	s.clientMu.Lock()
	s.httpClient = client
	s.clientMu.Unlock()

	go s.runHTTPPoller(ctx)
	return nil
}

func (s *HeadSubscriber) runHTTPPoller(ctx context.Context) {
	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	s.logger.Info(ctx, "polling for heads over http", "interval", s.config.PollInterval)

	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollLatestHead(ctx)
		}
	}
}

func (s *HeadSubscriber) pollLatestHead(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "heads.poll")
	defer span.End()

	s.clientMu.RLock()
	client := s.httpClient
	s.clientMu.RUnlock()

	if client == nil {
		return
	}

	header, err := s.httpCB.Execute(func() (*types.Header, error) {
		return client.HeaderByNumber(ctx, nil) // nil = latest
	})
	if err != nil {
		span.RecordError(err)
		s.logger.Warn(ctx, "http head poll failed", "error", err)
		s.metrics.subscribeErrors.Add(ctx, 1)
		return
	}

	if header.Number.Uint64() <= s.lastBlock.Load() {
		span.AddEvent("duplicate_head")
		return
	}

	head := domain.Head{
		Number:     header.Number.Uint64(),
		Hash:       header.Hash(),
		ParentHash: header.ParentHash,
		Timestamp:  time.Unix(int64(header.Time), 0),
		GasLimit:   header.GasLimit,
		GasUsed:    header.GasUsed,
		BaseFee:    header.BaseFee,
	}

	s.emit(ctx, head)
	span.SetStatus(codes.Ok, "polled")
}

// emit pushes a head to the channel without blocking; a full buffer
// drops the head, the next one supersedes it anyway.
func (s *HeadSubscriber) emit(ctx context.Context, head domain.Head) {
	if head.Number <= s.lastBlock.Load() {
		return
	}
	s.lastBlock.Store(head.Number)

	select {
	case s.heads <- head:
		s.metrics.headsReceived.Add(ctx, 1)
		s.logger.Debug(ctx, "head received", "number", head.Number)
	default:
		s.logger.Warn(ctx, "head dropped, buffer full", "number", head.Number)
	}
}

// State returns the current connection state.
func (s *HeadSubscriber) State() domain.ConnectionState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Status returns detailed connection status.
func (s *HeadSubscriber) Status() domain.ConnectionStatus {
	return domain.ConnectionStatus{
		State:      s.State(),
		LastBlock:  s.lastBlock.Load(),
		LastUpdate: time.Now(),
		Reconnects: int(s.reconnect.Load()),
		UsingHTTP:  s.usingHTTP.Load(),
	}
}

// Close gracefully closes the subscriber.
func (s *HeadSubscriber) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	close(s.done)

	s.clientMu.Lock()
	if s.ws != nil {
		_ = s.ws.Close()
		s.ws = nil
	}
	if s.httpClient != nil {
		s.httpClient.Close()
		s.httpClient = nil
	}
	s.clientMu.Unlock()

	close(s.heads)
	s.setState(domain.StateDisconnected)

	return nil
}

func (s *HeadSubscriber) setState(state domain.ConnectionState) {
	s.stateMu.Lock()
	s.state = state
	s.stateMu.Unlock()

	stateValue := int64(0)
	switch state {
	case domain.StateConnecting:
		stateValue = 1
	case domain.StateConnected:
		stateValue = 2
	case domain.StateReconnecting:
		stateValue = 3
	}

	s.metrics.connectionState.Record(context.Background(), stateValue)
}

package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fd1az/polygon-arb-bot/business/operator/domain"
	"github.com/fd1az/polygon-arb-bot/internal/apperror"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
)

// Handler executes operator commands. Every command, including a
// malformed one, produces exactly one reply.
type Handler struct {
	trading TradingControl
	chain   ChainReader
	logger  logger.LoggerInterface
}

// NewHandler creates a Handler.
func NewHandler(trading TradingControl, chain ChainReader, log logger.LoggerInterface) *Handler {
	return &Handler{
		trading: trading,
		chain:   chain,
		logger:  log,
	}
}

// HandleLine parses and executes one input line. Parse errors come back
// as the reply, never as a Go error.
func (h *Handler) HandleLine(ctx context.Context, line string) string {
	cmd, err := domain.Parse(line)
	if err != nil {
		return "error: " + err.Error()
	}
	return h.Handle(ctx, cmd)
}

// Handle executes one parsed command and returns the reply.
func (h *Handler) Handle(ctx context.Context, cmd domain.Command) string {
	h.logger.Debug(ctx, "operator command", "kind", cmd.Kind)

	switch cmd.Kind {
	case domain.KindStatus:
		return h.status(ctx)
	case domain.KindScan:
		return h.scan(ctx)
	case domain.KindStartBot:
		if h.trading.Enable() {
			return "bot started, scanning every " + h.trading.RiskConfig().ScanInterval.String()
		}
		return "bot is already running"
	case domain.KindStopBot:
		if h.trading.Disable() {
			return "bot stopped, a cycle in flight will finish"
		}
		return "bot is not running"
	case domain.KindConfig:
		return h.config()
	case domain.KindSetProfit:
		if err := h.trading.SetMinProfit(cmd.Value); err != nil {
			return "rejected: " + err.Error()
		}
		return "min profit set to $" + cmd.Value.StringFixed(2)
	case domain.KindSetGas:
		if err := h.trading.SetMaxGas(cmd.Value); err != nil {
			return "rejected: " + err.Error()
		}
		return "max gas set to " + cmd.Value.StringFixed(1) + " gwei"
	case domain.KindSetSlippage:
		if err := h.trading.SetSlippage(cmd.Value); err != nil {
			return "rejected: " + err.Error()
		}
		return "slippage set to " + cmd.Value.StringFixed(2) + "%"
	case domain.KindBalance:
		return h.balance(ctx)
	case domain.KindHelp:
		return helpText
	default:
		return fmt.Sprintf("error: unknown command %q", cmd.Kind)
	}
}

const helpText = `commands:
  status            bot state and connection
  scan              run one detection pass now
  startbot          enable scheduled trading
  stopbot           disable scheduled trading
  config            show active configuration
  setprofit <usd>   set min gross profit threshold
  setgas <gwei>     set gas price ceiling
  setslippage <pct> set slippage tolerance (0, 10]
  balance           show wallet balances
  help              this text`

func (h *Handler) status(ctx context.Context) string {
	state := h.trading.State()
	risk := h.trading.RiskConfig()
	conn := h.chain.ConnectionStatus()

	var b strings.Builder

	running := "stopped"
	if state.Enabled {
		running = "running"
	}
	fmt.Fprintf(&b, "bot: %s (%s, %s mode)\n", running, state.Phase, strings.ToLower(string(h.trading.ExecutionKind())))
	fmt.Fprintf(&b, "cycles: %d, opportunities: %d, trades: %d\n",
		state.CyclesRun, state.Opportunities, state.TradesDone)
	fmt.Fprintf(&b, "limits: min profit $%s, max gas %s gwei, slippage %s%%\n",
		risk.MinProfitUSD.StringFixed(2), risk.MaxGasPriceGwei.StringFixed(1), risk.SlippagePercent.StringFixed(2))

	// Chain reads are informational; a failure becomes part of the
	// reply, never a failed command.
	if gas, err := h.chain.GasPrice(ctx); err != nil {
		fmt.Fprintf(&b, "gas: unavailable (%s)\n", err)
	} else {
		fmt.Fprintf(&b, "gas: %s gwei\n", gas.Gwei.StringFixed(1))
	}
	b.WriteString(h.walletLine(ctx))

	if !state.LastCycleAt.IsZero() {
		fmt.Fprintf(&b, "last cycle: %s\n", state.LastCycleAt.Format("15:04:05"))
	}
	if state.LastErrorMsg != "" {
		fmt.Fprintf(&b, "last error: %s\n", state.LastErrorMsg)
	}

	transport := "websocket"
	if conn.UsingHTTP {
		transport = "http polling"
	}
	fmt.Fprintf(&b, "node: %s via %s", conn.State, transport)
	if conn.LastBlock > 0 {
		fmt.Fprintf(&b, ", block #%d", conn.LastBlock)
	}
	if conn.Reconnects > 0 {
		fmt.Fprintf(&b, ", %d reconnects", conn.Reconnects)
	}

	return b.String()
}

// walletLine summarizes wallet presence and the native-currency balance.
func (h *Handler) walletLine(ctx context.Context) string {
	sheet, err := h.chain.Balances(ctx)
	if err != nil {
		return "wallet: balance unavailable (" + err.Error() + ")\n"
	}
	if len(sheet.Balances) == 0 {
		return "wallet: not configured\n"
	}
	for _, bal := range sheet.Balances {
		if bal.Asset != nil && bal.Asset.IsNative() {
			return fmt.Sprintf("wallet: %s %s\n",
				bal.Amount.ToDecimal().StringFixed(4), bal.Asset.Symbol())
		}
	}
	return "wallet: configured\n"
}

func (h *Handler) scan(ctx context.Context) string {
	report, err := h.trading.Scan(ctx)
	if err != nil {
		if apperror.GetCode(err) == apperror.CodeCycleInProgress {
			return "a cycle is already running, try again shortly"
		}
		return "scan failed: " + err.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "scanned %d pairs in %s\n", len(report.Pairs), report.Duration.Round(time.Millisecond))

	found := 0
	for _, pr := range report.Pairs {
		if pr.Opportunity == nil {
			continue
		}
		found++
		fmt.Fprintf(&b, "  %s\n", pr.Opportunity.String())
	}
	if found == 0 {
		b.WriteString("no opportunities above the profit threshold")
	} else {
		fmt.Fprintf(&b, "%d opportunity(ies) found", found)
	}

	return b.String()
}

func (h *Handler) config() string {
	risk := h.trading.RiskConfig()
	pairs := h.trading.Pairs()

	names := make([]string, 0, len(pairs))
	for _, p := range pairs {
		names = append(names, p.String())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "pairs:       %s\n", strings.Join(names, ", "))
	fmt.Fprintf(&b, "notional:    %s base tokens\n", risk.Notional.String())
	fmt.Fprintf(&b, "min profit:  $%s\n", risk.MinProfitUSD.StringFixed(2))
	fmt.Fprintf(&b, "max gas:     %s gwei\n", risk.MaxGasPriceGwei.StringFixed(1))
	fmt.Fprintf(&b, "slippage:    %s%%\n", risk.SlippagePercent.StringFixed(2))
	fmt.Fprintf(&b, "interval:    %s\n", risk.ScanInterval)
	fmt.Fprintf(&b, "execution:   %s", strings.ToLower(string(h.trading.ExecutionKind())))
	return b.String()
}

func (h *Handler) balance(ctx context.Context) string {
	sheet, err := h.chain.Balances(ctx)
	if err != nil {
		return "balance lookup failed: " + err.Error()
	}
	if len(sheet.Balances) == 0 {
		return "no tracked balances (wallet not configured?)"
	}

	var b strings.Builder
	b.WriteString("balances:\n")
	for _, bal := range sheet.Balances {
		line := fmt.Sprintf("  %-7s %s", bal.Asset.Symbol(), bal.Amount.ToDecimal().StringFixed(4))
		if bal.Stale {
			line += "  (stale)"
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

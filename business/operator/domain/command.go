// Package domain defines the operator command language. Raw text is
// parsed at the edge; everything past the parser works with typed
// commands.
package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies an operator command.
type Kind string

const (
	KindStatus      Kind = "status"
	KindScan        Kind = "scan"
	KindStartBot    Kind = "startbot"
	KindStopBot     Kind = "stopbot"
	KindConfig      Kind = "config"
	KindSetProfit   Kind = "setprofit"
	KindSetGas      Kind = "setgas"
	KindSetSlippage Kind = "setslippage"
	KindBalance     Kind = "balance"
	KindHelp        Kind = "help"
)

// Command is one parsed operator command. Value is set only for the
// set* commands.
type Command struct {
	Kind  Kind
	Value decimal.Decimal
}

// HasValue reports whether the command carries a numeric argument.
func (c Command) HasValue() bool {
	switch c.Kind {
	case KindSetProfit, KindSetGas, KindSetSlippage:
		return true
	}
	return false
}

// Parse turns one input line into a Command. Command words are matched
// case-insensitively; numeric arguments are parsed as decimals.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	kind := Kind(strings.ToLower(fields[0]))
	args := fields[1:]

	switch kind {
	case KindStatus, KindScan, KindStartBot, KindStopBot, KindConfig, KindBalance, KindHelp:
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%s takes no arguments", kind)
		}
		return Command{Kind: kind}, nil

	case KindSetProfit, KindSetGas, KindSetSlippage:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: %s <value>", kind)
		}
		v, err := decimal.NewFromString(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("%s: %q is not a number", kind, args[0])
		}
		return Command{Kind: kind, Value: v}, nil

	default:
		return Command{}, fmt.Errorf("unknown command %q, try help", fields[0])
	}
}

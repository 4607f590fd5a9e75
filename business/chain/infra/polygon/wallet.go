package polygon

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/polygon-arb-bot/business/chain/domain"
	"github.com/fd1az/polygon-arb-bot/internal/apperror"
	"github.com/fd1az/polygon-arb-bot/internal/asset"
	"github.com/fd1az/polygon-arb-bot/internal/circuitbreaker"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
)

// erc20ABI covers the single read the wallet needs.
const erc20ABI = `[
	{
		"inputs": [{"internalType": "address", "name": "account", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// Wallet reads operator wallet balances for a fixed set of tracked assets.
type Wallet struct {
	address common.Address
	tracked []*asset.Asset
	client  *ethclient.Client
	abi     abi.ABI
	cb      *circuitbreaker.CircuitBreaker[*big.Int]

	logger logger.LoggerInterface
	tracer trace.Tracer
}

// NewWallet creates a wallet reader. tracked lists the assets the
// balance snapshot covers; native assets are read with eth_getBalance,
// tokens with balanceOf.
func NewWallet(address common.Address, tracked []*asset.Asset, client *ethclient.Client, log logger.LoggerInterface) (*Wallet, error) {
	parsedABI, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse erc20 ABI: %w", err)
	}

	return &Wallet{
		address: address,
		tracked: tracked,
		client:  client,
		abi:     parsedABI,
		cb:      circuitbreaker.New[*big.Int](circuitbreaker.DefaultConfig("wallet")),
		logger:  log,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// Balances returns the wallet balance for every tracked asset. A failed
// read yields a stale zero balance for that asset so one flaky token
// contract cannot block the snapshot.
func (w *Wallet) Balances(ctx context.Context) (domain.BalanceSheet, error) {
	ctx, span := w.tracer.Start(ctx, "wallet.balances",
		trace.WithAttributes(attribute.String("address", w.address.Hex())),
	)
	defer span.End()

	sheet := domain.BalanceSheet{Balances: make([]domain.Balance, 0, len(w.tracked))}

	for _, a := range w.tracked {
		raw, err := w.balanceOf(ctx, a)
		if err != nil {
			w.logger.Warn(ctx, "balance fetch failed, reporting zero",
				"asset", a.Symbol(),
				"error", err)
			span.AddEvent("balance_failed",
				trace.WithAttributes(attribute.String("asset", a.Symbol())))
			sheet.Balances = append(sheet.Balances, domain.Balance{
				Asset:  a,
				Amount: asset.Zero(a),
				Stale:  true,
			})
			continue
		}

		sheet.Balances = append(sheet.Balances, domain.Balance{
			Asset:  a,
			Amount: asset.NewAmount(a, raw),
		})
	}

	span.SetStatus(codes.Ok, "fetched")
	return sheet, nil
}

func (w *Wallet) balanceOf(ctx context.Context, a *asset.Asset) (*big.Int, error) {
	if a.IsNative() {
		return w.cb.Execute(func() (*big.Int, error) {
			return w.client.BalanceAt(ctx, w.address, nil)
		})
	}

	callData, err := w.abi.Pack("balanceOf", w.address)
	if err != nil {
		return nil, fmt.Errorf("failed to encode balanceOf: %w", err)
	}

	token := a.Address()
	result, err := w.cb.Execute(func() (*big.Int, error) {
		raw, err := w.client.CallContract(ctx, ethereum.CallMsg{
			To:   &token,
			Data: callData,
		}, nil)
		if err != nil {
			return nil, err
		}
		outputs, err := w.abi.Unpack("balanceOf", raw)
		if err != nil {
			return nil, err
		}
		bal, ok := outputs[0].(*big.Int)
		if !ok {
			return nil, fmt.Errorf("unexpected balanceOf output type %T", outputs[0])
		}
		return bal, nil
	})
	if err != nil {
		return nil, apperror.New(apperror.CodeBalanceFetchFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("balanceOf %s failed", a.Symbol())))
	}

	return result, nil
}

// Package models defines the shared domain types for trade-brain: mints,
// trade identifiers, trade/token records, aggregation windows, feature
// snapshots, heat signals, positions, and per-mint state.
package models

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/google/uuid"
)

// Mint is a token's 32-byte on-chain identifier. It is immutable and is the
// primary join key for features, windows, positions, and wire messages.
type Mint [32]byte

// String renders the mint as base58, matching how mints are displayed
// on-chain. Presentation only — never used for wire encoding.
func (m Mint) String() string {
	return base58.Encode(m[:])
}

// Short returns the first n base58 characters, useful for log lines.
func (m Mint) Short(n int) string {
	s := m.String()
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// IsZero reports whether the mint is the zero value (no mint set).
func (m Mint) IsZero() bool {
	return m == Mint{}
}

// Signature is a 64-byte transaction signature.
type Signature [64]byte

func (s Signature) String() string {
	return base58.Encode(s[:])
}

func (s Signature) IsZero() bool {
	return s == Signature{}
}

// TradeID is a 16-byte opaque identifier generated by Brain when a decision
// is issued. It is unique across the lifetime of a position and is used for
// deduplication and for correlating Ack/Confirm/Closed messages back to the
// decision that caused them.
type TradeID [16]byte

// NewTradeID generates a fresh trade id from a random v4 UUID's raw bytes.
func NewTradeID() TradeID {
	var id TradeID
	copy(id[:], uuid.New()[:])
	return id
}

func (t TradeID) String() string {
	return hex.EncodeToString(t[:])
}

func (t TradeID) IsZero() bool {
	return t == TradeID{}
}

// Side is the trade direction carried on most wire messages.
type Side uint8

const (
	SideBuy  Side = 0
	SideSell Side = 1
)

func (s Side) String() string {
	if s == SideSell {
		return "SELL"
	}
	return "BUY"
}

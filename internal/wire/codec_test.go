package wire

import "testing"

func TestTradeDecisionRoundTrip(t *testing.T) {
	mint := [32]byte{31: 1}
	m := NewBuyDecision(mint, 100_000_000, 150, 80)
	enc := m.Encode()
	if len(enc) != SizeTradeDecision {
		t.Fatalf("encoded size = %d, want %d", len(enc), SizeTradeDecision)
	}
	got, err := DecodeTradeDecision(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != m {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestDecodeTruncated(t *testing.T) {
	mint := [32]byte{31: 1}
	m := NewBuyDecision(mint, 1, 1, 1)
	enc := m.Encode()
	_, err := DecodeTradeDecision(enc[:len(enc)-1])
	if err == nil {
		t.Fatal("expected truncated error, got nil")
	}
}

func TestDecodeWrongKind(t *testing.T) {
	enc := make([]byte, SizeTradeDecision)
	enc[0] = KindHeatPulse
	_, err := DecodeTradeDecision(enc)
	if err == nil {
		t.Fatal("expected wrong-kind error, got nil")
	}
}

func TestExecutionConfirmationRoundTrip(t *testing.T) {
	m := ExecutionConfirmation{
		ProtocolVersion:      1,
		Mint:                 [32]byte{1: 9},
		Side:                 0,
		ExecutedSizeLamports: 55,
		ExecutedPriceScaled:  1_000_000_000,
		TxSignature:          [32]byte{2: 7},
		Timestamp:            123456789,
		Success:              1,
	}
	enc := m.Encode()
	if len(enc) != SizeExecutionConfirmation {
		t.Fatalf("encoded size = %d, want %d", len(enc), SizeExecutionConfirmation)
	}
	got, err := DecodeExecutionConfirmation(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != m {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestKind27Disambiguation(t *testing.T) {
	// Both messages share byte tag 27 but differ in declared size; a decoder
	// for one must reject the other's payload.
	ack := EnterAck{Mint: [32]byte{0: 1}, TradeID: [16]byte{0: 2}, TimestampNs: 99}
	ctx := TxConfirmedContext{Mint: [32]byte{0: 3}, TradeID: [16]byte{0: 4}, TimestampNs: 77}

	ackBytes := ack.Encode()
	ctxBytes := ctx.Encode()

	if ackBytes[0] != KindEnterAck || ctxBytes[0] != KindTxConfirmedContext {
		t.Fatal("both messages must carry kind tag 27")
	}
	if len(ackBytes) == len(ctxBytes) {
		t.Fatal("EnterAck and TxConfirmedContext must not share a declared size")
	}

	if _, err := DecodeTxConfirmedContext(ackBytes); err == nil {
		t.Fatal("decoding EnterAck bytes as TxConfirmedContext must fail (too short)")
	}
}

func TestPositionUpdateRoundTrip(t *testing.T) {
	m := PositionUpdate{
		Mint:                 [32]byte{0: 5},
		TradeID:              [16]byte{0: 6},
		Timestamp:            1000,
		EntryPriceLamports:   1_000_000,
		CurrentPriceLamports: 1_300_000,
		EntrySizeSol:         0.1,
		CurrentValueSol:      0.13,
		RealizedPnlUsd:       4.5,
		PnlPercent:           30.0,
		MempoolPendingBuys:   3,
		MempoolPendingSells:  1,
		PriceVelocity:        0.02,
		ProfitTargetHit:      1,
		StopLossHit:          0,
		NoMempoolActivity:    0,
	}
	enc := m.Encode()
	if len(enc) != SizePositionUpdate {
		t.Fatalf("encoded size = %d, want %d", len(enc), SizePositionUpdate)
	}
	got, err := DecodePositionUpdate(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != m {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestManualExitNotificationRoundTrip(t *testing.T) {
	m := ManualExitNotification{
		Mint:               [32]byte{0: 1},
		TradeID:            [16]byte{0: 2},
		ExitSignature:      [64]byte{0: 3},
		Timestamp:          42,
		EntryPriceLamports: 100,
		ExitPriceLamports:  130,
		SizeSol:            1.5,
		RealizedPnlUsd:     12.3,
		PnlPercent:         30,
		HoldTimeSecs:       90,
	}
	enc := m.Encode()
	if len(enc) != SizeManualExitNotif {
		t.Fatalf("encoded size = %d, want %d", len(enc), SizeManualExitNotif)
	}
	got, err := DecodeManualExitNotification(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != m {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, m)
	}
}

// Package bus implements the loopback UDP datagram bus: one sender and one
// receiver per logical endpoint, fire-and-forget with per-destination
// jitter (spec §4.2). Port assignment disambiguates the kind-27 and
// kind-28 byte-tag collisions (SPEC_FULL.md §4.1) — each bound socket
// carries traffic from exactly one logical sender role.
package bus

import "strconv"

// Loopback ports (spec §6.2, extended by SPEC_FULL.md §4.1).
const (
	PortAdviceIngress      = 45100 // Brain: advisory + Pyth price updates
	PortDecisionIngress    = 45110 // Executor: TradeDecision
	PortEnterAckIngress    = 45115 // Brain: EnterAck (kind 27)
	PortConfirmedIngress   = 45120 // Brain: ExecutionConfirmation, TradeClosed (kind 28)
	PortHeatIngress        = 45125 // Brain: HeatPulse, PositionUpdate
	PortWatchIngress       = 45130 // Mempool Watcher: WatchSignature, WatchSigEnhanced (kind 28)
	PortTxConfirmedContext = 45131 // Brain: TxConfirmedContext (kind 27)
	PortExecConfirmed      = 45132 // Executor: TxConfirmed (kind 26)
	PortBrainConfirmed     = 45133 // Brain: TxConfirmed (kind 26) — same fan-out as PortExecConfirmed, separate socket per receiving actor
	PortExecManualExit     = 45134 // Executor: ManualExitNotification
	PortBrainManualExit    = 45135 // Brain: ManualExitNotification
)

// Addr returns the loopback bind address for a port.
func Addr(port int) string {
	return "127.0.0.1:" + strconv.Itoa(port)
}

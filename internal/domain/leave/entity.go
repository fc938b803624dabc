package leave

import (
	"strings"
	"time"
)

// Type is the closed set of leave types the client knows how to present.
// Unknown types coming from the server still round-trip; BalanceKey degrades
// to a lower-cased lookup for them.
type Type string

const (
	TypePTO  Type = "PTO"
	TypeSick Type = "Sick"
)

// BalanceKey maps a leave type to its key in the balance map. The mapping is
// total: anything outside the known set falls back to the lower-cased type,
// so a lookup can miss but never panic.
func BalanceKey(t Type) string {
	switch t {
	case TypePTO:
		return "pto"
	case TypeSick:
		return "sick"
	default:
		return strings.ToLower(string(t))
	}
}

// Balances is the per-user remaining entitlement in days, keyed by balance
// key. It is a read-only cache of server state; a missing key reads as zero.
type Balances map[string]int

// Days returns the remaining balance for a leave type, zero when absent.
func (b Balances) Days(t Type) int {
	return b[BalanceKey(t)]
}

// Clone returns a copy so cached balances can be handed out without sharing
// the underlying map.
func (b Balances) Clone() Balances {
	if b == nil {
		return nil
	}
	out := make(Balances, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Request status values as reported by the server.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// Draft is a transient, client-only leave application. It only becomes a
// Record once the server accepts it.
type Draft struct {
	LeaveType Type
	StartDate string
	EndDate   string
	Reason    string
}

// Complete reports whether the three inputs that drive validation are all
// present. Reason is not part of the validation triple.
func (d Draft) Complete() bool {
	return d.LeaveType != "" && d.StartDate != "" && d.EndDate != ""
}

// Record is a persisted, server-validated leave application.
type Record struct {
	ID        string
	UserID    string
	LeaveType Type
	StartDate time.Time
	EndDate   time.Time
	Days      int
	Reason    string
	Status    string
	CreatedAt time.Time
}

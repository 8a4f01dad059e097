package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Heuristic windows and the outlier multiplier. Tuned against observed
// double-submit behaviour, not a statistical model.
const (
	sameIPWindow       = 10 * time.Second
	sameInvestorWindow = 30 * time.Second
	outlierMultiplier  = 5.0
)

// Reason strings surface verbatim in admin views and investor emails.
const (
	ReasonSameIP       = "Multiple quick investments from same IP"
	ReasonDuplicateRef = "Duplicate payment reference"
	ReasonOutlier      = "Suspiciously high investment amount"
	ReasonSameInvestor = "Same investor multiple times in short period"
)

// FraudCandidate carries the request metadata a new investment is judged on.
type FraudCandidate struct {
	Investor   primitive.ObjectID
	Amount     float64
	PaymentRef string
	IPAddress  string
}

// EvaluateFraud runs the four heuristics over a project's existing investor
// list. Every check runs; any triggered reason is appended in check order.
// The function is pure: it never errors, touches no storage, and is
// deterministic for a given history snapshot and clock value. With an empty
// history only the duplicate-reference check could ever fire, so a first
// investment is never flagged for IP, outlier or investor bursts.
func EvaluateFraud(c FraudCandidate, history []Investment, now time.Time) (bool, []string) {
	var reasons []string

	// 1. Same source IP within the burst window.
	if c.IPAddress != "" {
		for _, inv := range history {
			if inv.IPAddress == c.IPAddress && now.Sub(inv.InvestedAt) < sameIPWindow {
				reasons = append(reasons, ReasonSameIP)
				break
			}
		}
	}

	// 2. Replay / double-submit of a payment reference.
	for _, inv := range history {
		if inv.PaymentRef == c.PaymentRef {
			reasons = append(reasons, ReasonDuplicateRef)
			break
		}
	}

	// 3. Amount far above the running mean. Only meaningful once the mean
	// is non-zero.
	var total float64
	for _, inv := range history {
		total += inv.Amount
	}
	if len(history) > 0 {
		avg := total / float64(len(history))
		if avg > 0 && c.Amount > avg*outlierMultiplier {
			reasons = append(reasons, ReasonOutlier)
		}
	}

	// 4. Same investor again inside the cool-down.
	for _, inv := range history {
		if inv.Investor == c.Investor && now.Sub(inv.InvestedAt) < sameInvestorWindow {
			reasons = append(reasons, ReasonSameInvestor)
			break
		}
	}

	return len(reasons) > 0, reasons
}

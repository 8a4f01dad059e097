package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func candidate(investor primitive.ObjectID, amount float64, ref, ip string) FraudCandidate {
	return FraudCandidate{Investor: investor, Amount: amount, PaymentRef: ref, IPAddress: ip}
}

func entry(investor primitive.ObjectID, amount float64, ref, ip string, at time.Time) Investment {
	return Investment{
		ID:         primitive.NewObjectID(),
		Investor:   investor,
		Amount:     amount,
		PaymentRef: ref,
		IPAddress:  ip,
		InvestedAt: at,
	}
}

func TestEvaluateFraudEmptyHistory(t *testing.T) {
	now := time.Now()
	flag, reasons := EvaluateFraud(
		candidate(primitive.NewObjectID(), 100000, "ref_1", "203.0.113.9"),
		nil, now)

	require.False(t, flag)
	require.Empty(t, reasons)
}

func TestEvaluateFraudSameIPWithinWindow(t *testing.T) {
	now := time.Now()
	ip := "203.0.113.9"
	history := []Investment{
		entry(primitive.NewObjectID(), 500, "ref_1", ip, now.Add(-5*time.Second)),
	}

	flag, reasons := EvaluateFraud(
		candidate(primitive.NewObjectID(), 600, "ref_2", ip), history, now)

	require.True(t, flag)
	require.Contains(t, reasons, ReasonSameIP)
}

func TestEvaluateFraudSameIPOutsideWindow(t *testing.T) {
	now := time.Now()
	ip := "203.0.113.9"
	history := []Investment{
		entry(primitive.NewObjectID(), 500, "ref_1", ip, now.Add(-11*time.Second)),
	}

	_, reasons := EvaluateFraud(
		candidate(primitive.NewObjectID(), 600, "ref_2", ip), history, now)

	require.NotContains(t, reasons, ReasonSameIP)
}

func TestEvaluateFraudDuplicateReference(t *testing.T) {
	now := time.Now()
	history := []Investment{
		entry(primitive.NewObjectID(), 500, "ref_dup", "198.51.100.1", now.Add(-time.Hour)),
	}

	// Flagged regardless of amount or timing.
	flag, reasons := EvaluateFraud(
		candidate(primitive.NewObjectID(), 500, "ref_dup", "203.0.113.9"), history, now)

	require.True(t, flag)
	require.Contains(t, reasons, ReasonDuplicateRef)
}

func TestEvaluateFraudOutlierAmount(t *testing.T) {
	now := time.Now()
	history := []Investment{
		entry(primitive.NewObjectID(), 100, "ref_1", "198.51.100.1", now.Add(-time.Hour)),
		entry(primitive.NewObjectID(), 300, "ref_2", "198.51.100.2", now.Add(-time.Hour)),
	}
	// mean = 200, threshold = 1000

	flag, reasons := EvaluateFraud(
		candidate(primitive.NewObjectID(), 1001, "ref_3", "203.0.113.9"), history, now)
	require.True(t, flag)
	require.Contains(t, reasons, ReasonOutlier)

	// At the threshold exactly: not an outlier.
	_, reasons = EvaluateFraud(
		candidate(primitive.NewObjectID(), 1000, "ref_4", "203.0.113.9"), history, now)
	require.NotContains(t, reasons, ReasonOutlier)
}

func TestEvaluateFraudSameInvestorCooldown(t *testing.T) {
	now := time.Now()
	investor := primitive.NewObjectID()
	history := []Investment{
		entry(investor, 500, "ref_1", "198.51.100.1", now.Add(-20*time.Second)),
	}

	flag, reasons := EvaluateFraud(
		candidate(investor, 600, "ref_2", "203.0.113.9"), history, now)
	require.True(t, flag)
	require.Contains(t, reasons, ReasonSameInvestor)

	// Past the cool-down the same investor is fine.
	_, reasons = EvaluateFraud(
		candidate(investor, 600, "ref_3", "203.0.113.9"), history,
		now.Add(15*time.Second))
	require.NotContains(t, reasons, ReasonSameInvestor)
}

func TestEvaluateFraudAllChecksRunAndKeepOrder(t *testing.T) {
	now := time.Now()
	investor := primitive.NewObjectID()
	ip := "203.0.113.9"
	history := []Investment{
		entry(investor, 100, "ref_dup", ip, now.Add(-2*time.Second)),
	}

	// One submission trips every heuristic; no short-circuiting.
	flag, reasons := EvaluateFraud(
		candidate(investor, 10000, "ref_dup", ip), history, now)

	require.True(t, flag)
	require.Equal(t, []string{
		ReasonSameIP,
		ReasonDuplicateRef,
		ReasonOutlier,
		ReasonSameInvestor,
	}, reasons)
}

func TestEvaluateFraudIgnoresOtherProjectsHistory(t *testing.T) {
	// The evaluator only ever sees one project's investor list; callers
	// passing a different project's empty history get a clean result even
	// for a reference that exists elsewhere.
	now := time.Now()
	flag, reasons := EvaluateFraud(
		candidate(primitive.NewObjectID(), 100, "ref_used_on_other_project", "203.0.113.9"),
		[]Investment{}, now)

	require.False(t, flag)
	require.Empty(t, reasons)
}

func TestEvaluateFraudDeterministic(t *testing.T) {
	now := time.Now()
	investor := primitive.NewObjectID()
	history := []Investment{
		entry(investor, 100, "ref_1", "198.51.100.1", now.Add(-time.Minute)),
	}
	c := candidate(investor, 10000, "ref_2", "203.0.113.9")

	flag1, reasons1 := EvaluateFraud(c, history, now)
	flag2, reasons2 := EvaluateFraud(c, history, now)

	require.Equal(t, flag1, flag2)
	require.Equal(t, reasons1, reasons2)
}

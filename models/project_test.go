package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDaysLeft(t *testing.T) {
	now := time.Now()
	p := Project{CreatedAt: now.Add(-48 * time.Hour), Duration: 10}
	require.Equal(t, 8, p.DaysLeft(now))

	expired := Project{CreatedAt: now.Add(-30 * 24 * time.Hour), Duration: 10}
	require.Equal(t, 0, expired.DaysLeft(now))
}

func TestPercentageFunded(t *testing.T) {
	p := Project{Goal: 1000, CurrentFunding: 250}
	require.InDelta(t, 25, p.PercentageFunded(), 0.001)

	over := Project{Goal: 1000, CurrentFunding: 1500}
	require.InDelta(t, 100, over.PercentageFunded(), 0.001)

	noGoal := Project{Goal: 0, CurrentFunding: 500}
	require.Zero(t, noGoal.PercentageFunded())
}

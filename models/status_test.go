package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCompleted, false},
		{StatusApproved, StatusCompleted, true},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusApproved, false},
		{StatusRejected, StatusPending, false},
		{StatusCompleted, StatusApproved, false},
		{StatusApproved, StatusPending, false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.ok, CanTransition(tc.from, tc.to),
			"transition %s -> %s", tc.from, tc.to)
	}
}

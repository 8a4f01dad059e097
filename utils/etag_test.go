package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateETagStable(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Now()

	first := GenerateETag(id, at)
	second := GenerateETag(id, at)
	require.Equal(t, first, second)
	require.True(t, len(first) > 2 && first[0] == '"' && first[len(first)-1] == '"')
}

func TestGenerateETagChangesWithUpdate(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Now()

	require.NotEqual(t, GenerateETag(id, at), GenerateETag(id, at.Add(time.Second)))
	require.NotEqual(t, GenerateETag(id, at), GenerateETag(primitive.NewObjectID(), at))
}

func TestLastNDays(t *testing.T) {
	days := LastNDays(7)
	require.Len(t, days, 7)
	require.Equal(t, time.Now().UTC().Format("2006-01-02"), days[6])

	for i := 1; i < len(days); i++ {
		prev, err := time.Parse("2006-01-02", days[i-1])
		require.NoError(t, err)
		cur, err := time.Parse("2006-01-02", days[i])
		require.NoError(t, err)
		require.Equal(t, 24*time.Hour, cur.Sub(prev))
	}
}

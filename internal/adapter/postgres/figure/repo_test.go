package figure

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/figstore/internal/domain"
)

// updated_at must come from the database clock, not the application's;
// otherwise clock skew between app and DB could produce an updated_at
// earlier than the insert-time created_at.
func TestUpdateQuery_StampsUpdatedAtFromDatabaseClock(t *testing.T) {
	t.Parallel()

	f := &domain.Figure{
		ID:          7,
		Name:        "Iron Man",
		Category:    domain.CategoryMarvel,
		Price:       decimal.NewFromFloat(29.99),
		ReleaseDate: time.Date(2023, 5, 12, 0, 0, 0, 0, time.UTC),
	}

	sqlStr, args, err := updateQuery(f).ToSql()

	require.NoError(t, err)
	assert.Contains(t, sqlStr, "updated_at = now()")
	assert.Contains(t, sqlStr, "RETURNING "+columnList())

	// The only time-typed argument allowed is the release date itself.
	var times int
	for _, arg := range args {
		if _, ok := arg.(time.Time); ok {
			times++
		}
	}
	assert.Equal(t, 1, times, "only release_date should be bound as a timestamp")
}

package outbox

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Zisou1/2MNumerik-backend/pkg/db/models"
	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
)

func setupOutboxTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  attempts INTEGER NOT NULL DEFAULT 0,
  published_at DATETIME,
  last_error TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec("DELETE FROM outbox_events").Error)
	return db
}

func seedOutboxEvent(t *testing.T, db *gorm.DB, createdAt time.Time, publishedAt *time.Time, attempts int) uuid.UUID {
	t.Helper()
	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventOrderUpdated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       []byte(`{}`),
		Attempts:      attempts,
		PublishedAt:   publishedAt,
		CreatedAt:     createdAt,
	}
	require.NoError(t, db.Create(&event).Error)
	return event.ID
}

func TestPruneBefore(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	cutoff := now.Add(-30 * 24 * time.Hour)
	oldStamp := cutoff.Add(-time.Hour)
	recentStamp := cutoff.Add(time.Hour)

	oldPublished := seedOutboxEvent(t, db, oldStamp, &oldStamp, 1)
	oldExhausted := seedOutboxEvent(t, db, oldStamp, nil, 10)
	recentPublished := seedOutboxEvent(t, db, recentStamp, &recentStamp, 1)
	oldPending := seedOutboxEvent(t, db, oldStamp, nil, 3)

	deleted, err := repo.PruneBefore(cutoff, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var remaining []models.OutboxEvent
	require.NoError(t, db.Find(&remaining).Error)
	ids := make(map[uuid.UUID]bool, len(remaining))
	for _, event := range remaining {
		ids[event.ID] = true
	}
	assert.False(t, ids[oldPublished], "published rows past the cutoff must be pruned")
	assert.False(t, ids[oldExhausted], "exhausted rows past the cutoff must be pruned")
	assert.True(t, ids[recentPublished], "rows inside the retention window must survive")
	assert.True(t, ids[oldPending], "pending rows with attempts left must survive")
}

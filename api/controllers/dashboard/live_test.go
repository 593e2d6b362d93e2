package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	internaldashboard "github.com/Zisou1/2MNumerik-backend/internal/dashboard"
	"github.com/Zisou1/2MNumerik-backend/pkg/db/models"
	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
	"github.com/Zisou1/2MNumerik-backend/pkg/logger"
)

func seedView(t *testing.T, logg *logger.Logger, now time.Time) *internaldashboard.RankedView {
	t.Helper()
	minutes := 45
	deadline := now.Add(20 * time.Minute)
	view := internaldashboard.NewRankedView(logg)
	view.Replace([]models.Order{{
		ID:             uuid.New(),
		CommercialName: "banners",
		Status:         enums.OrderStatusInProgress,
		CreatedAt:      now.Add(-time.Hour),
		UpdatedAt:      now,
		Lines: []models.OrderProductLine{{
			ID:                   uuid.New(),
			ProductName:          "Banners",
			Quantity:             3,
			Status:               enums.OrderStatusInProgress,
			EstimatedDeliveryAt:  &deadline,
			EstimatedWorkMinutes: &minutes,
		}},
	}}, now)
	return view
}

func TestLiveRowsServesResidentView(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "dashboard-test"})
	now := time.Now().UTC()
	view := seedView(t, logg, now)

	handler := LiveRows(view)
	req := httptest.NewRequest(http.MethodGet, "/dashboard/rows", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data rowsResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(envelope.Data.Rows))
	}
	if envelope.Data.Rows[0].CommercialName != "banners" {
		t.Fatalf("unexpected row %q", envelope.Data.Rows[0].CommercialName)
	}
}

func TestStreamSendsInitialSnapshot(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "dashboard-test"})
	now := time.Now().UTC()
	view := seedView(t, logg, now)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/dashboard/stream", nil).WithContext(ctx)
	resp := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		Stream(view, logg).ServeHTTP(resp, req)
		close(done)
	}()
	cancel()
	<-done

	if ct := resp.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected event-stream content type, got %q", ct)
	}
	body := resp.Body.String()
	if !strings.HasPrefix(body, "data: ") {
		t.Fatalf("expected an initial snapshot event, got %q", body)
	}
	var snapshot rowsResponse
	line := strings.TrimPrefix(strings.SplitN(body, "\n", 2)[0], "data: ")
	if err := json.Unmarshal([]byte(line), &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snapshot.Rows) != 1 {
		t.Fatalf("expected 1 row in snapshot, got %d", len(snapshot.Rows))
	}
}

func TestStreamPushesOnViewUpdate(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "dashboard-test"})
	now := time.Now().UTC()
	view := seedView(t, logg, now)

	notified := make(chan struct{}, 1)
	unsubscribe := view.Subscribe(func() {
		select {
		case notified <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/stream", nil).WithContext(ctx)
	resp := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		Stream(view, logg).ServeHTTP(resp, req)
		close(done)
	}()

	view.Refresh(now.Add(time.Minute))
	select {
	case <-notified:
	case <-time.After(time.Second):
		t.Fatal("expected the refresh to notify subscribers")
	}

	cancel()
	<-done

	if got := strings.Count(resp.Body.String(), "data: "); got < 1 {
		t.Fatalf("expected at least one snapshot event, got %d", got)
	}
}

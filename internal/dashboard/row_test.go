package dashboard

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Zisou1/2MNumerik-backend/pkg/db/models"
	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
)

func TestProjectOrderCopiesHeaderOntoEveryRow(t *testing.T) {
	notes := "deliver before noon"
	order := models.Order{
		ID:             uuid.New(),
		CommercialName: "Nadia",
		ClientDisplay:  "Atelier Lumen",
		Status:         enums.OrderStatusInProgress,
		Notes:          &notes,
		CreatedAt:      time.Now(),
	}
	for i := 0; i < 3; i++ {
		order.Lines = append(order.Lines, models.OrderProductLine{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductName: "Flyer A5",
			Quantity:    100 + i,
			Status:      enums.OrderStatusWaiting,
		})
	}

	rows := ProjectOrder(order)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows got %d", len(rows))
	}
	for i, row := range rows {
		if row.OrderID != order.ID {
			t.Fatalf("row %d: wrong order id", i)
		}
		if row.LineID != order.Lines[i].ID {
			t.Fatalf("row %d: wrong line id", i)
		}
		if row.CommercialName != "Nadia" || row.ClientDisplay != "Atelier Lumen" {
			t.Fatalf("row %d: header fields not copied", i)
		}
		if row.OrderNotes == nil || *row.OrderNotes != notes {
			t.Fatalf("row %d: order notes not copied", i)
		}
		if row.Quantity != 100+i {
			t.Fatalf("row %d: line fields not copied", i)
		}
	}
}

func TestProjectOrderZeroLines(t *testing.T) {
	rows := ProjectOrder(models.Order{ID: uuid.New()})
	if len(rows) != 0 {
		t.Fatalf("expected no rows got %d", len(rows))
	}
}

func TestProjectRowsBatch(t *testing.T) {
	orders := []models.Order{
		{ID: uuid.New(), Lines: []models.OrderProductLine{{ID: uuid.New()}, {ID: uuid.New()}}},
		{ID: uuid.New()},
		{ID: uuid.New(), Lines: []models.OrderProductLine{{ID: uuid.New()}}},
	}
	rows := ProjectRows(orders)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows got %d", len(rows))
	}
}

package dashboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Zisou1/2MNumerik-backend/api/responses"
	internaldashboard "github.com/Zisou1/2MNumerik-backend/internal/dashboard"
	pkgerrors "github.com/Zisou1/2MNumerik-backend/pkg/errors"
	"github.com/Zisou1/2MNumerik-backend/pkg/logger"
)

// LiveRows serves the worker-resident ranked view. Unlike Rows it performs no
// database read: the view is kept current by the change consumer and the
// re-rank ticker, so the handler only re-ranks against the current clock.
func LiveRows(view *internaldashboard.RankedView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		responses.WriteSuccess(w, rowsResponse{
			Rows:     view.Rows(now),
			RankedAt: view.RankedAt(),
		})
	}
}

// Stream pushes ranked snapshots over server-sent events. The client gets one
// snapshot immediately, then a fresh one after every reconcile or re-rank of
// the view, until it disconnects.
func Stream(view *internaldashboard.RankedView, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "response writer does not support streaming"))
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		// Buffered to one pending signal: consecutive view updates between
		// writes coalesce into a single snapshot.
		updates := make(chan struct{}, 1)
		unsubscribe := view.Subscribe(func() {
			select {
			case updates <- struct{}{}:
			default:
			}
		})
		defer unsubscribe()

		if err := writeSnapshot(w, flusher, view); err != nil {
			logg.Debug(r.Context(), "dashboard stream closed during initial snapshot")
			return
		}

		for {
			select {
			case <-r.Context().Done():
				return
			case <-updates:
				if err := writeSnapshot(w, flusher, view); err != nil {
					logg.Debug(r.Context(), "dashboard stream closed by client")
					return
				}
			}
		}
	}
}

func writeSnapshot(w http.ResponseWriter, flusher http.Flusher, view *internaldashboard.RankedView) error {
	now := time.Now().UTC()
	payload, err := json.Marshal(rowsResponse{
		Rows:     view.Rows(now),
		RankedAt: view.RankedAt(),
	})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-inspector/internal/domain/entity"
	"station-inspector/internal/infrastructure/peer"
	"station-inspector/internal/infrastructure/storage"
)

type fakeStation struct{ status entity.StationStatus }

func (f fakeStation) Status() entity.StationStatus { return f.status }

type fakePeer struct{ stats peer.Stats }

func (f fakePeer) Stats() peer.Stats { return f.stats }

type fakeIntake struct{}

func (fakeIntake) Received() uint64 { return 12 }
func (fakeIntake) Active() int64    { return 1 }

func newTestServer(t *testing.T, status entity.StationStatus, peers ...Peer) *Server {
	t.Helper()

	queue, err := storage.NewSignalQueue(3, storage.PolicyDrop)
	require.NoError(t, err)
	return New("", fakeStation{status: status}, queue, fakeIntake{}, peers...)
}

func get(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Engine().ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthz(t *testing.T) {
	mes := fakePeer{stats: peer.Stats{Name: "mes", Connected: true}}
	down := fakePeer{stats: peer.Stats{Name: "indicator", Connected: false}}
	up := fakePeer{stats: peer.Stats{Name: "indicator", Connected: true}}

	rec, body := get(t, newTestServer(t, entity.StationStatus{}, mes, down), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", body["status"])

	rec, body = get(t, newTestServer(t, entity.StationStatus{}, mes, up), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, map[string]interface{}{"mes": true, "indicator": true}, body["peers"])
}

func TestStatus(t *testing.T) {
	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	status := entity.StationStatus{
		State:     entity.StateIdle,
		Processed: 4,
		Succeeded: 3,
		Exhausted: 1,
		LastOutcome: &entity.CycleOutcome{
			TraceID:    "trace-1",
			Signal:     2,
			Station:    "A2",
			State:      entity.StateSuccess,
			Attempts:   2,
			Result:     &entity.DetectionResult{Payload: "SN-9", Color: entity.ColorBlue},
			StartedAt:  started,
			FinishedAt: started.Add(1500 * time.Millisecond),
		},
	}
	srv := newTestServer(t, status, fakePeer{stats: peer.Stats{Name: "mes", Addr: "10.0.0.5:25000", Connected: true, Sent: 3}})

	rec, body := get(t, srv, "/status")
	require.Equal(t, http.StatusOK, rec.Code)

	station := body["station"].(map[string]interface{})
	assert.Equal(t, "idle", station["state"])
	assert.EqualValues(t, 4, station["processed"])
	assert.NotContains(t, station, "current_signal")

	last := station["last_outcome"].(map[string]interface{})
	assert.Equal(t, "A2", last["station"])
	assert.Equal(t, "SN-9", last["qrcode"])
	assert.Equal(t, "blue", last["color"])
	assert.EqualValues(t, 1500, last["duration_ms"])

	queue := body["queue"].(map[string]interface{})
	assert.EqualValues(t, 3, queue["capacity"])
	assert.Equal(t, "drop", queue["policy"])

	intake := body["intake"].(map[string]interface{})
	assert.EqualValues(t, 12, intake["received"])

	peers := body["peers"].([]interface{})
	require.Len(t, peers, 1)
	assert.Equal(t, "mes", peers[0].(map[string]interface{})["name"])
}

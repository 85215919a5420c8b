package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/lintang-b-s/trafficrouter/pkg"
	"github.com/lintang-b-s/trafficrouter/pkg/costfunction"
	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
	"github.com/lintang-b-s/trafficrouter/pkg/engine/routing"
	"github.com/lintang-b-s/trafficrouter/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/trafficrouter/pkg/http/server"
	"github.com/lintang-b-s/trafficrouter/pkg/http/usecases"
	"github.com/lintang-b-s/trafficrouter/pkg/spatialindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type snapshotHolder struct {
	p atomic.Pointer[da.CostSnapshot]
}

func (h *snapshotHolder) LatestSnapshot() *da.CostSnapshot {
	return h.p.Load()
}

type testAPI struct {
	network   *da.Network
	snapshots *snapshotHolder
	hub       *controllers.Hub
	handler   http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	seg := func(id string, allow string, outgoing []string, shape ...da.Point) *da.Segment {
		lanes := []da.Lane{da.NewLane(id+"_0", 10, 100, da.ParsePermission(allow, ""))}
		s := da.NewSegment(id, id+"_from", id+"_to", 100, 10, lanes, outgoing)
		s.SetShape(shape)
		return s
	}
	n, err := da.NewNetwork([]*da.Segment{
		seg("A", "", []string{"B", "C"}, da.NewPoint(0, 0), da.NewPoint(100, 0)),
		seg("B", "", []string{"D"}, da.NewPoint(100, 0), da.NewPoint(100, 100)),
		seg("C", "", []string{"D"}, da.NewPoint(100, 0), da.NewPoint(200, 0)),
		seg("D", "", nil, da.NewPoint(200, 0), da.NewPoint(300, 0)),
		seg("bus", "bus", nil, da.NewPoint(0, 50), da.NewPoint(100, 50)),
	}, false)
	require.NoError(t, err)

	re := routing.NewRoutingEngine(n, pkg.PASSENGER_CLASS, costfunction.NewTimeCostFunction(0.1), zap.NewNop())
	rt := spatialindex.NewRtree(false)
	rt.Build(n, pkg.PASSENGER_CLASS, zap.NewNop())

	holder := &snapshotHolder{}
	svc, err := usecases.NewRoutingService(zap.NewNop(), re, holder, rt, 16)
	require.NoError(t, err)

	hub := controllers.NewHub(zap.NewNop(), time.Second)
	api := NewAPI(zap.NewNop(), hub)
	return &testAPI{
		network:   n,
		snapshots: holder,
		hub:       hub,
		handler:   api.Handler(http_server.Config{Port: 0, Timeout: time.Second}, svc),
	}
}

func (ta *testAPI) publish(tick int, weights map[string]float64) *da.CostSnapshot {
	w := make([]float64, ta.network.NumberOfSegments())
	tracked := make([]bool, ta.network.NumberOfSegments())
	for id, v := range weights {
		i, _ := ta.network.IndexOf(id)
		w[i] = v
		tracked[i] = true
	}
	s := da.NewCostSnapshot(tick, ta.network, w, tracked)
	ta.snapshots.p.Store(s)
	return s
}

func (ta *testAPI) get(t *testing.T, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	ta.handler.ServeHTTP(rec, req)

	body := map[string]any{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealthz(t *testing.T) {
	ta := newTestAPI(t)
	rec, _ := ta.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ".", rec.Body.String())
}

func TestSnapshotEndpoint(t *testing.T) {
	ta := newTestAPI(t)

	rec, body := ta.get(t, "/api/snapshot")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body, "error")

	ta.publish(20, map[string]float64{"A": 10, "B": 48, "C": 10, "D": 10})
	rec, body = ta.get(t, "/api/snapshot")
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(20), data["tick"])
	assert.Equal(t, map[string]any{"A": 10.0, "B": 48.0, "C": 10.0, "D": 10.0}, data["costs"])
}

func TestComputeRoutes(t *testing.T) {
	ta := newTestAPI(t)
	ta.publish(0, map[string]float64{"A": 10, "B": 48, "C": 10, "D": 10})

	testCases := []struct {
		name         string
		target       string
		wantStatus   int
		wantSegments []any
		wantCost     float64
	}{
		{
			name:         "dijkstra avoids the congested segment",
			target:       "/api/computeRoutes?origin=A&destination=D",
			wantStatus:   http.StatusOK,
			wantSegments: []any{"A", "C", "D"},
			wantCost:     20,
		},
		{
			name:         "bfs ignores costs",
			target:       "/api/computeRoutes?origin=A&destination=D&algorithm=bfs",
			wantStatus:   http.StatusOK,
			wantSegments: []any{"A", "B", "D"},
			wantCost:     2,
		},
		{
			name:       "unknown algorithm",
			target:     "/api/computeRoutes?origin=A&destination=D&algorithm=astar",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing origin",
			target:     "/api/computeRoutes?destination=D",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown segment",
			target:     "/api/computeRoutes?origin=A&destination=nowhere",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "no path",
			target:     "/api/computeRoutes?origin=D&destination=A",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := ta.get(t, tt.target)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				assert.Contains(t, body, "error")
				return
			}
			data := body["data"].(map[string]any)
			assert.Equal(t, tt.wantSegments, data["segments"])
			assert.InDelta(t, tt.wantCost, data["cost"], 1e-9)
			assert.InDelta(t, 300.0, data["distance"], 1e-9)
			assert.Equal(t, float64(0), data["tick"])
		})
	}
}

func TestNearbySegments(t *testing.T) {
	ta := newTestAPI(t)

	rec, body := ta.get(t, "/api/segments/nearby?x=50&y=10&radius=20")
	require.Equal(t, http.StatusOK, rec.Code)
	segments := body["data"].(map[string]any)["segments"].([]any)
	require.Len(t, segments, 1)
	assert.Equal(t, "A", segments[0].(map[string]any)["id"])

	rec, _ = ta.get(t, "/api/segments/nearby?x=50&y=10&radius=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = ta.get(t, "/api/segments/nearby?x=abc&y=10&radius=5")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ta := newTestAPI(t)
	ta.get(t, "/healthz")
	ta.get(t, "/api/snapshot")

	rec, _ := ta.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "trafficrouter_http_requests_total")
}

func TestEnforceJSON(t *testing.T) {
	ta := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/snapshot", strings.NewReader("x=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	ta.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestLimit(t *testing.T) {
	h := Limit(1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}

func TestRealIP(t *testing.T) {
	testCases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "x-real-ip", headers: map[string]string{"X-Real-IP": "10.0.0.1"}, want: "10.0.0.1"},
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": "10.0.0.2, 10.0.0.3"}, want: "10.0.0.2"},
		{name: "garbage", headers: map[string]string{"X-Forwarded-For": "not-an-ip"}, want: "192.0.2.1:1234"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSnapshotWebsocket(t *testing.T) {
	ta := newTestAPI(t)
	srv := httptest.NewServer(ta.handler)
	defer srv.Close()

	conn, _, _, err := ws.Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/snapshots")
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return ta.hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	ta.hub.Broadcast(ta.publish(30, map[string]float64{"A": 12}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	msg, err := wsutil.ReadServerText(conn)
	require.NoError(t, err)

	var body struct {
		Data struct {
			Tick  int                `json:"tick"`
			Costs map[string]float64 `json:"costs"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg, &body))
	assert.Equal(t, 30, body.Data.Tick)
	assert.Equal(t, map[string]float64{"A": 12}, body.Data.Costs)
}

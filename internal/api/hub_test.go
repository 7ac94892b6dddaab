package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestHubBroadcast(t *testing.T) {
	gin.SetMode(gin.TestMode)

	jm := NewJobManager()
	hub := NewHub()
	jm.OnUpdate(hub.Broadcast)

	r := gin.New()
	r.GET("/ws/jobs", func(c *gin.Context) {
		hub.Subscribe(c.Writer, c.Request)
	})

	ts := httptest.NewServer(r)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/jobs"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The dial can return before Subscribe has registered the
	// connection; wait until the hub sees it.
	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.Lock()
		n := len(hub.conns)
		hub.mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	jm.CreateJob("job-1")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var created Job
	if err := conn.ReadJSON(&created); err != nil {
		t.Fatalf("read created snapshot: %v", err)
	}
	if created.ID != "job-1" || created.Status != StatusPending {
		t.Errorf("created snapshot = %+v", created)
	}

	jm.CompleteJob("job-1", "/narration/demo.m4a", 10.5, 100)

	var done Job
	if err := conn.ReadJSON(&done); err != nil {
		t.Fatalf("read completed snapshot: %v", err)
	}
	if done.Status != StatusSuccess || done.DownloadURL != "/narration/demo.m4a" {
		t.Errorf("completed snapshot = %+v", done)
	}
}

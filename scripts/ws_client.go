// Package main runs a demo WebSocket client for the agenda live feed.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

type wsEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	// Sanity check the API is up before dialing
	resp, err := http.Get(base + "/healthz")
	if err != nil {
		log.Fatal(err)
	}
	_ = resp.Body.Close()

	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/agenda/ws"}
	hdr := http.Header{}
	hdr.Set("X-Role", "dispatcher")
	c, _, err := websocket.DefaultDialer.Dial(u.String(), hdr)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var evt wsEvent
			if err := c.ReadJSON(&evt); err != nil {
				log.Printf("read: %v", err)
				return
			}
			log.Printf("WS <- %s: %s", evt.Type, string(evt.Data))
		}
	}()

	// Listen for a couple of snapshot intervals, then exit
	select {
	case <-time.After(35 * time.Second):
	case <-done:
	}
}

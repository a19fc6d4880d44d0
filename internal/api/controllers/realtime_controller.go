package controllers

import (
	"io"

	"github.com/gin-gonic/gin"

	"grocart/pkg/realtime"
)

type RealtimeController struct {
	hub *realtime.Hub
}

func NewRealtimeController(hub *realtime.Hub) *RealtimeController {
	return &RealtimeController{hub: hub}
}

// AdminStream streams hub events to an admin session as server-sent events.
// The subscription ends when the client disconnects.
func (rc *RealtimeController) AdminStream(c *gin.Context) {
	events, cancel := rc.hub.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.SSEvent("realtime:ready", gin.H{"ok": true})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(event.Name, event.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

package api

import (
	"log"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"

	"github.com/scamscan/scamscan/internal/notifier"
)

// WebSocketHandler subscribes a client to one job's progress stream. The
// connection stays registered until the job tears it down or the client
// disconnects; a disconnect does not cancel the running job.
func WebSocketHandler(hub *notifier.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("job_id")

		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			log.Printf("WebSocket accept failed for job %s: %v", jobID, err)
			return
		}
		defer conn.CloseNow()

		hub.Register(jobID, conn)
		defer hub.Unregister(jobID)

		// Hold the connection open; inbound frames are ignored.
		for {
			if _, _, err := conn.Read(c.Request.Context()); err != nil {
				log.Printf("WebSocket closed for job %s: %v", jobID, err)
				return
			}
		}
	}
}

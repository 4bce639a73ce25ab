package routes

import (
	"net/http"
	"strings"

	"go-reliefdesk/chat"
	"go-reliefdesk/handlers"
	"go-reliefdesk/metrics"
	"go-reliefdesk/sms"
	"go-reliefdesk/state"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps are the services the dashboard routes call into.
type Deps struct {
	State   *state.Manager
	Chat    *chat.Session
	Metrics *metrics.Metrics

	// Relay sends for POST /api/sms; Notify sends assignment texts.
	Relay  sms.Sender
	Notify sms.Sender

	ClientURL string
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware(d.ClientURL))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Hello, welcome to the Disaster Relief Dashboard!",
		})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	mountRelay(r, d.Relay, d.Metrics)

	m := d.State
	api := r.Group("/api/relief")
	{
		api.POST("/login", handlers.Login)

		api.GET("/disasters", func(c *gin.Context) { handlers.ListDisasters(c, m) })
		api.POST("/disasters", func(c *gin.Context) { handlers.CreateDisaster(c, m) })
		api.GET("/disasters/active", func(c *gin.Context) { handlers.GetActiveDisaster(c, m) })
		api.GET("/disasters/:id", func(c *gin.Context) { handlers.GetDisaster(c, m) })
		api.PATCH("/disasters/:id", func(c *gin.Context) { handlers.UpdateDisaster(c, m) })
		api.DELETE("/disasters/:id", func(c *gin.Context) { handlers.DeleteDisaster(c, m) })
		api.POST("/disasters/:id/activate", func(c *gin.Context) { handlers.ActivateDisaster(c, m) })
		api.POST("/disasters/:id/select", func(c *gin.Context) { handlers.SelectDisaster(c, m) })

		api.PUT("/disasters/:id/resources", func(c *gin.Context) { handlers.ReplaceDisasterResources(c, m) })
		api.POST("/disasters/:id/resources", func(c *gin.Context) { handlers.AddResource(c, m) })
		api.PATCH("/disasters/:id/resources/:resourceId", func(c *gin.Context) { handlers.SetResourceQuantity(c, m) })
		api.DELETE("/disasters/:id/resources/:resourceId", func(c *gin.Context) { handlers.DeleteResource(c, m) })
		api.POST("/disasters/:id/resources/:resourceId/reduce", func(c *gin.Context) { handlers.ReduceResource(c, m) })

		// legacy global list and label
		api.GET("/resources", func(c *gin.Context) { handlers.GetGlobalResources(c, m) })
		api.PUT("/resources", func(c *gin.Context) { handlers.SetGlobalResources(c, m) })
		api.GET("/selected", func(c *gin.Context) { handlers.GetSelectedDisaster(c, m) })
		api.PUT("/selected", func(c *gin.Context) { handlers.SetSelectedDisaster(c, m) })

		api.GET("/volunteers", func(c *gin.Context) { handlers.ListVolunteers(c, m) })
		api.POST("/volunteers", func(c *gin.Context) { handlers.CreateVolunteer(c, m) })
		api.POST("/volunteers/:id/toggle", func(c *gin.Context) { handlers.ToggleVolunteer(c, m) })
		api.POST("/volunteers/:id/assign", func(c *gin.Context) { handlers.AssignVolunteer(c, m, d.Notify, d.Metrics) })
		api.POST("/volunteers/:id/notify", func(c *gin.Context) { handlers.NotifyVolunteer(c, m) })

		api.GET("/stats", func(c *gin.Context) { handlers.GetStats(c, m) })
		api.GET("/snapshot", func(c *gin.Context) { handlers.GetSnapshot(c, m) })

		api.GET("/chat", func(c *gin.Context) { handlers.GetChat(c, d.Chat) })
		api.POST("/chat", func(c *gin.Context) { handlers.PostChat(c, d.Chat) })
		api.DELETE("/chat", func(c *gin.Context) { handlers.ClearChat(c, d.Chat) })
	}

	return r
}

// SetupRelayRouter serves only the SMS relay, for running it on its own port.
func SetupRelayRouter(sender sms.Sender, m *metrics.Metrics, clientURL string) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware(clientURL))
	mountRelay(r, sender, m)
	return r
}

func mountRelay(r *gin.Engine, sender sms.Sender, m *metrics.Metrics) {
	r.POST("/api/sms", func(c *gin.Context) { handlers.SendSMS(c, sender, m) })
}

func corsMiddleware(clientURL string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}
	clientURL = strings.TrimSpace(clientURL)
	if clientURL == "" || clientURL == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{strings.TrimRight(clientURL, "/")}
	}
	return cors.New(cfg)
}

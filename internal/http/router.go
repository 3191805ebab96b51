package http

import (
	"net/http"

	"eventdesk/internal/auth"
	"eventdesk/internal/config"
	"eventdesk/internal/event"
	"eventdesk/internal/guard"
	"eventdesk/internal/guest"
	"eventdesk/internal/http/handler"
	mw "eventdesk/internal/http/middleware"
	"eventdesk/internal/jobs"
	"eventdesk/internal/menu"
	"eventdesk/internal/messaging"
	"eventdesk/internal/overview"
	"eventdesk/internal/planner"
	"eventdesk/internal/seating"
	"eventdesk/internal/staff"
	"eventdesk/internal/upload"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Deps are built once in main and shared by every request.
type Deps struct {
	Config   config.Config
	DB       *gorm.DB
	Log      zerolog.Logger
	Sessions *auth.SessionJWT
	Gateway  *messaging.Gateway
	Relay    *upload.Relay
	Jobs     *jobs.Repo
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.Logging(d.Log))
	r.Use(mw.Recover)
	r.Use(mw.Metrics)

	if len(d.Config.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(d.Config.CORSAllowedOrigins, d.Config.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	scoped := handler.Scoped{Guard: &guard.Guard{DB: d.DB}}
	requireSession := auth.RequireSession(&auth.Resolver{Verifier: d.Sessions})

	ah := &handler.AuthHandler{
		Scoped:       scoped,
		Planners:     &planner.Service{DB: d.DB},
		Sessions:     d.Sessions,
		CookieSecure: d.Config.CookieSecure,
		SyncSecret:   d.Config.SyncSecret,
	}
	r.Post("/auth/sync", ah.Sync)
	r.Post("/auth/logout", ah.Logout)

	eh := &handler.EventHandler{Scoped: scoped, Svc: &event.Service{DB: d.DB}}
	gh := &handler.GuestHandler{Scoped: scoped, Svc: &guest.Service{DB: d.DB}}
	mh := &handler.MenuHandler{Scoped: scoped, Svc: &menu.Service{DB: d.DB}}
	th := &handler.TableHandler{Scoped: scoped, Svc: &seating.Service{DB: d.DB}}
	uh := &handler.UsherHandler{Scoped: scoped, Svc: &staff.UsherService{DB: d.DB}}
	vh := &handler.VendorHandler{Scoped: scoped, Svc: &staff.VendorService{DB: d.DB}}
	oh := &handler.OverviewHandler{Scoped: scoped, Reporter: &overview.Reporter{DB: d.DB}}
	wh := &handler.WhatsAppHandler{Scoped: scoped, Gateway: d.Gateway, Jobs: d.Jobs}
	up := &handler.UploadHandler{Scoped: scoped, Relay: d.Relay}

	r.Group(func(r chi.Router) {
		r.Use(requireSession)

		r.Get("/me", ah.Me)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", eh.List)
			r.Post("/", eh.Create)

			r.Route("/{eventId}", func(r chi.Router) {
				r.Get("/", eh.Get)
				r.Patch("/", eh.Update)
				r.Delete("/", eh.Delete)

				r.Get("/guests", gh.List)
				r.Post("/guests", gh.Create)
				r.Post("/guests/import", gh.Import)
				r.Patch("/guests/{guestId}", gh.Update)
				r.Delete("/guests/{guestId}", gh.Delete)

				r.Get("/menu", mh.List)
				r.Post("/menu", mh.Create)
				r.Patch("/menu/{itemId}", mh.Update)
				r.Delete("/menu/{itemId}", mh.Delete)

				r.Get("/tables", th.List)
				r.Post("/tables", th.BulkCreate)
				r.Patch("/tables/{tableId}", th.Update)
				r.Delete("/tables/{tableId}", th.Delete)

				r.Get("/ushers", uh.List)
				r.Post("/ushers", uh.Create)
				r.Patch("/ushers/{usherId}", uh.Update)
				r.Delete("/ushers/{usherId}", uh.Delete)

				r.Get("/vendors", vh.List)
				r.Post("/vendors", vh.Create)
				r.Patch("/vendors/{vendorId}", vh.Update)
				r.Delete("/vendors/{vendorId}", vh.Delete)

				r.Post("/whatsapp/invites", wh.BroadcastInvites)
			})
		})

		r.Route("/overview", func(r chi.Router) {
			r.Get("/", oh.Dashboard)
			r.Get("/stats", oh.Stats)
			r.Get("/recent-rsvps", oh.RecentRSVPs)
			r.Get("/upcoming", oh.Upcoming)
		})

		r.Route("/whatsapp", func(r chi.Router) {
			r.Get("/status", wh.Status)
			r.Post("/connect", wh.Connect)
			r.Delete("/connect", wh.Disconnect)
			r.Post("/send", wh.Send)
			r.Get("/jobs/{jobId}", wh.Job)
		})

		r.Post("/upload/invitation-card", up.InvitationCard)
	})

	return r
}

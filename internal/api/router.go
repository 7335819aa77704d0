package api

import (
	"net/http"

	"github.com/dom/emblem-vtt/internal/api/handlers"
	"github.com/dom/emblem-vtt/internal/api/middleware"
	"github.com/dom/emblem-vtt/internal/config"
	"github.com/dom/emblem-vtt/internal/service"
	"github.com/dom/emblem-vtt/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	campaignHandler := handlers.NewCampaignHandler(services.Campaign, services.Audit)
	characterHandler := handlers.NewCharacterHandler(services.Character)
	mapHandler := handlers.NewMapHandler(services.Map)
	tokenHandler := handlers.NewTokenHandler(services.Token)
	rollHandler := handlers.NewRollHandler(services.Roll)
	tileSetHandler := handlers.NewTileSetHandler(services.TileSet)
	catalogHandler := handlers.NewCatalogHandler(services.Catalog)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			// Catalog routes
			r.Route("/catalog", func(r chi.Router) {
				r.Get("/items", catalogHandler.ListItems)
				r.Get("/classes", catalogHandler.ListClasses)
				r.Get("/skills", catalogHandler.ListSkills)
				r.Post("/import", catalogHandler.Import) // Should be admin-only in production
			})

			// Campaign routes
			r.Route("/campaigns", func(r chi.Router) {
				r.Post("/", campaignHandler.Create)
				r.Get("/", campaignHandler.ListMine)
				r.Get("/{campaignId}", campaignHandler.Get)
				r.Get("/{campaignId}/members", campaignHandler.GetMembers)
				r.Put("/{campaignId}/members", campaignHandler.UpsertMember)
				r.Get("/{campaignId}/audit", campaignHandler.ListAudit)

				r.Post("/{campaignId}/characters", characterHandler.Create)
				r.Get("/{campaignId}/characters", characterHandler.ListByCampaign)

				r.Post("/{campaignId}/maps", mapHandler.Create)
				r.Get("/{campaignId}/maps", mapHandler.ListByCampaign)

				r.Post("/{campaignId}/presets", mapHandler.CreatePreset)
				r.Get("/{campaignId}/presets", mapHandler.ListPresets)

				r.Post("/{campaignId}/tilesets", tileSetHandler.Upload)
				r.Get("/{campaignId}/tilesets", tileSetHandler.ListByCampaign)
			})

			// Character routes
			r.Route("/characters/{characterId}", func(r chi.Router) {
				r.Get("/", characterHandler.Get)
				r.Patch("/", characterHandler.Update)
				r.Put("/hp", characterHandler.UpdateHP)
				r.Put("/equipped-weapon", characterHandler.EquipWeapon)
				r.Post("/items", characterHandler.AddItem)
				r.Put("/items/reorder", characterHandler.ReorderItems)
				r.Patch("/items/{rowId}", characterHandler.UpdateItem)
				r.Delete("/items/{rowId}", characterHandler.RemoveItem)
			})

			// Map routes
			r.Route("/maps/{mapId}", func(r chi.Router) {
				r.Get("/", mapHandler.Get)
				r.Patch("/", mapHandler.Update)
				r.Delete("/", mapHandler.Delete)
				r.Post("/tokens", tokenHandler.Create)
				r.Get("/tokens", tokenHandler.ListByMap)
				r.Post("/rolls", rollHandler.Create)
				r.Get("/rolls", rollHandler.ListByMap)
			})

			// Token routes
			r.Route("/tokens/{tokenId}", func(r chi.Router) {
				r.Patch("/", tokenHandler.Update)
				r.Put("/position", tokenHandler.Move)
				r.Delete("/", tokenHandler.Delete)
			})

			// Preset routes
			r.Patch("/presets/{presetId}", mapHandler.UpdatePreset)

			// Tileset routes
			r.Get("/tilesets/{tileSetId}", tileSetHandler.Get)
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}

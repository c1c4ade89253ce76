package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/qr", qrHandler)
		api.POST("/mana/parse", manaParse)

		api.GET("/sets", h.sets)
		api.GET("/sets/:id/cards", h.setCards)
		api.POST("/sets/:id/filter", h.filterHandler)
		api.GET("/sets/:id/numbers", h.numbers)
		api.GET("/sets/:id/export.zip", h.exportZip)
		api.GET("/sets/:id/export.json", h.exportJSON)
		api.GET("/sets/:id/checklist.txt", h.checklist)
		api.GET("/sets/:id/proof.png", h.proof)

		api.GET("/cards/:id", h.card)
		api.GET("/cards/:id/scene", h.scene)
		api.GET("/cards/:id/preview.png", h.previewPNG)
		api.GET("/cards/:id/preview.svg", h.previewSVG)
		api.GET("/cards/:id/export.png", h.exportPNG)
	}
}

package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/CSES-Open-Source/LowPriceCenter-sub000/services"
)

type WSController struct {
	ws *services.WSService
}

func NewWSController(ws *services.WSService) *WSController {
	return &WSController{ws: ws}
}

func (w *WSController) Handle(ctx *gin.Context) {
	w.ws.HandleWebSocket(ctx)
}

package main

import (
	"net/http"
	"stays/src/db"
	"stays/src/types"
	"stays/src/utils"

	"github.com/gin-gonic/gin"
)

func availabilityHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/availability", func(ctx *gin.Context) {
			var query types.AvailabilityQueryParams
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			check, err := utils.IsAvailable(db, query.ListingID, query.StartDate, query.EndDate, nil)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": check})
		})
	return g
}

package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"stays/src/lib"
	"stays/src/types"
	"stays/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// intentStatusCode maps the subsystem's typed outcomes onto HTTP statuses.
func intentStatusCode(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, types.ErrInvalidState),
		errors.Is(err, types.ErrExpired),
		errors.Is(err, types.ErrListingUnavailable):
		return http.StatusConflict
	case errors.Is(err, types.ErrAmountMismatch):
		return http.StatusBadRequest
	}
	return http.StatusBadRequest
}

func intentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/intents", func(ctx *gin.Context) {
			var body types.CreateIntentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			customerId := ctx.GetUint("id")
			intent, err := utils.CreateIntent(customerId, &body)
			if err != nil {
				var conflict *types.ConflictError
				if errors.As(err, &conflict) {
					ctx.JSON(http.StatusConflict, gin.H{
						"error":               conflict.Error(),
						"reason":              conflict.Reason,
						"retry_after_seconds": conflict.RetryAfterSeconds,
					})
					return
				}
				log.Printf("Error creating intent: %s\n", err.Error())
				ctx.JSON(intentStatusCode(err), gin.H{"error": err.Error()})
				return
			}
			resp := gin.H{
				"intent_id":   intent.ID,
				"order_token": intent.OrderToken,
				"expires_at":  intent.ExpiresAt,
				"status":      intent.Status,
			}
			if intent.PaymentMethod == types.PAYMENT_GATEWAY {
				desc := fmt.Sprintf("Listing %d, %s to %s", intent.ListingID, intent.StartDate, intent.EndDate)
				url, err := lib.CreateIntentCheckout(intent.OrderToken, desc, intent.ExpectedCharge(), intent.Currency)
				if err != nil {
					// The lock is held either way; the client may retry payment
					// from the intent page.
					log.Printf("Error creating checkout for intent %s: %s\n", intent.ID.String(), err.Error())
				} else {
					resp["redirect_url"] = url
				}
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": resp})
		}).
		GET("/intents/:id", func(ctx *gin.Context) {
			var params types.IntentURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id, _ := uuid.Parse(params.ID)
			intent, err := utils.GetIntent(id)
			if err != nil {
				ctx.JSON(intentStatusCode(err), gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			if intent.CustomerID != userId && intent.HostID != userId {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": intent})
		}).
		PUT("/intents/:id/cancel", func(ctx *gin.Context) {
			var params types.IntentURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.CancelIntentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id, _ := uuid.Parse(params.ID)
			userId := ctx.GetUint("id")
			intent, err := utils.CancelIntent(id, userId, body.Reason)
			if err != nil {
				log.Printf("Error cancelling intent %s: %s\n", params.ID, err.Error())
				ctx.JSON(intentStatusCode(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": intent})
		}).
		PUT("/intents/:id/extend", func(ctx *gin.Context) {
			var params types.IntentURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.ExtendLockRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id, _ := uuid.Parse(params.ID)
			userId := ctx.GetUint("id")
			intent, err := utils.ExtendLock(id, userId, body.AdditionalMinutes)
			if err != nil {
				log.Printf("Error extending intent %s: %s\n", params.ID, err.Error())
				ctx.JSON(intentStatusCode(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": intent})
		}).
		PUT("/intents/:id/confirm", func(ctx *gin.Context) {
			var params types.IntentURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.ConfirmIntentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id, _ := uuid.Parse(params.ID)
			booking, err := utils.ConfirmIntent(id, body.TransactionID, body.Amount)
			if err != nil {
				log.Printf("Error confirming intent %s: %s\n", params.ID, err.Error())
				ctx.JSON(intentStatusCode(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		POST("/intents/release-expired", func(ctx *gin.Context) {
			count, err := utils.ReapExpired()
			if err != nil {
				log.Printf("Error releasing expired intents: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"released_count": count})
		})
	return g
}

package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"stays/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// stripeWebhookRoute is the asynchronous half of the payment flow: the
// gateway calls back here after the customer leaves for the hosted checkout.
// Callbacks carry only the order token, never the internal intent id.
func stripeWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		switch event.Type {
		case "checkout.session.completed":
			var cs stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				break
			}
			orderToken := cs.Metadata["orderToken"]
			if orderToken == "" {
				log.Printf("[%s] No orderToken in metadata. Skipping\n", cs.ID)
				break
			}
			transactionId := cs.ID
			if cs.PaymentIntent != nil {
				transactionId = cs.PaymentIntent.ID
			}
			amount := float64(cs.AmountTotal) / 100
			go func() {
				intent, err := utils.FindIntentByOrderToken(orderToken)
				if err != nil {
					log.Printf("No intent for order token [%s]: %s\n", orderToken, err.Error())
					return
				}
				booking, err := utils.ConfirmIntent(intent.ID, transactionId, amount)
				if err != nil {
					log.Printf("Error confirming intent %s from webhook: %s\n", intent.ID.String(), err.Error())
					return
				}
				log.Printf("Intent %s confirmed, Booking [%d] created\n", intent.ID.String(), booking.ID)
			}()
		case "payment_intent.payment_failed":
			var pi stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
				log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
				break
			}
			orderToken := pi.Metadata["orderToken"]
			if orderToken == "" {
				log.Printf("[%s] No orderToken in metadata. Skipping\n", pi.ID)
				break
			}
			reason := "payment failed at the gateway"
			if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
				reason = pi.LastPaymentError.Msg
			}
			go func() {
				intent, err := utils.FindIntentByOrderToken(orderToken)
				if err != nil {
					log.Printf("No intent for order token [%s]: %s\n", orderToken, err.Error())
					return
				}
				if err := utils.FailIntent(intent.ID, reason); err != nil {
					log.Printf("Error failing intent %s: %s\n", intent.ID.String(), err.Error())
				}
			}()
		}
		ctx.Status(http.StatusNoContent)
	})
	return apiv1
}

package dashboard

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rajanjha2004/HotelData/internal/ingredients"
	"github.com/rajanjha2004/HotelData/internal/models"
	"github.com/rajanjha2004/HotelData/internal/notify"
)

// Alert types
const (
	AlertPeak      = "peak"
	AlertInventory = "inventory"
	AlertStaffing  = "staffing"
)

var alertTypes = []string{AlertPeak, AlertInventory, AlertStaffing}

// AlertRequest selects which alerts to send. No types means all of them.
// With DryRun the messages are only formatted.
type AlertRequest struct {
	Types     []string `json:"types"`
	Threshold *float64 `json:"threshold"`
	DryRun    bool     `json:"dry_run"`
}

// Alert is one formatted message
type Alert struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Sent bool   `json:"sent"`
}

// handleAlerts formats alerts from the session's forecast and sends them to Slack.
// Query parameters select the forecast the same way as the tab endpoints.
func (s *Server) handleAlerts(c *gin.Context) {
	var req AlertRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: models.KindConfig})
			return
		}
	}
	types := req.Types
	if len(types) == 0 {
		types = alertTypes
	}
	threshold := s.cfg.Notify.Threshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	view, ok := s.forecastFor(c)
	if !ok {
		return
	}

	alerts := make([]Alert, 0, len(types))
	for _, t := range types {
		var text string
		switch t {
		case AlertPeak:
			text = notify.PeakAlert(view.result, threshold, s.cfg.Notify.PeakCount)
		case AlertInventory:
			usage := ingredients.Predict(view.rows, view.result, view.sess.Recipes)
			text = notify.InventoryAlert(ingredients.Totals(usage), notify.DefaultIngredientCount)
		case AlertStaffing:
			report, err := s.pipeline.Staffing(view.result, view.params)
			if err != nil {
				respondError(c, err)
				return
			}
			text = notify.StaffingAlert(report.Schedule, view.result.Granularity, notify.DefaultStaffingShifts)
		default:
			respondError(c, &models.ConfigError{Field: "types", Reason: fmt.Sprintf("unknown alert type %q", t)})
			return
		}
		alerts = append(alerts, Alert{Type: t, Text: text})
	}

	if !req.DryRun {
		if s.sender == nil {
			respondError(c, &models.ConfigError{Field: "notify.slack", Reason: notify.ErrNotConfigured.Error()})
			return
		}
		for i := range alerts {
			if err := s.sender.Send(c.Request.Context(), alerts[i].Text); err != nil {
				log.Printf("Failed to send %s alert: %v", alerts[i].Type, err)
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "kind": models.KindInternal, "alerts": alerts})
				return
			}
			alerts[i].Sent = true
		}
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

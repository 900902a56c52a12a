package outings

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"mingle/planner"
	"mingle/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// GET /api/outings/:id/plans/:index/pdf — printable itinerary.
func ExportPlanPDF(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	outingID := ps.ByName("id")
	planIdx, err := strconv.Atoi(ps.ByName("index"))
	if err != nil || planIdx < 0 {
		http.Error(w, "Invalid plan index", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	outing, ok := isMember(ctx, outingID, userID)
	if !ok {
		http.Error(w, "Not a member of this outing", http.StatusForbidden)
		return
	}

	raw, err := fetchRawPlans(ctx, outingID)
	if err != nil {
		http.Error(w, "No plans available for this outing", http.StatusNotFound)
		return
	}
	payload := planner.NormalizeJSON(raw)
	if planIdx >= len(payload.Plans) {
		http.Error(w, "Plan index out of range", http.StatusNotFound)
		return
	}
	plan := payload.Plans[planIdx]

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, plan.Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	header := fmt.Sprintf("Outing: %s", outing.Name)
	if payload.City != "" {
		header += fmt.Sprintf("  |  City: %s", payload.City)
	}
	if plan.TotalBudgetEstimate != "" {
		header += fmt.Sprintf("  |  Budget: %s", plan.TotalBudgetEstimate)
	}
	pdf.CellFormat(0, 8, header, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if plan.Overview != "" {
		pdf.SetFont("Arial", "I", 11)
		pdf.MultiCell(0, 6, plan.Overview, "", "L", false)
		pdf.Ln(2)
	}

	for _, day := range plan.Itinerary {
		pdf.SetFont("Arial", "B", 13)
		title := day.Date
		if title == "" {
			title = "Day"
		}
		pdf.CellFormat(0, 9, title, "B", 1, "L", false, 0, "")
		pdf.Ln(1)

		for _, stop := range day.Timeline {
			pdf.SetFont("Arial", "B", 11)
			line := stop.Name
			if stop.Time != "" {
				line = stop.Time + "  " + line
			}
			if stop.PriceRange != nil {
				line += "  (" + *stop.PriceRange + ")"
			}
			pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")

			pdf.SetFont("Arial", "", 10)
			if stop.Address != "" {
				pdf.CellFormat(0, 5, stop.Address, "", 1, "L", false, 0, "")
			}
			if stop.Description != "" {
				pdf.MultiCell(0, 5, stop.Description, "", "L", false)
			}
			pdf.Ln(1)
		}
		pdf.Ln(2)
	}

	if plan.Tips != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(0, 5, "Tips: "+plan.Tips, "T", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate itinerary PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=itinerary-"+outingID+".pdf")
	w.Write(buf.Bytes())
}

// GET /api/outings/:id/invite/qr — PNG QR code of the invite link.
func InviteQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	outing, ok := isMember(ctx, ps.ByName("id"), userID)
	if !ok {
		http.Error(w, "Not a member of this outing", http.StatusForbidden)
		return
	}

	base := os.Getenv("APP_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	inviteURL := fmt.Sprintf("%s/join?code=%s", base, outing.InviteCode)

	png, err := qrcode.Encode(inviteURL, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

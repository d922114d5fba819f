package export

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"strings"

	"oneclick/middleware"
	"oneclick/models"
	"oneclick/plan"
	"oneclick/session"
	"oneclick/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

type Handler struct {
	engine   *plan.Engine
	sessions plan.SessionCache
}

func NewHandler(engine *plan.Engine, sessions plan.SessionCache) *Handler {
	return &Handler{engine: engine, sessions: sessions}
}

func (h *Handler) currentPlan(r *http.Request) *models.PlanRecord {
	sid := session.ID(r)
	userID := middleware.RequestingUserID(r)
	draft, _ := h.sessions.Get(r.Context(), sid)
	res := h.engine.Fetch(r.Context(), draft, userID)
	return res.Plan
}

// PDF renders the active itinerary as a printable document.
// GET /api/plan/export/pdf
func (h *Handler) PDF(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	record := h.currentPlan(r)
	if record == nil || record.Destination == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "No active travel plan")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, fmt.Sprintf("Trip to %s", record.Destination))
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 12)
	if record.Country != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Country: %s", record.Country))
		pdf.Ln(8)
	}
	if record.StartDate != "" || record.EndDate != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Dates: %s to %s", record.StartDate, record.EndDate))
		pdf.Ln(8)
	}
	if len(record.Cities) > 0 {
		names := make([]string, 0, len(record.Cities))
		for _, city := range record.Cities {
			if city.Days > 0 {
				names = append(names, fmt.Sprintf("%s (%d days)", city.Name, city.Days))
			} else {
				names = append(names, city.Name)
			}
		}
		pdf.Cell(0, 8, "Cities: "+strings.Join(names, ", "))
		pdf.Ln(8)
	}
	pdf.Ln(4)

	writeSection(pdf, "Attractions", record.Attractions, func(item models.PlanItem) string {
		line := item.Name
		if item.Address != "" {
			line += " - " + item.Address
		}
		return line
	})
	writeSection(pdf, "Restaurants", record.Restaurants, func(item models.PlanItem) string {
		line := item.Name
		if item.Address != "" {
			line += " - " + item.Address
		}
		return line
	})
	writeSection(pdf, "Hotels", record.Hotels, func(item models.PlanItem) string {
		line := item.Name
		if item.Notes != "" {
			line += " - " + item.Notes
		}
		return line
	})
	writeSection(pdf, "Flights", record.Flights, func(item models.PlanItem) string {
		line := item.Name
		if item.DepartureAirport != "" && item.ArrivalAirport != "" {
			line += fmt.Sprintf(" (%s to %s)", item.DepartureAirport, item.ArrivalAirport)
		}
		if item.DepartureTime != "" {
			line += " departing " + item.DepartureTime
		}
		return line
	})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=itinerary-"+safeFilename(record.Destination)+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func writeSection(pdf *gofpdf.Fpdf, title string, items []models.PlanItem, line func(models.PlanItem) string) {
	if len(items) == 0 {
		return
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, title)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	for _, item := range items {
		pdf.Cell(0, 7, "- "+line(item))
		pdf.Ln(7)
	}
	pdf.Ln(3)
}

func safeFilename(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "plan"
	}
	return b.String()
}

// ShareQR returns a QR code PNG pointing at the shared itinerary view.
// GET /api/plan/share/qr
func (h *Handler) ShareQR(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	record := h.currentPlan(r)
	if record == nil || record.Destination == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "No active travel plan")
		return
	}
	if record.ItineraryID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Plan must be saved before sharing")
		return
	}

	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + os.Getenv("PORT")
	}
	shareURL := strings.TrimSuffix(baseURL, "/") + "/itinerary/" + record.ItineraryID

	png, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

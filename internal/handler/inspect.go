package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ticketing/internal/catalog"
	"ticketing/internal/domain"
	"ticketing/internal/ocr"
	"ticketing/internal/service"
)

// TicketParser is the OCR collaborator contract the inspect endpoint needs.
type TicketParser interface {
	ParseTicketImage(ctx context.Context, filename string, file io.Reader) (*ocr.ParsedTicket, error)
}

// InspectHandler handles ticket-image inspection requests from ticket
// checkers in the field.
type InspectHandler struct {
	parser     TicketParser
	inspection *service.InspectionService
}

// NewInspectHandler creates a new InspectHandler.
func NewInspectHandler(parser TicketParser, inspection *service.InspectionService) *InspectHandler {
	return &InspectHandler{
		parser:     parser,
		inspection: inspection,
	}
}

// ProximityResponse is the advisory geofence result.
type ProximityResponse struct {
	Status          string  `json:"status"`
	DistanceMeters  float64 `json:"distance_meters"`
	ThresholdMeters float64 `json:"threshold_meters"`
}

// AssessmentResponse is the validity judgment for the uploaded ticket.
type AssessmentResponse struct {
	Assessed  bool               `json:"assessed"`
	Expired   bool               `json:"expired"`
	ExpiresAt string             `json:"expires_at,omitempty"`
	Proximity *ProximityResponse `json:"proximity,omitempty"`
}

// InspectResponse pairs the parsed ticket fields with the assessment.
type InspectResponse struct {
	Ticket     *ocr.ParsedTicket  `json:"ticket"`
	Assessment AssessmentResponse `json:"assessment"`
}

// Inspect handles POST /v1/tickets/inspect. The image goes to the OCR
// collaborator; the parsed fields are judged for expiry and, when the
// checker's position was included, for proximity to the declared route.
// Both judgments are advisory and never block issuing a challan.
func (h *InspectHandler) Inspect(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not read file"})
		return
	}
	defer file.Close()

	parsed, err := h.parser.ParseTicketImage(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}

	// A missing or unparsable checker position degrades to no proximity
	// judgment; it must never produce a false "too far".
	var position *catalog.Coordinate
	latStr, lngStr := c.PostForm("lat"), c.PostForm("lng")
	if latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr == nil && lngErr == nil {
			position = &catalog.Coordinate{Lat: lat, Lng: lng}
		}
	}

	assessment := h.inspection.Assess(service.InspectionInput{
		FromStation: parsed.FromStation,
		ToStation:   parsed.ToStation,
		Validity:    parsed.Validity,
		IssuedAt:    parsed.IssuedAt,
	}, position, time.Now())

	respondJSON(c, http.StatusOK, InspectResponse{
		Ticket:     parsed,
		Assessment: toAssessmentResponse(assessment),
	})
}

func toAssessmentResponse(a domain.ValidityAssessment) AssessmentResponse {
	out := AssessmentResponse{
		Assessed: a.Expiry.Assessed,
		Expired:  a.Expiry.Expired,
	}
	if a.Expiry.Assessed {
		out.ExpiresAt = a.Expiry.ExpiresAt.Format(time.RFC3339)
	}
	if a.Proximity != nil {
		out.Proximity = &ProximityResponse{
			Status:          string(a.Proximity.Status),
			DistanceMeters:  a.Proximity.DistanceMeters,
			ThresholdMeters: a.Proximity.ThresholdMeters,
		}
	}
	return out
}

package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"ticketing/internal/model"
	"ticketing/internal/service"
)

// EventHandler handles event endpoints.
type EventHandler struct {
	eventService service.EventService
	images       *ImageStore
}

// NewEventHandler creates a new event handler. images may be nil, in which
// case uploaded files are ignored.
func NewEventHandler(eventService service.EventService, images *ImageStore) *EventHandler {
	return &EventHandler{eventService: eventService, images: images}
}

// EventRequest represents the JSON body of an event create or update.
type EventRequest struct {
	Name        *string          `json:"name"`
	Date        *string          `json:"date"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Location    *string          `json:"location"`
	Image       *string          `json:"image"`
	Tags        *string          `json:"tags"`
	Price       *decimal.Decimal `json:"price" swaggertype:"string"`
	Capacity    *int             `json:"capacity"`
}

// EventResponse wraps an event with an acknowledgement.
type EventResponse struct {
	Message string       `json:"message"`
	Event   *model.Event `json:"event"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func (r EventRequest) toInput() (service.EventInput, error) {
	input := service.EventInput{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Location:    r.Location,
		Image:       r.Image,
		Tags:        r.Tags,
		Price:       r.Price,
		Capacity:    r.Capacity,
	}
	if r.Date != nil {
		d, err := parseDate(*r.Date)
		if err != nil {
			return input, invalidRequest("invalid date")
		}
		input.Date = &d
	}
	return input, nil
}

// readEventInput accepts either a JSON body or a multipart form with an
// optional image file.
func (h *EventHandler) readEventInput(c echo.Context) (service.EventInput, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		var req EventRequest
		if err := c.Bind(&req); err != nil {
			return service.EventInput{}, invalidRequest("invalid request body")
		}
		return req.toInput()
	}

	form, err := c.MultipartForm()
	if err != nil {
		return service.EventInput{}, invalidRequest("invalid multipart form")
	}
	field := func(name string) *string {
		if v, ok := form.Value[name]; ok && len(v) > 0 {
			return &v[0]
		}
		return nil
	}

	req := EventRequest{
		Name:        field("name"),
		Date:        field("date"),
		Description: field("description"),
		Category:    field("category"),
		Location:    field("location"),
		Tags:        field("tags"),
	}
	if v := field("price"); v != nil && *v != "" {
		price, err := decimal.NewFromString(*v)
		if err != nil {
			return service.EventInput{}, invalidRequest("invalid price")
		}
		req.Price = &price
	}
	if v := field("capacity"); v != nil && *v != "" {
		capacity, err := strconv.Atoi(*v)
		if err != nil {
			return service.EventInput{}, invalidRequest("invalid capacity")
		}
		req.Capacity = &capacity
	}
	if files := form.File["image"]; len(files) > 0 && h.images != nil {
		path, err := h.images.Save(files[0])
		if err != nil {
			return service.EventInput{}, invalidRequest(err.Error())
		}
		req.Image = &path
	}
	return req.toInput()
}

// CreateEvent godoc
// @Summary Create an event
// @Tags events
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body EventRequest true "Event data"
// @Success 201 {object} EventResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /events [post]
func (h *EventHandler) CreateEvent(c echo.Context) error {
	agentID, _, err := caller(c)
	if err != nil {
		return err
	}
	input, err := h.readEventInput(c)
	if err != nil {
		return err
	}

	event, err := h.eventService.CreateEvent(c.Request().Context(), agentID, input)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusCreated, EventResponse{Message: "Event created", Event: event})
}

// UpdateEvent godoc
// @Summary Update an event owned by the caller
// @Tags events
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body EventRequest true "Event fields"
// @Success 200 {object} EventResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [put]
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	actorID, _, err := caller(c)
	if err != nil {
		return err
	}
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	input, err := h.readEventInput(c)
	if err != nil {
		return err
	}

	event, err := h.eventService.UpdateEvent(c.Request().Context(), actorID, eventID, input)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, EventResponse{Message: "Event updated", Event: event})
}

// DeleteEvent godoc
// @Summary Deactivate an event owned by the caller
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	actorID, _, err := caller(c)
	if err != nil {
		return err
	}
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.eventService.DeleteEvent(c.Request().Context(), actorID, eventID); err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Event deleted (soft)"})
}

// GetEvent godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} model.Event
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c echo.Context) error {
	eventID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	event, err := h.eventService.GetEvent(c.Request().Context(), eventID)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, event)
}

// ListEvents godoc
// @Summary List active events
// @Tags events
// @Produce json
// @Param category query string false "Exact category"
// @Param search query string false "Substring of name or description"
// @Param location query string false "Substring of location"
// @Param fromDate query string false "Earliest date"
// @Param toDate query string false "Latest date"
// @Success 200 {array} model.Event
// @Failure 400 {object} errors.ErrorResponse
// @Router /events [get]
func (h *EventHandler) ListEvents(c echo.Context) error {
	filter := model.EventFilter{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Location: c.QueryParam("location"),
	}
	if v := c.QueryParam("fromDate"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return invalidRequest("invalid fromDate")
		}
		filter.FromDate = &d
	}
	if v := c.QueryParam("toDate"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return invalidRequest("invalid toDate")
		}
		filter.ToDate = &d
	}

	events, err := h.eventService.ListEvents(c.Request().Context(), filter)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, events)
}

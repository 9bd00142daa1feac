package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yanqian/weather-explorer/internal/domain/viewstate"
	"github.com/yanqian/weather-explorer/internal/domain/weather"
	apperrors "github.com/yanqian/weather-explorer/pkg/errors"
)

// CookieConfig names the session cookie and its lifetime.
type CookieConfig struct {
	Name string
	TTL  time.Duration
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	weatherSvc weather.Service
	viewSvc    viewstate.Service
	cookie     CookieConfig
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(weatherSvc weather.Service, viewSvc viewstate.Service, cookie CookieConfig, logger *slog.Logger) *Handler {
	if cookie.Name == "" {
		cookie.Name = "wx_session"
	}
	return &Handler{
		weatherSvc: weatherSvc,
		viewSvc:    viewSvc,
		cookie:     cookie,
		logger:     logger.With("component", "http.handler"),
	}
}

type weatherParams struct {
	Endpoint string `form:"endpoint" json:"endpoint"`
	City     string `form:"q" json:"city"`
	Days     int    `form:"days" json:"days"`
	Date     string `form:"dt" json:"dt"`
}

func (p weatherParams) query() (weather.Query, error) {
	endpoint := weather.EndpointCurrent
	if p.Endpoint != "" {
		parsed, err := weather.ParseEndpoint(p.Endpoint)
		if err != nil {
			return weather.Query{}, err
		}
		endpoint = parsed
	}
	return weather.Query{Endpoint: endpoint, City: p.City, Days: p.Days, Date: p.Date}, nil
}

// consoleForm carries the console form fields; the city input is named "city".
type consoleForm struct {
	Endpoint string `form:"endpoint"`
	City     string `form:"city"`
	Days     int    `form:"days"`
	Date     string `form:"dt"`
}

// Endpoints lists the selectable endpoints.
func (h *Handler) Endpoints(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"endpoints": h.weatherSvc.Endpoints()})
}

// Weather performs a single stateless lookup.
func (h *Handler) Weather(c *gin.Context) {
	var params weatherParams
	if err := c.ShouldBindQuery(&params); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	q, err := params.query()
	if err != nil {
		h.abortWithAppError(c, err)
		return
	}
	view, err := h.weatherSvc.Lookup(c.Request.Context(), q)
	if err != nil {
		h.abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Trending lists the most looked up cities.
func (h *Handler) Trending(c *gin.Context) {
	items, err := h.weatherSvc.Trending(c.Request.Context())
	if err != nil {
		h.abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cities": items})
}

// RecentLookups lists the newest successful lookups.
func (h *Handler) RecentLookups(c *gin.Context) {
	items, err := h.weatherSvc.Recent(c.Request.Context())
	if err != nil {
		h.abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lookups": items})
}

// Session returns the view state of the caller's session.
func (h *Handler) Session(c *gin.Context) {
	state, err := h.viewSvc.Current(c.Request.Context(), h.sessionID(c))
	if err != nil {
		h.abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SubmitSession runs a lookup through the session state machine.
func (h *Handler) SubmitSession(c *gin.Context) {
	var params weatherParams
	if err := c.ShouldBindJSON(&params); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	q, err := params.query()
	if err != nil {
		h.abortWithAppError(c, err)
		return
	}
	state, err := h.viewSvc.Submit(c.Request.Context(), h.sessionID(c), q)
	if err != nil {
		h.abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// ResetSession moves the caller's session back to idle.
func (h *Handler) ResetSession(c *gin.Context) {
	if err := h.viewSvc.Reset(c.Request.Context(), h.sessionID(c)); err != nil {
		h.abortWithAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Console renders the lookup form and the result panel.
func (h *Handler) Console(c *gin.Context) {
	state, err := h.viewSvc.Current(c.Request.Context(), h.sessionID(c))
	if err != nil {
		h.logger.Warn("console state unavailable", "error", err)
		state = viewstate.Failed(weather.KindTransport, apperrors.MessageOf(err))
	}
	selected := weather.EndpointCurrent
	if endpoint, err := weather.ParseEndpoint(c.Query("endpoint")); err == nil {
		selected = endpoint
	} else if view, ok := state.View(); ok {
		selected = view.Endpoint
	}
	c.HTML(http.StatusOK, "console.html", present(state, h.weatherSvc.Endpoints(), selected))
}

// ConsoleSubmit handles the console form post and redirects back to the panel.
func (h *Handler) ConsoleSubmit(c *gin.Context) {
	var form consoleForm
	if err := c.ShouldBind(&form); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	params := weatherParams{Endpoint: form.Endpoint, City: form.City, Days: form.Days, Date: form.Date}
	target := "/"
	q, err := params.query()
	if err == nil {
		target = "/?endpoint=" + string(q.Endpoint)
		_, err = h.viewSvc.Submit(c.Request.Context(), h.sessionID(c), q)
	}
	if err != nil && !apperrors.IsCode(err, viewstate.CodeInFlight) {
		h.abortWithAppError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, target)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// sessionID reads the session cookie, issuing a new one when absent.
func (h *Handler) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(h.cookie.Name); err == nil {
		if _, parseErr := uuid.Parse(id); parseErr == nil {
			return id
		}
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, id, int(h.cookie.TTL/time.Second), "/", "", false, true)
	return id
}

func (h *Handler) abortWithAppError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)
	if code == "" {
		code = "internal_error"
	}
	abortWithError(c, NewHTTPError(statusForCode(code), code, errMessage(err), err))
}

func statusForCode(code string) int {
	switch code {
	case weather.CodeValidation, "invalid_input":
		return http.StatusBadRequest
	case weather.CodeAPI:
		return http.StatusUnprocessableEntity
	case weather.CodeEmptyResult:
		return http.StatusNotFound
	case weather.CodeTransport:
		return http.StatusBadGateway
	case viewstate.CodeInFlight:
		return http.StatusConflict
	case "store_error":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg := apperrors.MessageOf(err); msg != "" {
		return msg
	}
	return err.Error()
}

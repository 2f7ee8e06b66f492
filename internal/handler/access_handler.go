package handler

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/policy"
	"github.com/noah-isme/edusphere-api/internal/service"
	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
	"github.com/noah-isme/edusphere-api/pkg/response"
)

// NavigationEntry is one route with the caller's decision for it.
type NavigationEntry struct {
	Route    models.Route `json:"route"`
	Public   bool         `json:"public"`
	Decision string       `json:"decision"`
}

// AccessCheck is the answer to a single route or action query.
type AccessCheck struct {
	Route    models.Route  `json:"route,omitempty"`
	Action   models.Action `json:"action,omitempty"`
	Decision string        `json:"decision"`
	Allowed  bool          `json:"allowed"`
}

// AccessHandler lets clients ask the policy what the current principal may do.
type AccessHandler struct {
	access *service.Access
}

// NewAccessHandler constructs AccessHandler.
func NewAccessHandler(access *service.Access) *AccessHandler {
	return &AccessHandler{access: access}
}

// Navigation godoc
// @Summary Routes and decisions for the current principal
// @Tags Access
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /access/navigation [get]
func (h *AccessHandler) Navigation(c *gin.Context) {
	e := h.access.Evaluator()
	p := principal(c)
	routes := policy.Routes()
	sort.Slice(routes, func(i, j int) bool { return routes[i] < routes[j] })

	entries := make([]NavigationEntry, 0, len(routes))
	for _, route := range routes {
		entries = append(entries, NavigationEntry{
			Route:    route,
			Public:   e.IsPublic(route),
			Decision: e.AuthorizeRoute(p, route).String(),
		})
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Check godoc
// @Summary Evaluate one route or action for the current principal
// @Tags Access
// @Produce json
// @Param route query string false "Route name"
// @Param action query string false "Action name"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /access/check [get]
func (h *AccessHandler) Check(c *gin.Context) {
	e := h.access.Evaluator()
	p := principal(c)
	route, action := models.Route(c.Query("route")), models.Action(c.Query("action"))

	var result AccessCheck
	switch {
	case route != "" && action == "":
		d := e.AuthorizeRoute(p, route)
		result = AccessCheck{Route: route, Decision: d.String(), Allowed: d.Allowed()}
	case action != "" && route == "":
		d := e.AuthorizeAction(p, action)
		result = AccessCheck{Action: action, Decision: d.String(), Allowed: d.Allowed()}
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "exactly one of route or action is required"))
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

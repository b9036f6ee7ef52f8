package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/application/service"
	"github.com/garyjia/payroll-console/internal/application/workflow"
	"github.com/garyjia/payroll-console/internal/domain/entity"
	"github.com/gin-gonic/gin"
)

const (
	flashSuccess = "success"
	flashError   = "error"
)

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ActionData is the JSON body of a successful mutation: the flash message
// and the page data fetched again after the change
type ActionData struct {
	Message string      `json:"message"`
	Page    interface{} `json:"page,omitempty"`
	// RefreshError is set when the page could not be fetched again
	RefreshError string `json:"refreshError,omitempty"`
}

// pageData is the value every HTML template renders
type pageData struct {
	Title     string
	Page      workflow.Page
	Identity  *entity.Identity
	Flash     string
	FlashKind string
	// Modal names the dialog to open on load, ModalID the record it acts on
	Modal   string
	ModalID string
	Status  int
	Error   string
	Data    interface{}
	Query   url.Values
}

// statusFor maps an application error to an HTTP status
func statusFor(err error) int {
	var forbidden *service.ForbiddenError
	var validation *service.ValidationError
	var apiErr *port.APIError

	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, workflow.ErrInFlight):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400:
		return apiErr.StatusCode
	default:
		return http.StatusBadGateway
	}
}

// errorMessage is the text shown for err
func errorMessage(err error) string {
	var forbidden *service.ForbiddenError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, service.ErrUnauthorized):
		return service.ErrUnauthorized.Error()
	case errors.As(err, &forbidden):
		return forbidden.Error()
	}
	return err.Error()
}

// endpoint binds the handlers to one surface: HTML pages or the JSON API
type endpoint struct {
	*Handlers
	api bool
}

func (e endpoint) newPageData(c *gin.Context, page workflow.Page, identity *entity.Identity, data interface{}) pageData {
	q := c.Request.URL.Query()
	return pageData{
		Title:     page.Label,
		Page:      page,
		Identity:  identity,
		Flash:     q.Get("flash"),
		FlashKind: q.Get("flashKind"),
		Modal:     q.Get("modal"),
		ModalID:   q.Get("id"),
		Data:      data,
		Query:     q,
	}
}

// render writes page data as JSON or through the named template
func (e endpoint) render(c *gin.Context, page workflow.Page, identity *entity.Identity, tmpl string, data interface{}) {
	if e.api {
		c.JSON(http.StatusOK, Response{Success: true, Data: data})
		return
	}
	c.HTML(http.StatusOK, tmpl, e.newPageData(c, page, identity, data))
}

// fail writes a full page error for err
func (e endpoint) fail(c *gin.Context, page workflow.Page, err error) {
	status := statusFor(err)
	msg := errorMessage(err)

	if status >= http.StatusInternalServerError {
		e.logger.Error("Page failed", "page", page.Key, "status", status, "error", err)
	}

	if e.api {
		c.JSON(status, Response{Success: false, Error: msg})
		return
	}
	data := e.newPageData(c, page, nil, nil)
	data.Status = status
	data.Error = msg
	c.HTML(status, "error.html", data)
}

// gate runs the page's role check and writes the error response when it fails
func (e endpoint) gate(c *gin.Context, pageKey string) (workflow.Page, *entity.Identity, bool) {
	page := workflow.MustPage(pageKey)
	identity, err := e.services.Gate.Check(c.Request.Context(), page)
	if err != nil {
		e.fail(c, page, err)
		return page, nil, false
	}
	return page, identity, true
}

// finish completes a mutation. HTML requests are redirected back to the
// page, which fetches its data again; reopen is added to the redirect when
// the modal should stay open. JSON requests get the page data from a single
// call to reload.
func (e endpoint) finish(
	c *gin.Context,
	page workflow.Page,
	res *service.ActionResult,
	err error,
	reopen url.Values,
	reload func(ctx context.Context) (interface{}, error),
) {
	if res == nil {
		res = &service.ActionResult{Message: errorMessage(err)}
	}

	if e.api {
		if err != nil {
			c.JSON(statusFor(err), Response{Success: false, Error: res.Message})
			return
		}
		out := ActionData{Message: res.Message}
		if reload != nil {
			data, rerr := reload(c.Request.Context())
			if rerr != nil {
				e.logger.Error("Failed to refresh page after action", "page", page.Key, "error", rerr)
				out.RefreshError = errorMessage(rerr)
			}
			out.Page = data
		}
		c.JSON(http.StatusOK, Response{Success: true, Data: out})
		return
	}

	q := url.Values{}
	q.Set("flash", res.Message)
	if err != nil || !res.Succeeded() {
		q.Set("flashKind", flashError)
		for k, vs := range reopen {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
	} else {
		q.Set("flashKind", flashSuccess)
	}
	c.Redirect(http.StatusSeeOther, page.URL()+"?"+q.Encode())
}

// modal builds the query that reopens a dialog for record id
func modal(name, id string) url.Values {
	q := url.Values{}
	q.Set("modal", name)
	if id != "" {
		q.Set("id", id)
	}
	return q
}

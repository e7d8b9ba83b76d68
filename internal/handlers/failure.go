package handlers

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/adyen/storefront-e2e/internal/models"
)

// FailureData represents the data for the failure template
type FailureData struct {
	PageData
	Heading string
	Message string
}

// renderFailure renders the failure page for err with the matching status code
func renderFailure(w http.ResponseWriter, r *http.Request, tmpl *template.Template, err error) {
	status, heading, message := failureDetails(err)
	data := FailureData{
		PageData: newPageData(r, heading),
		Heading:  heading,
		Message:  message,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	render(w, tmpl, "failure.html", data)
}

// failureDetails maps domain errors to user-friendly messages
func failureDetails(err error) (int, string, string) {
	switch {
	case errors.Is(err, models.ErrStoreNotFound):
		return http.StatusNotFound, "Store not found", "This store does not exist."
	case errors.Is(err, models.ErrProductNotFound):
		return http.StatusNotFound, "Product not found", "This product is no longer available."
	case errors.Is(err, models.ErrOrderNotFound):
		return http.StatusNotFound, "Order not found", "We could not find this order."
	default:
		return http.StatusInternalServerError, "Something went wrong", "Please try again later."
	}
}

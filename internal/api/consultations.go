package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ascendhq/ascend-console-go/internal/domain"
	"github.com/ascendhq/ascend-console-go/internal/transform"
)

// ListConsultations fetches every consultation, normalized. The bulk
// endpoint has shipped both a bare array and a wrapper object; the
// wire type absorbs either. 404 handling is a store concern.
func (c *Client) ListConsultations(ctx context.Context) ([]domain.Consultation, error) {
	var wire transform.ConsultationListWire
	if err := c.do(ctx, "ListConsultations", http.MethodGet, "/api/consultations", nil, &wire); err != nil {
		return nil, err
	}
	return transform.ConsultationList(wire), nil
}

// GetConsultation fetches a single consultation by id.
func (c *Client) GetConsultation(ctx context.Context, id string) (domain.Consultation, error) {
	var wire transform.ConsultationWire
	path := fmt.Sprintf("/api/consultations/%s", id)
	if err := c.do(ctx, "GetConsultation", http.MethodGet, path, nil, &wire); err != nil {
		return domain.Consultation{}, err
	}
	return transform.Consultation(wire), nil
}

// CreateConsultation shapes the intake form and submits it. The
// returned entity starts in the processing state.
func (c *Client) CreateConsultation(ctx context.Context, form domain.ConsultationForm) (domain.Consultation, error) {
	body := transform.CreateRequest(form)

	var wire transform.ConsultationWire
	if err := c.do(ctx, "CreateConsultation", http.MethodPost, "/api/consultations", body, &wire); err != nil {
		return domain.Consultation{}, err
	}
	return transform.Consultation(wire), nil
}

// UpdateConsultation sends a partial edit and returns the updated
// entity.
func (c *Client) UpdateConsultation(ctx context.Context, id string, update domain.ConsultationUpdate) (domain.Consultation, error) {
	body := transform.UpdateRequest(update)

	var wire transform.ConsultationWire
	path := fmt.Sprintf("/api/consultations/%s", id)
	if err := c.do(ctx, "UpdateConsultation", http.MethodPatch, path, body, &wire); err != nil {
		return domain.Consultation{}, err
	}
	return transform.Consultation(wire), nil
}

// DeleteConsultation removes a consultation permanently.
func (c *Client) DeleteConsultation(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/consultations/%s", id)
	return c.do(ctx, "DeleteConsultation", http.MethodDelete, path, nil, nil)
}

// SubmitFeedback attaches a rating to a completed consultation. The
// server-confirmed record is obtained by re-fetching afterwards.
func (c *Client) SubmitFeedback(ctx context.Context, id string, form domain.FeedbackForm) error {
	body := struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}{Rating: form.Rating, Comment: form.Comment}

	path := fmt.Sprintf("/api/consultations/%s/feedback", id)
	return c.do(ctx, "SubmitFeedback", http.MethodPost, path, body, nil)
}

// ExportPDF downloads the rendered strategy PDF for a consultation.
func (c *Client) ExportPDF(ctx context.Context, id string) ([]byte, error) {
	path := fmt.Sprintf("/api/consultations/%s/export/pdf", id)
	return c.raw(ctx, "ExportPDF", path)
}

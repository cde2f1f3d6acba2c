// Package tcp implements the newline-delimited JSON request/response
// protocol over TLS: envelope types, the per-connection handler and the
// listener.
package tcp

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/figstore/internal/domain"
)

// RequestType names a protocol operation.
type RequestType string

const (
	RequestLogin         RequestType = "LOGIN"
	RequestExit          RequestType = "SALIR"
	RequestGetAll        RequestType = "GETALL"
	RequestGetByID       RequestType = "GETBYID"
	RequestGetByCategory RequestType = "GETBYMODEL"
	RequestGetByRelease  RequestType = "GETBYRELEASEDATA"
	RequestPost          RequestType = "POST"
	RequestUpdate        RequestType = "UPDATE"
	RequestDelete        RequestType = "DELETE"
)

// ResponseStatus names a protocol reply status.
type ResponseStatus string

const (
	StatusOK    ResponseStatus = "OK"
	StatusError ResponseStatus = "ERROR"
	StatusBye   ResponseStatus = "BYE"
	StatusToken ResponseStatus = "TOKEN"
)

// Request is the wire envelope of one client request. Content carries
// an operation-specific payload: credentials JSON for LOGIN, a decimal
// id for GETBYID/DELETE, a category name for GETBYMODEL, a year for
// GETBYRELEASEDATA, a serialized figure for POST/UPDATE.
type Request struct {
	Type      RequestType `json:"type"`
	Content   string      `json:"content,omitempty"`
	Token     string      `json:"token,omitempty"`
	CreatedAt string      `json:"createdAt"`
}

// Response is the wire envelope of one server reply.
type Response struct {
	Status    ResponseStatus `json:"status"`
	Content   string         `json:"content,omitempty"`
	CreatedAt string         `json:"createdAt"`
}

// NewResponse stamps a reply envelope with the current time.
func NewResponse(status ResponseStatus, content string) Response {
	return Response{
		Status:    status,
		Content:   content,
		CreatedAt: time.Now().Format(time.RFC3339),
	}
}

// Credentials is the LOGIN request content.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// FigurePayload is the wire shape of one figure.
type FigurePayload struct {
	ID          int64  `json:"id,omitempty"`
	Code        string `json:"cod,omitempty"`
	SequenceID  int64  `json:"sequenceId,omitempty"`
	Name        string `json:"name"`
	Category    string `json:"model"`
	Price       string `json:"price"`
	ReleaseDate string `json:"releaseDate"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// PayloadFromFigure converts a domain figure to its wire shape.
func PayloadFromFigure(f *domain.Figure) FigurePayload {
	p := FigurePayload{
		ID:          f.ID,
		SequenceID:  f.SequenceID,
		Name:        f.Name,
		Category:    f.Category.String(),
		Price:       f.Price.String(),
		ReleaseDate: f.ReleaseDate.Format(time.DateOnly),
	}
	if f.Code != uuid.Nil {
		p.Code = f.Code.String()
	}
	if !f.CreatedAt.IsZero() {
		p.CreatedAt = f.CreatedAt.Format(time.RFC3339)
	}
	if !f.UpdatedAt.IsZero() {
		p.UpdatedAt = f.UpdatedAt.Format(time.RFC3339)
	}
	return p
}

// ToFigure converts the wire shape back to a domain figure. A missing
// code is tolerated (new figures get one assigned); other malformed
// fields fail with a validation error.
func (p FigurePayload) ToFigure() (*domain.Figure, error) {
	f := &domain.Figure{
		ID:         p.ID,
		SequenceID: p.SequenceID,
		Name:       p.Name,
		Category:   domain.Category(p.Category),
	}

	if p.Code != "" {
		code, err := uuid.Parse(p.Code)
		if err != nil {
			return nil, domain.NewValidationError("cod", fmt.Sprintf("invalid uuid: %v", err))
		}
		f.Code = code
	}

	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return nil, domain.NewValidationError("price", fmt.Sprintf("invalid decimal: %v", err))
	}
	f.Price = price

	release, err := time.Parse(time.DateOnly, p.ReleaseDate)
	if err != nil {
		return nil, domain.NewValidationError("releaseDate", "expected YYYY-MM-DD")
	}
	f.ReleaseDate = release

	if p.CreatedAt != "" {
		if f.CreatedAt, err = time.Parse(time.RFC3339, p.CreatedAt); err != nil {
			return nil, domain.NewValidationError("createdAt", "expected RFC 3339 timestamp")
		}
	}
	if p.UpdatedAt != "" {
		if f.UpdatedAt, err = time.Parse(time.RFC3339, p.UpdatedAt); err != nil {
			return nil, domain.NewValidationError("updatedAt", "expected RFC 3339 timestamp")
		}
	}

	return f, nil
}

package tcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/figstore/internal/domain"
)

// figureService is the catalog surface the handler dispatches into.
type figureService interface {
	FindAll(ctx context.Context) ([]*domain.Figure, error)
	FindByID(ctx context.Context, id int64) (*domain.Figure, error)
	FindByCategory(ctx context.Context, category domain.Category) ([]*domain.Figure, error)
	FindByReleaseYear(ctx context.Context, year int) ([]*domain.Figure, error)
	Save(ctx context.Context, f *domain.Figure) (*domain.Figure, error)
	Update(ctx context.Context, f *domain.Figure) (*domain.Figure, error)
	DeleteByID(ctx context.Context, id int64) (*domain.Figure, error)
}

// authGate authenticates and authorizes protocol requests.
type authGate interface {
	Login(ctx context.Context, username, password string) (string, error)
	Authorize(ctx context.Context, token string) (*domain.User, error)
	RequireRole(user *domain.User, role domain.Role) error
}

// Handler runs the request/response loop for a single client connection.
// Requests are processed strictly in order; no state is shared with
// other connections beyond the injected services.
type Handler struct {
	conn        net.Conn
	figures     figureService
	gate        authGate
	log         *slog.Logger
	clientID    int64
	readTimeout time.Duration
}

// NewHandler creates a handler for one accepted connection.
// readTimeout bounds the wait for each request line; zero means no limit.
func NewHandler(log *slog.Logger, conn net.Conn, figures figureService, gate authGate, clientID int64, readTimeout time.Duration) *Handler {
	return &Handler{
		conn:        conn,
		figures:     figures,
		gate:        gate,
		log:         log.With("component", "handler", "client_id", clientID),
		clientID:    clientID,
		readTimeout: readTimeout,
	}
}

// Serve reads requests line by line until the client says goodbye, the
// connection drops, or an auth violation forces a close. It always
// closes the connection before returning.
func (h *Handler) Serve(ctx context.Context) {
	defer h.conn.Close()

	h.log.InfoContext(ctx, "client connected", slog.String("remote", h.conn.RemoteAddr().String()))

	scanner := bufio.NewScanner(h.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if h.readTimeout > 0 {
			if err := h.conn.SetReadDeadline(time.Now().Add(h.readTimeout)); err != nil {
				h.log.WarnContext(ctx, "set read deadline failed", slog.String("error", err.Error()))
				return
			}
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			h.log.WarnContext(ctx, "malformed request, closing", slog.String("error", err.Error()))
			return
		}

		resp, closeAfter := h.dispatch(ctx, req)
		if err := h.write(resp); err != nil {
			h.log.WarnContext(ctx, "write failed, closing", slog.String("error", err.Error()))
			return
		}
		if closeAfter {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		h.log.InfoContext(ctx, "client read ended", slog.String("error", err.Error()))
	}
	h.log.InfoContext(ctx, "client disconnected")
}

func (h *Handler) write(resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	data = append(data, '\n')
	if _, err := h.conn.Write(data); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

// dispatch routes one request and reports whether the connection must be
// closed after the reply. Domain errors keep the session alive; token
// and permission failures end it.
func (h *Handler) dispatch(ctx context.Context, req Request) (Response, bool) {
	switch req.Type {
	case RequestLogin:
		return h.handleLogin(ctx, req), false
	case RequestExit:
		return NewResponse(StatusBye, "Adios"), true
	case RequestGetAll:
		return h.authorized(ctx, req, "", h.handleGetAll)
	case RequestGetByID:
		return h.authorized(ctx, req, "", h.handleGetByID)
	case RequestGetByCategory:
		return h.authorized(ctx, req, "", h.handleGetByCategory)
	case RequestGetByRelease:
		return h.authorized(ctx, req, "", h.handleGetByRelease)
	case RequestPost:
		return h.authorized(ctx, req, domain.RoleAdmin, h.handlePost)
	case RequestUpdate:
		return h.authorized(ctx, req, domain.RoleAdmin, h.handleUpdate)
	case RequestDelete:
		return h.authorized(ctx, req, domain.RoleAdmin, h.handleDelete)
	default:
		return NewResponse(StatusError, fmt.Sprintf("unknown request type %q", req.Type)), false
	}
}

// authorized validates the request token, optionally enforces a role,
// and runs op. Auth failures close the connection after the ERROR reply.
func (h *Handler) authorized(
	ctx context.Context,
	req Request,
	role domain.Role,
	op func(ctx context.Context, user *domain.User, content string) (Response, error),
) (Response, bool) {
	user, err := h.gate.Authorize(ctx, req.Token)
	if err != nil {
		return NewResponse(StatusError, "invalid or expired token"), true
	}
	if role != "" {
		if err := h.gate.RequireRole(user, role); err != nil {
			h.log.WarnContext(ctx, "forbidden request",
				slog.String("type", string(req.Type)),
				slog.String("username", user.Username),
			)
			return NewResponse(StatusError, "forbidden: requires role "+role.String()), true
		}
	}

	resp, err := op(ctx, user, req.Content)
	if err != nil {
		return h.errorResponse(ctx, req, err)
	}
	return resp, false
}

// errorResponse maps an operation error to an ERROR reply, deciding
// whether the session survives it.
func (h *Handler) errorResponse(ctx context.Context, req Request, err error) (Response, bool) {
	h.log.WarnContext(ctx, "request failed",
		slog.String("type", string(req.Type)),
		slog.String("error", err.Error()),
	)

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return NewResponse(StatusError, "invalid or expired token"), true
	case errors.Is(err, domain.ErrForbidden):
		return NewResponse(StatusError, err.Error()), true
	default:
		return NewResponse(StatusError, err.Error()), false
	}
}

func (h *Handler) handleLogin(ctx context.Context, req Request) Response {
	var creds Credentials
	if err := json.Unmarshal([]byte(req.Content), &creds); err != nil {
		return NewResponse(StatusError, "malformed credentials")
	}

	token, err := h.gate.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		return NewResponse(StatusError, "invalid username or password")
	}
	return NewResponse(StatusToken, token)
}

func (h *Handler) handleGetAll(ctx context.Context, _ *domain.User, _ string) (Response, error) {
	figures, err := h.figures.FindAll(ctx)
	if err != nil {
		return Response{}, err
	}
	return listResponse(figures)
}

func (h *Handler) handleGetByID(ctx context.Context, _ *domain.User, content string) (Response, error) {
	id, err := parseID(content)
	if err != nil {
		return Response{}, err
	}

	f, err := h.figures.FindByID(ctx, id)
	if err != nil {
		return Response{}, err
	}
	return figureResponse(f)
}

func (h *Handler) handleGetByCategory(ctx context.Context, _ *domain.User, content string) (Response, error) {
	figures, err := h.figures.FindByCategory(ctx, domain.Category(strings.TrimSpace(content)))
	if err != nil {
		return Response{}, err
	}
	return listResponse(figures)
}

func (h *Handler) handleGetByRelease(ctx context.Context, _ *domain.User, content string) (Response, error) {
	year, err := strconv.Atoi(strings.TrimSpace(content))
	if err != nil || year < 1000 || year > 9999 {
		return Response{}, domain.NewValidationError("year", "expected a 4-digit year")
	}

	figures, err := h.figures.FindByReleaseYear(ctx, year)
	if err != nil {
		return Response{}, err
	}
	return listResponse(figures)
}

func (h *Handler) handlePost(ctx context.Context, _ *domain.User, content string) (Response, error) {
	f, err := decodeFigure(content)
	if err != nil {
		return Response{}, err
	}

	saved, err := h.figures.Save(ctx, f)
	if err != nil {
		return Response{}, err
	}
	return figureResponse(saved)
}

func (h *Handler) handleUpdate(ctx context.Context, _ *domain.User, content string) (Response, error) {
	f, err := decodeFigure(content)
	if err != nil {
		return Response{}, err
	}

	updated, err := h.figures.Update(ctx, f)
	if err != nil {
		return Response{}, err
	}
	return figureResponse(updated)
}

func (h *Handler) handleDelete(ctx context.Context, _ *domain.User, content string) (Response, error) {
	id, err := parseID(content)
	if err != nil {
		return Response{}, err
	}

	deleted, err := h.figures.DeleteByID(ctx, id)
	if err != nil {
		return Response{}, err
	}
	return figureResponse(deleted)
}

func parseID(content string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(content), 10, 64)
	if err != nil {
		return 0, domain.NewValidationError("id", "expected a decimal id")
	}
	return id, nil
}

func decodeFigure(content string) (*domain.Figure, error) {
	var payload FigurePayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, domain.NewValidationError("figure", "malformed figure payload")
	}
	return payload.ToFigure()
}

func figureResponse(f *domain.Figure) (Response, error) {
	data, err := json.Marshal(PayloadFromFigure(f))
	if err != nil {
		return Response{}, fmt.Errorf("encode figure: %w", err)
	}
	return NewResponse(StatusOK, string(data)), nil
}

func listResponse(figures []*domain.Figure) (Response, error) {
	payloads := make([]FigurePayload, 0, len(figures))
	for _, f := range figures {
		payloads = append(payloads, PayloadFromFigure(f))
	}

	data, err := json.Marshal(payloads)
	if err != nil {
		return Response{}, fmt.Errorf("encode figures: %w", err)
	}
	return NewResponse(StatusOK, string(data)), nil
}

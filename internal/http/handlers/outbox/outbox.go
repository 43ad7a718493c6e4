package outbox

import (
	e "authfront/internal/core/domain/errors"
	"authfront/internal/core/domain/logging"
	"authfront/internal/http/handlers/response"
	"authfront/internal/i18n"
	"authfront/internal/implementations/email"
	"net/http"
	"net/url"

	"github.com/r3labs/sse/v2"
)

type TokenValidator interface {
	ValidateOutboxToken(token string) bool
}

// Handler streams reset links recorded by the log sender to an operator.
type Handler struct {
	log            logging.Logger
	sseServer      *sse.Server
	tokenValidator TokenValidator
}

func New(
	log logging.Logger,
	sseServer *sse.Server,
	tokenValidator TokenValidator,
) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sseServer == nil {
		panic(e.NewNilArgumentError("sseServer"))
	}
	if tokenValidator == nil {
		panic(e.NewNilArgumentError("tokenValidator"))
	}
	return &Handler{log: log, sseServer: sseServer, tokenValidator: tokenValidator}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if !h.tokenValidator.ValidateOutboxToken(r.URL.Query().Get("token")) {
		h.log.Info(r.Context(), "Invalid outbox token.")
		response.RenderError(rw, r, response.NotFound, i18n.InvalidRequest, http.StatusNotFound)
		return
	}

	h.log.Info(r.Context(), "Subscribed to outbox events.")
	defer h.log.Info(r.Context(), "Unsubscribed from outbox events.")

	// sse.Server picks the stream from the "stream" query parameter.
	query := url.Values{}
	query.Set("stream", email.OutboxStream)
	r = r.Clone(r.Context())
	r.URL.RawQuery = query.Encode()
	h.sseServer.ServeHTTP(rw, r)
}

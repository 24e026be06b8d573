package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"realtrade/internal/application"
	"realtrade/internal/domain"
	"realtrade/internal/infrastructure/logx"
	"realtrade/internal/infrastructure/provider"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	msgPairNotFound  = "Par de moedas não encontrado"
	msgUpstreamError = "Erro ao buscar cotação na API externa"
	msgEmptyList     = "Lista de moedas não fornecida"
	msgBadBody       = "Corpo da requisição inválido"
)

// APIServer implements the quote API handlers.
type APIServer struct {
	svc *application.QuoteService
	now func() time.Time
}

func NewAPIServer(svc *application.QuoteService) *APIServer {
	return &APIServer{svc: svc, now: time.Now}
}

type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *APIServer) GetCurrency(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "pair")
	q, err := s.svc.GetQuote(r.Context(), code)
	if err != nil {
		status, body := quoteErrorResponse(err)
		logx.WithFields(r.Context()).Warn("api.quote_failed",
			zap.String("pair", code), zap.Int("status", status), zap.Error(err))
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, provider.NewQuotePayload(q, s.now()))
}

func quoteErrorResponse(err error) (int, apiError) {
	if errors.Is(err, domain.ErrInvalidPair) || errors.Is(err, domain.ErrUnsupportedPair) {
		return http.StatusNotFound, apiError{Error: msgPairNotFound}
	}
	if kind, ok := domain.FetchKind(err); ok && kind == domain.FetchPairNotFound {
		return http.StatusNotFound, apiError{Error: msgPairNotFound}
	}
	return http.StatusBadGateway, apiError{Error: msgUpstreamError, Details: err.Error()}
}

func (s *APIServer) AvailableCurrencies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.AvailablePairs())
}

type multipleRequest struct {
	Currencies []string `json:"currencies"`
}

type multipleResponse struct {
	Results   map[string]any `json:"results"`
	FetchedAt time.Time      `json:"fetched_at"`
}

func (s *APIServer) MultipleCurrencies(w http.ResponseWriter, r *http.Request) {
	var body multipleRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: msgBadBody})
		return
	}
	results, err := s.svc.GetMany(r.Context(), body.Currencies)
	if err != nil {
		if errors.Is(err, application.ErrBadRequest) {
			writeJSON(w, http.StatusBadRequest, apiError{Error: msgEmptyList})
			return
		}
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "Erro interno do servidor", Details: err.Error()})
		return
	}
	now := s.now()
	resp := multipleResponse{Results: make(map[string]any, len(results)), FetchedAt: now.UTC()}
	for code, res := range results {
		if res.Err != nil {
			_, e := quoteErrorResponse(res.Err)
			resp.Results[code] = e
			continue
		}
		resp.Results[code] = provider.NewQuotePayload(*res.Quote, now)
	}
	writeJSON(w, http.StatusOK, resp)
}

type healthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *APIServer) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Message:   "API RealTrade funcionando",
		Timestamp: s.now().UTC(),
	})
}

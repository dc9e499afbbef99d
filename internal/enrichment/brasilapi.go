// Package enrichment looks up company registry data for CNPJ documents.
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/logger"
)

const DefaultBaseURL = "https://brasilapi.com.br"

// BrasilAPI is a client for the public BrasilAPI CNPJ endpoint.
type BrasilAPI struct {
	baseURL string
	client  *http.Client
}

func NewBrasilAPI(baseURL string, timeout time.Duration) *BrasilAPI {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BrasilAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type cnpjResponse struct {
	CNPJ         string `json:"cnpj"`
	RazaoSocial  string `json:"razao_social"`
	NomeFantasia string `json:"nome_fantasia"`
	Email        string `json:"email"`
	DDDTelefone1 string `json:"ddd_telefone_1"`
	Municipio    string `json:"municipio"`
	UF           string `json:"uf"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Lookup fetches registry data for cnpj. Punctuation in cnpj is ignored.
func (b *BrasilAPI) Lookup(ctx context.Context, cnpj string) (*domain.CompanyInfo, error) {
	digits := domain.DocumentDigits(cnpj)
	if len(digits) != 14 {
		return nil, domain.InvalidInput("%q is not a CNPJ", cnpj)
	}

	url := fmt.Sprintf("%s/api/cnpj/v1/%s", b.baseURL, digits)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	logger.ExternalServiceCall("brasilapi", "Lookup", "cnpj", digits)
	resp, err := b.client.Do(req)
	if err != nil {
		err = domain.WrapError(domain.KindStorageUnavailable, "company registry unreachable", err)
		logger.ExternalServiceResult("brasilapi", "Lookup", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		err := statusError(resp, digits)
		logger.ExternalServiceResult("brasilapi", "Lookup", err, "status", resp.StatusCode)
		return nil, err
	}

	var out cnpjResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode brasilapi response: %w", err)
	}
	logger.ExternalServiceResult("brasilapi", "Lookup", nil, "cnpj", digits)

	return &domain.CompanyInfo{
		CNPJ:      digits,
		LegalName: strings.TrimSpace(out.RazaoSocial),
		TradeName: strings.TrimSpace(out.NomeFantasia),
		Email:     strings.ToLower(strings.TrimSpace(out.Email)),
		Phone:     strings.TrimSpace(out.DDDTelefone1),
		City:      out.Municipio,
		State:     out.UF,
	}, nil
}

func statusError(resp *http.Response, digits string) error {
	var body errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Message
	if msg == "" {
		msg = resp.Status
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.NewError(domain.KindNotFound, "CNPJ %s not found in registry: %s", digits, msg)
	case resp.StatusCode == http.StatusBadRequest:
		return domain.InvalidInput("registry rejected CNPJ %s: %s", digits, msg)
	case resp.StatusCode == http.StatusGatewayTimeout:
		return domain.NewError(domain.KindStorageTimeout, "company registry timed out: %s", msg)
	}
	return domain.NewError(domain.KindStorageUnavailable, "company registry error: %s", msg)
}

package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/billqhan/rfp-deploy/internal/domain/entity"
)

// healthResponse is the well-known body shape of the service's health
// endpoint. Only status == "UP" counts as healthy.
type healthResponse struct {
	Status string `json:"status"`
}

// HTTPHealthProber implementa o HealthProber com um http.Client de timeout
// limitado. Uma resposta malformada ou inalcançável é sinal de degradação,
// nunca um erro fatal.
type HTTPHealthProber struct {
	client *http.Client
}

// NewHTTPHealthProber cria um novo HTTPHealthProber.
func NewHTTPHealthProber(timeout time.Duration) *HTTPHealthProber {
	return &HTTPHealthProber{
		client: &http.Client{Timeout: timeout},
	}
}

// Probe issues a single GET against the health URL and parses the JSON body.
func (p *HTTPHealthProber) Probe(ctx context.Context, url string) (entity.ProbeStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return entity.ProbeUnreachable, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return entity.ProbeUnreachable, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return entity.ProbeUnreachable, err
	}

	var health healthResponse
	if err := json.Unmarshal(body, &health); err != nil {
		return entity.ProbeDown, fmt.Errorf("malformed health response: %w", err)
	}

	if health.Status == "UP" {
		return entity.ProbeUp, nil
	}
	return entity.ProbeDown, nil
}

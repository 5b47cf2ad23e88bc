package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"ippis-portal/internal/shared/apperror"
	verificationerrors "ippis-portal/internal/verification/errors"
)

// ErrIdentityNotFound is returned by a Provider when the NIN is unknown.
var ErrIdentityNotFound = errors.New("identity not found")

//go:generate mockgen -source=verification_provider.go -destination=mock/verification_provider_mock.go -package=mock
type Provider interface {
	Lookup(ctx context.Context, nin string) (Identity, error)
}

type httpProvider struct {
	url    string
	apiKey string
	http   *http.Client
}

func NewHTTPProvider(url, apiKey string, timeout time.Duration) Provider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpProvider{url: url, apiKey: apiKey, http: &http.Client{Timeout: timeout}}
}

func (p *httpProvider) Lookup(ctx context.Context, nin string) (Identity, error) {
	if p.url == "" {
		return Identity{}, verificationerrors.ErrNotConfigured
	}

	payload, _ := json.Marshal(map[string]string{"nin": nin})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return Identity{}, fmt.Errorf("build nin request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return Identity{}, apperror.Wrap(err, verificationerrors.ErrProviderUnavailable.Code,
			verificationerrors.ErrProviderUnavailable.Message, http.StatusBadGateway)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Identity{}, apperror.Wrap(err, verificationerrors.ErrProviderUnavailable.Code,
			verificationerrors.ErrProviderUnavailable.Message, http.StatusBadGateway)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Identity{}, ErrIdentityNotFound
	case resp.StatusCode >= 300:
		return Identity{}, apperror.Wrap(
			fmt.Errorf("nin provider answered %d", resp.StatusCode),
			verificationerrors.ErrProviderUnavailable.Code,
			verificationerrors.ErrProviderUnavailable.Message,
			http.StatusBadGateway,
		)
	}

	var envelope struct {
		Data *Identity `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != nil {
		return *envelope.Data, nil
	}
	var id Identity
	if err := json.Unmarshal(body, &id); err != nil {
		return Identity{}, apperror.Wrap(err, verificationerrors.ErrProviderUnavailable.Code,
			"The NIN verification service returned an unreadable answer", http.StatusBadGateway)
	}
	return id, nil
}

package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/domain"
)

// BackendGenerator forwards requests to the hosted AI service: one POST
// per call, bearer token when present, never a retry. Non-2xx responses
// and transport failures both come back as Success=false results.
type BackendGenerator struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

func NewBackendGenerator(baseURL, serviceKey string, client *http.Client) *BackendGenerator {
	if client == nil {
		client = http.DefaultClient
	}
	return &BackendGenerator{baseURL: baseURL, serviceKey: serviceKey, client: client}
}

func (g *BackendGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	if _, ok := LookupTool(req.Tool); !ok {
		return domain.GenerationResponse{Success: false, Error: domain.ErrUnknownTool.Error()}, nil
	}

	body, err := json.Marshal(req.Params)
	if err != nil {
		return domain.GenerationResponse{Success: false, Error: "invalid parameters"}, nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/ai/%s", g.baseURL, req.Tool), bytes.NewReader(body))
	if err != nil {
		return domain.GenerationResponse{Success: false, Error: "invalid request"}, nil
	}
	httpReq.Header.Set("Content-Type", "application/json")
	token := req.Token
	if token == "" {
		token = g.serviceKey
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return domain.GenerationResponse{}, ctx.Err()
		}
		return domain.GenerationResponse{Success: false, Error: "Network error"}, nil
	}
	defer resp.Body.Close()

	var out domain.GenerationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.GenerationResponse{Success: false, Error: "malformed backend response"}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := out.Message
		if msg == "" {
			msg = out.Error
		}
		if msg == "" {
			msg = "Request failed"
		}
		return domain.GenerationResponse{Success: false, Error: msg}, nil
	}
	return out, nil
}

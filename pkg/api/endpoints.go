package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/maktaba/pkg/kit"
	"github.com/hazyhaar/maktaba/pkg/library"
	"github.com/hazyhaar/maktaba/pkg/match"
)

// Shared request/response types used by the HTTP, MCP and Telegram
// transports.

type resolveReq struct {
	Query string
}

type suggestReq struct {
	Query string
	Limit int
}

type titlesReq struct {
	Scholar string
}

// ResolveResponse is the outcome of one lookup. When nothing matched,
// Suggestions carries the "did you mean" alternatives.
type ResolveResponse struct {
	Query       string       `json:"query"`
	Matched     bool         `json:"matched"`
	Scholar     string       `json:"scholar,omitempty"`
	Title       string       `json:"title,omitempty"`
	URL         string       `json:"url,omitempty"`
	Suggestions []match.Pair `json:"suggestions,omitempty"`
}

type suggestResponse struct {
	Query       string       `json:"query"`
	Suggestions []match.Pair `json:"suggestions"`
}

type scholarsResponse struct {
	Scholars []string `json:"scholars"`
}

type titlesResponse struct {
	Scholar string   `json:"scholar"`
	Titles  []string `json:"titles"`
}

const defaultSuggestLimit = 5

// Endpoints are the read operations, one kit.Endpoint per operation, with
// the standard middleware already applied. All transports dispatch here.
type Endpoints struct {
	Resolve  kit.Endpoint
	Suggest  kit.Endpoint
	Scholars kit.Endpoint
	Titles   kit.Endpoint
}

// NewEndpoints wires the library service into audited endpoints.
func NewEndpoints(svc *library.Service, logger *slog.Logger) *Endpoints {
	std := func(name string, ep kit.Endpoint) kit.Endpoint {
		return kit.Chain(kit.RequestID(), kit.Audit(logger, name))(ep)
	}
	return &Endpoints{
		Resolve:  std("resolve", resolveEndpoint(svc)),
		Suggest:  std("suggest", suggestEndpoint(svc)),
		Scholars: std("scholars", scholarsEndpoint(svc)),
		Titles:   std("titles", titlesEndpoint(svc)),
	}
}

// ResolveQuery is a typed front door for transports outside this package.
func (e *Endpoints) ResolveQuery(ctx context.Context, query string) (*ResolveResponse, error) {
	resp, err := e.Resolve(ctx, &resolveReq{Query: query})
	if err != nil {
		return nil, err
	}
	return resp.(*ResolveResponse), nil
}

func resolveEndpoint(svc *library.Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*resolveReq)
		resp := &ResolveResponse{Query: req.Query}

		p, ok, err := svc.Resolve(ctx, req.Query)
		if err != nil {
			return nil, err
		}
		if !ok {
			resp.Suggestions, err = svc.Suggest(ctx, req.Query, defaultSuggestLimit)
			return resp, err
		}

		resp.Matched = true
		resp.Scholar, resp.Title = p.Scholar, p.Title
		url, found, err := svc.Locator(ctx, p.Scholar, p.Title)
		if err != nil {
			return nil, err
		}
		if found {
			resp.URL = url
		}
		return resp, nil
	}
}

func suggestEndpoint(svc *library.Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*suggestReq)
		limit := req.Limit
		if limit <= 0 || limit > 25 {
			limit = defaultSuggestLimit
		}
		pairs, err := svc.Suggest(ctx, req.Query, limit)
		if err != nil {
			return nil, err
		}
		if pairs == nil {
			pairs = []match.Pair{}
		}
		return &suggestResponse{Query: req.Query, Suggestions: pairs}, nil
	}
}

func scholarsEndpoint(svc *library.Service) kit.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		scholars, err := svc.Scholars(ctx)
		if err != nil {
			return nil, err
		}
		if scholars == nil {
			scholars = []string{}
		}
		return &scholarsResponse{Scholars: scholars}, nil
	}
}

func titlesEndpoint(svc *library.Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*titlesReq)
		if req.Scholar == "" {
			return nil, fmt.Errorf("missing scholar")
		}
		titles, err := svc.Titles(ctx, req.Scholar)
		if err != nil {
			return nil, err
		}
		if titles == nil {
			titles = []string{}
		}
		return &titlesResponse{Scholar: req.Scholar, Titles: titles}, nil
	}
}

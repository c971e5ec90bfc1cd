package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/league"
)

// FiveYearRankingArgs is the input schema for five_year_ranking.
type FiveYearRankingArgs struct {
	Year    int    `json:"year" jsonschema:"Most recent season of the window, e.g. 2023 for 2023/24 (required)"`
	Details bool   `json:"details,omitempty" jsonschema:"Include per-season record rows"`
	Source  string `json:"source,omitempty" jsonschema:"Season source: web|simulated (default from config)"`
}

func buildFiveYearRanking(ctx context.Context, cfg ServerConfig, args FiveYearRankingArgs) (*league.Report, error) {
	if args.Year == 0 {
		return nil, fmt.Errorf("year is required")
	}
	return cfg.Service.Ranking(ctx, args.Year, league.Options{
		Details: args.Details,
		Source:  args.Source,
	})
}

func fiveYearRankingHandler(cfg ServerConfig) func(context.Context, *mcp.CallToolRequest, FiveYearRankingArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args FiveYearRankingArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildFiveYearRanking(ctx, cfg, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(json.MarshalIndent(out, "", "  "))
	}
}

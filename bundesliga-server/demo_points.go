package main

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/ranking"
)

// DemoPointsArgs is the input schema for demo_points.
type DemoPointsArgs struct {
	Team   string `json:"team" jsonschema:"Team name (required)"`
	Season int    `json:"season" jsonschema:"Season start year (required)"`
	Wins   int    `json:"wins" jsonschema:"Wins, 0-34"`
	Draws  int    `json:"draws" jsonschema:"Draws, 0-34; wins+draws at most 34"`
}

func buildDemoPoints(args DemoPointsArgs) (ranking.DemoResult, error) {
	return ranking.DemoPoints(ranking.DemoEntry{
		Team:   args.Team,
		Season: args.Season,
		Wins:   args.Wins,
		Draws:  args.Draws,
	})
}

func demoPointsHandler(cfg ServerConfig) func(context.Context, *mcp.CallToolRequest, DemoPointsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args DemoPointsArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildDemoPoints(args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(json.MarshalIndent(out, "", "  "))
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/extract"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/fetch"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/model"
)

// SeasonTableArgs is the input schema for season_table.
type SeasonTableArgs struct {
	Season int    `json:"season" jsonschema:"Season start year, e.g. 2023 for 2023/24 (required)"`
	Source string `json:"source,omitempty" jsonschema:"Season source: web|simulated (default from config)"`
}

// SeasonTableResult is the output of season_table. A season that could not
// be extracted has OK=false and a Failure instead of records.
type SeasonTableResult struct {
	Season   int                  `json:"season"`
	Label    string               `json:"label"`
	OK       bool                 `json:"ok"`
	Source   string               `json:"source,omitempty"`
	Records  []model.SeasonRecord `json:"records"`
	Warnings []string             `json:"warnings,omitempty"`
	Failure  *extract.Failure     `json:"failure,omitempty"`
}

func buildSeasonTable(ctx context.Context, cfg ServerConfig, args SeasonTableArgs) (*SeasonTableResult, error) {
	if args.Season == 0 {
		return nil, fmt.Errorf("season is required")
	}
	res, err := cfg.Service.Season(ctx, args.Season, args.Source)
	if err != nil {
		return nil, err
	}
	out := &SeasonTableResult{
		Season:   res.Season,
		Label:    fetch.SeasonLabel(res.Season),
		OK:       res.OK(),
		Source:   res.Source,
		Records:  res.Records,
		Warnings: res.Warnings,
		Failure:  res.Failure,
	}
	if out.Records == nil {
		out.Records = []model.SeasonRecord{}
	}
	return out, nil
}

func seasonTableHandler(cfg ServerConfig) func(context.Context, *mcp.CallToolRequest, SeasonTableArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args SeasonTableArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildSeasonTable(ctx, cfg, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(json.MarshalIndent(out, "", "  "))
	}
}

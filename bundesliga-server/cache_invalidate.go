package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CacheInvalidateArgs is the input schema for cache_invalidate.
type CacheInvalidateArgs struct {
	Season int `json:"season" jsonschema:"Season to drop (0 = every season)"`
}

// CacheInvalidateResult is the output of cache_invalidate.
type CacheInvalidateResult struct {
	Invalidated string `json:"invalidated"`
}

func buildCacheInvalidate(ctx context.Context, cfg ServerConfig, args CacheInvalidateArgs) (CacheInvalidateResult, error) {
	if args.Season < 0 {
		return CacheInvalidateResult{}, fmt.Errorf("season must not be negative")
	}
	if err := cfg.Service.Invalidate(ctx, args.Season); err != nil {
		return CacheInvalidateResult{}, err
	}
	if args.Season == 0 {
		return CacheInvalidateResult{Invalidated: "all"}, nil
	}
	return CacheInvalidateResult{Invalidated: fmt.Sprint(args.Season)}, nil
}

func cacheInvalidateHandler(cfg ServerConfig) func(context.Context, *mcp.CallToolRequest, CacheInvalidateArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args CacheInvalidateArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildCacheInvalidate(ctx, cfg, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(json.MarshalIndent(out, "", "  "))
	}
}

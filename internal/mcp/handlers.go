package mcp

import (
	"context"

	"downtime-mcs/internal/simulation"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleRunSimulation(ctx context.Context, _ *mcp.CallToolRequest, args runSimulationArgs) (*mcp.CallToolResult, any, error) {
	res, err := s.svc.RunSimulation(ctx, args.DowntimeHours, args.BaseParams.costParameters(), args.Config)
	if err != nil {
		return nil, nil, err
	}
	if !args.IncludeTrials {
		res = res.WithoutTrials()
	}
	return textResult(res), nil, nil
}

func (s *Server) handleRunEquipmentSimulation(ctx context.Context, _ *mcp.CallToolRequest, args equipmentSimulationArgs) (*mcp.CallToolResult, any, error) {
	sim, err := s.svc.RunEquipmentSimulation(ctx, args.EquipmentID, args.DowntimeHours)
	if err != nil {
		return nil, nil, err
	}
	if !args.IncludeTrials {
		copied := *sim
		copied.Result = sim.Result.WithoutTrials()
		sim = &copied
	}
	return textResult(sim), nil, nil
}

func (s *Server) handleGenerateRiskReport(ctx context.Context, _ *mcp.CallToolRequest, args riskReportArgs) (*mcp.CallToolResult, any, error) {
	r, err := s.svc.GenerateRiskReport(ctx, args.EquipmentID, args.DowntimeHours)
	if err != nil {
		return nil, nil, err
	}
	return textResult(r), nil, nil
}

func (s *Server) handleRunSensitivityAnalysis(ctx context.Context, _ *mcp.CallToolRequest, args sensitivityArgs) (*mcp.CallToolResult, any, error) {
	sa, err := s.svc.RunSensitivityAnalysis(ctx, args.EquipmentID, args.DowntimeHours, simulation.VariationSet(args.SensitivityParams))
	if err != nil {
		return nil, nil, err
	}
	return textResult(sa), nil, nil
}

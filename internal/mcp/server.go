package mcp

import (
	"context"
	"fmt"

	"downtime-mcs/internal/service"
	"downtime-mcs/internal/simulation"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

const serverName = "downtime-mcs"

const instructions = "Monte-Carlo estimation of equipment downtime cost. " +
	"Use 'run_equipment_simulation' or 'generate_risk_report' for known equipment ids, " +
	"'run_simulation' for hypothetical cost drivers. Report the figures returned by the tools; " +
	"never extrapolate probabilities the tools did not compute."

// Server exposes the simulation service as MCP tools.
type Server struct {
	svc    *service.Service
	server *mcp.Server
}

// NewServer registers every tool against svc.
func NewServer(svc *service.Service, version string) (*Server, error) {
	s := &Server{
		svc: svc,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    serverName,
			Version: version,
		}, &mcp.ServerOptions{Instructions: instructions}),
	}
	if err := s.registerTools(); err != nil {
		return nil, err
	}
	return s, nil
}

// Serve runs the JSON-RPC loop over stdio until the client disconnects or
// ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Str("server", serverName).Msg("Serving MCP over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect attaches one session on t. Used for in-process clients.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

func (s *Server) registerTools() error {
	nonNegative := map[string]float64{"downtimeHours": 0}

	simSchema, err := inputSchema[runSimulationArgs](map[string]float64{
		"downtimeHours":                  0,
		"baseParams.revenuePerHour":      0,
		"baseParams.affectedEmployees":   0,
		"baseParams.hourlyWage":          0,
		"baseParams.equipmentValue":      0,
		"config.iterations":              1,
		"config.revenueVariation":        0,
		"config.employeeVariation":       0,
		"config.wageVariation":           0,
		"config.equipmentValueVariation": 0,
	})
	if err != nil {
		return fmt.Errorf("%s schema: %w", toolRunSimulation, err)
	}
	if err := setMaximum(simSchema, "config.iterations", simulation.MaxIterations); err != nil {
		return fmt.Errorf("%s schema: %w", toolRunSimulation, err)
	}
	equipmentSchema, err := inputSchema[equipmentSimulationArgs](nonNegative)
	if err != nil {
		return fmt.Errorf("%s schema: %w", toolRunEquipmentSimulation, err)
	}
	reportSchema, err := inputSchema[riskReportArgs](nonNegative)
	if err != nil {
		return fmt.Errorf("%s schema: %w", toolGenerateRiskReport, err)
	}
	sensitivitySchema, err := inputSchema[sensitivityArgs](nonNegative)
	if err != nil {
		return fmt.Errorf("%s schema: %w", toolRunSensitivityAnalysis, err)
	}
	if err := restrictParameters(sensitivitySchema); err != nil {
		return fmt.Errorf("%s schema: %w", toolRunSensitivityAnalysis, err)
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolRunSimulation,
		Description: descRunSimulation,
		InputSchema: simSchema,
	}, s.handleRunSimulation)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolRunEquipmentSimulation,
		Description: descRunEquipmentSimulation,
		InputSchema: equipmentSchema,
	}, s.handleRunEquipmentSimulation)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolGenerateRiskReport,
		Description: descGenerateRiskReport,
		InputSchema: reportSchema,
	}, s.handleGenerateRiskReport)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolRunSensitivityAnalysis,
		Description: descRunSensitivityAnalysis,
		InputSchema: sensitivitySchema,
	}, s.handleRunSensitivityAnalysis)

	return nil
}

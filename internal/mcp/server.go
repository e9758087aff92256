package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aeroops/flightcore/internal/engine"
	"github.com/aeroops/flightcore/pkg/types"
)

// Server wraps the MCP SDK server and exposes the simulation engine as tools.
type Server struct {
	sdk *mcpsdk.Server
	eng *engine.Engine
}

// NewServer creates a Server and registers the flightcore tool set.
func NewServer(eng *engine.Engine) *Server {
	s := &Server{
		sdk: mcpsdk.NewServer(&mcpsdk.Implementation{
			Name:    "flightcore",
			Version: "1.0.0",
		}, nil),
		eng: eng,
	}

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "get_flight_state",
		Description: "Returns the full simulated flight state: position, attitude, speeds, fuel, engines, autopilot, emergency status, and active warnings.",
	}, s.handleGetFlightState)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "set_autopilot_target",
		Description: "Engages or disengages the autopilot and sets its altitude, heading, and airspeed targets. Out-of-range targets are clamped and the stored values are returned.",
	}, s.handleSetAutopilotTarget)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "set_flight_controls",
		Description: "Sets manual control inputs (throttle percent, pitch, roll, yaw). They take effect while the autopilot is disengaged.",
	}, s.handleSetFlightControls)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "declare_emergency",
		Description: "Declares an emergency of the given kind (medical, engine, pressurization, or a free-form description) and applies its side effects.",
	}, s.handleDeclareEmergency)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "clear_emergency",
		Description: "Clears any declared emergency and returns the flight to normal operations.",
	}, s.handleClearEmergency)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "evaluate_diversion",
		Description: "Evaluates whether a diversion to the given coordinates is feasible with the current fuel state, returning distance, bearing, time, and fuel required.",
	}, s.handleEvaluateDiversion)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "simulation_control",
		Description: "Controls the simulation lifecycle: pause, resume, or reset to initial conditions.",
	}, s.handleSimulationControl)

	return s
}

// Run starts the MCP server over stdio and blocks until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.sdk.Run(ctx, &mcpsdk.StdioTransport{})
}

// Connect connects the server to an existing transport (used in tests).
func (s *Server) Connect(ctx context.Context, t mcpsdk.Transport) (*mcpsdk.ServerSession, error) {
	return s.sdk.Connect(ctx, t, nil)
}

// FlightStateResponse is the JSON payload returned by get_flight_state.
type FlightStateResponse struct {
	FlightID  string            `json:"flight_id"`
	RunState  string            `json:"run_state"`
	State     types.FlightState `json:"state"`
	Timestamp string            `json:"timestamp"`
}

type getFlightStateInput struct{}

func (s *Server) handleGetFlightState(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input getFlightStateInput,
) (*mcpsdk.CallToolResult, any, error) {
	resp := FlightStateResponse{
		FlightID:  s.eng.FlightID().String(),
		RunState:  s.eng.RunState().String(),
		State:     s.eng.Snapshot(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	return textResult(resp)
}

// setAutopilotInput holds arguments for the set_autopilot_target tool.
type setAutopilotInput struct {
	Engaged    bool    `json:"engaged"`
	AltitudeFt float64 `json:"altitude_ft"`
	HeadingDeg float64 `json:"heading_deg"`
	AirspeedKt float64 `json:"airspeed_kt"`
}

func (s *Server) handleSetAutopilotTarget(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input setAutopilotInput,
) (*mcpsdk.CallToolResult, any, error) {
	stored := s.eng.SetAutopilotTarget(types.AutopilotTarget{
		Engaged:    input.Engaged,
		AltitudeFt: input.AltitudeFt,
		HeadingDeg: input.HeadingDeg,
		AirspeedKt: input.AirspeedKt,
	})
	return textResult(stored)
}

// setControlsInput holds arguments for the set_flight_controls tool.
type setControlsInput struct {
	ThrottlePct float64 `json:"throttle_pct"`
	Pitch       float64 `json:"pitch"`
	Roll        float64 `json:"roll"`
	Yaw         float64 `json:"yaw"`
}

func (s *Server) handleSetFlightControls(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input setControlsInput,
) (*mcpsdk.CallToolResult, any, error) {
	stored := s.eng.SetManualControls(types.ControlInputs{
		ThrottlePct: input.ThrottlePct,
		Pitch:       input.Pitch,
		Roll:        input.Roll,
		Yaw:         input.Yaw,
	})
	return textResult(stored)
}

// declareEmergencyInput holds arguments for the declare_emergency tool.
type declareEmergencyInput struct {
	Kind string `json:"kind"`
}

func (s *Server) handleDeclareEmergency(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input declareEmergencyInput,
) (*mcpsdk.CallToolResult, any, error) {
	if input.Kind == "" {
		return errorResult(errors.New("kind is required")), nil, nil
	}
	status := s.eng.DeclareEmergency(types.ParseEmergencyKind(input.Kind))
	return textResult(status)
}

type clearEmergencyInput struct{}

func (s *Server) handleClearEmergency(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input clearEmergencyInput,
) (*mcpsdk.CallToolResult, any, error) {
	s.eng.ClearEmergency()
	return textResult(s.eng.Snapshot().Emergency)
}

// evaluateDiversionInput holds arguments for the evaluate_diversion tool.
type evaluateDiversionInput struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (s *Server) handleEvaluateDiversion(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input evaluateDiversionInput,
) (*mcpsdk.CallToolResult, any, error) {
	res, err := s.eng.EvaluateDiversion(types.DiversionQuery{
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	})
	if err != nil {
		return errorResult(err), nil, nil
	}
	return textResult(res)
}

// simulationControlInput holds arguments for the simulation_control tool.
type simulationControlInput struct {
	Action string `json:"action"`
}

// SimulationControlResponse reports the run state after a lifecycle action.
type SimulationControlResponse struct {
	Action   string `json:"action"`
	RunState string `json:"run_state"`
	FlightID string `json:"flight_id"`
}

func (s *Server) handleSimulationControl(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input simulationControlInput,
) (*mcpsdk.CallToolResult, any, error) {
	switch input.Action {
	case "pause":
		s.eng.Pause()
	case "resume":
		s.eng.Resume()
	case "reset":
		s.eng.Reset()
	default:
		return errorResult(fmt.Errorf("unknown action %q: want pause, resume, or reset", input.Action)), nil, nil
	}
	return textResult(SimulationControlResponse{
		Action:   input.Action,
		RunState: s.eng.RunState().String(),
		FlightID: s.eng.FlightID().String(),
	})
}

// ToolErrorResponse is returned when a tool call cannot be served.
type ToolErrorResponse struct {
	Error       string `json:"error"`
	Code        string `json:"code"`
	Recoverable bool   `json:"recoverable"`
	Suggestion  string `json:"suggestion"`
	Timestamp   string `json:"timestamp"`
}

func textResult(v any) (*mcpsdk.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil, nil
}

func errorResult(err error) *mcpsdk.CallToolResult {
	resp := ToolErrorResponse{
		Error:     err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	switch {
	case errors.Is(err, types.ErrPrecondition):
		resp.Code = "PRECONDITION_FAILED"
		resp.Recoverable = true
		resp.Suggestion = "Wait for the flight to have valid position, ground speed, and fuel flow, then retry."
	default:
		resp.Code = "INVALID_ARGUMENT"
		resp.Recoverable = true
		resp.Suggestion = "Check the tool arguments and retry."
	}

	data, _ := json.Marshal(resp)
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
		IsError: true,
	}
}

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/transducer"
	"github.com/aretw0/transducer/internal/logging"
	"github.com/aretw0/transducer/internal/presentation/graph"
	"github.com/aretw0/transducer/pkg/definition"
	"github.com/aretw0/transducer/pkg/domain"
	"github.com/aretw0/transducer/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// InterpretResult is the structured output of the interpret tool.
type InterpretResult struct {
	Machine string   `json:"machine,omitempty" jsonschema_description:"Name of the machine that ran"`
	Output  string   `json:"output" jsonschema_description:"Translated sequence, one symbol per input symbol"`
	Steps   []string `json:"steps,omitempty" jsonschema_description:"One line per step when trace is set"`
}

// ValidateResult is the structured output of the validate tool.
type ValidateResult struct {
	Valid  bool     `json:"valid" jsonschema_description:"Whether the table can be interpreted"`
	Errors []string `json:"errors,omitempty" jsonschema_description:"Every problem found"`
}

// Server exposes registered machines as MCP tools.
type Server struct {
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger. Never point it at stdout when serving stdio.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		sessions:  sessions,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("fst-mcp", transducer.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on addr using SSE until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: interpret
	interpretTool := mcp.NewTool("interpret",
		mcp.WithDescription("Translate an input sequence with a finite-state transducer. Uses a registered machine, or the inline definition when given."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Input sequence; every character is one symbol")),
		mcp.WithString("machine", mcp.Description("Name of a registered machine (optional when exactly one is registered)")),
		mcp.WithString("definition", mcp.Description("Inline table definition in YAML, JSON or text format (optional)")),
		mcp.WithString("format", mcp.Description("Format of the inline definition: yaml, json or text (default yaml)")),
		mcp.WithBoolean("trace", mcp.Description("Return every step taken")),
		mcp.WithOutputSchema[InterpretResult](),
	)
	s.mcpServer.AddTool(interpretTool, mcp.NewStructuredToolHandler(s.handleInterpret))

	// TOOL: validate
	validateTool := mcp.NewTool("validate",
		mcp.WithDescription("Check whether a transition table can be interpreted: no rules to undeclared states and no missing inputs."),
		mcp.WithString("machine", mcp.Description("Name of a registered machine")),
		mcp.WithString("definition", mcp.Description("Inline table definition (optional)")),
		mcp.WithString("format", mcp.Description("Format of the inline definition: yaml, json or text (default yaml)")),
		mcp.WithOutputSchema[ValidateResult](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: graph
	s.mcpServer.AddTool(mcp.NewTool("graph",
		mcp.WithDescription("Render a machine as a Mermaid state diagram."),
		mcp.WithString("machine", mcp.Description("Name of a registered machine")),
	), s.handleGraph)

	// TOOL: list_machines
	s.mcpServer.AddTool(mcp.NewTool("list_machines",
		mcp.WithDescription("List the registered machines."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.sessions.Names())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) registerResources() {
	// EXPOSE: fst://machines
	s.mcpServer.AddResource(mcp.NewResource("fst://machines", "Registered machine definitions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		defs := make([]*definition.Definition, 0)
		for _, name := range s.sessions.Names() {
			if m, ok := s.sessions.Get(name); ok {
				defs = append(defs, export(name, m))
			}
		}
		jsonBytes, err := json.Marshal(defs)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "fst://machines",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func export(name string, m *transducer.Machine) *definition.Definition {
	var start *int
	if st, ok := m.Start(); ok {
		start = &st
	}
	return definition.FromTable(name, m.Table(), start)
}

// resolve picks the machine a tool call refers to: an inline definition, a
// named machine, or the only registered one.
func (s *Server) resolve(args map[string]interface{}) (*transducer.Machine, string, error) {
	if raw, _ := args["definition"].(string); raw != "" {
		format := definition.FormatYAML
		if f, _ := args["format"].(string); f != "" {
			var err error
			if format, err = definition.ParseFormat(f); err != nil {
				return nil, "", err
			}
		}
		def, err := definition.Parse([]byte(raw), format)
		if err != nil {
			return nil, "", err
		}
		m, err := transducer.FromDefinition(def, transducer.WithLogger(s.logger))
		return m, def.Name, err
	}

	name, _ := args["machine"].(string)
	if name == "" {
		names := s.sessions.Names()
		if len(names) != 1 {
			return nil, "", fmt.Errorf("machine is required when %d machines are registered", len(names))
		}
		name = names[0]
	}
	m, ok := s.sessions.Get(name)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", session.ErrMachineNotFound, name)
	}
	return m, name, nil
}

func (s *Server) handleInterpret(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (InterpretResult, error) {
	input, _ := args["input"].(string)
	trace, _ := args["trace"].(bool)

	m, name, err := s.resolve(args)
	if err != nil {
		return InterpretResult{}, err
	}

	var steps []domain.Step
	if inline, _ := args["definition"].(string); inline != "" {
		steps, err = m.Trace(input)
	} else {
		steps, err = s.sessions.Trace(ctx, name, input)
	}
	if err != nil {
		s.logger.Warn("MCP Interpret: failed", "machine", name, "err", err)
		return InterpretResult{}, fmt.Errorf("interpret failed: %w", err)
	}

	out := make([]rune, len(steps))
	res := InterpretResult{Machine: name}
	for i, st := range steps {
		out[i] = st.Output
		if trace {
			res.Steps = append(res.Steps, fmt.Sprintf("%d: %d --%c/%c--> %d", st.Position, st.State, st.Input, st.Output, st.NextState))
		}
	}
	res.Output = string(out)
	return res, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidateResult, error) {
	m, _, err := s.resolve(args)
	if err != nil {
		var aggr *definition.AggregateError
		if errors.As(err, &aggr) || errors.Is(err, domain.ErrNonDeterministicTransition) {
			return ValidateResult{Valid: false, Errors: messages(err)}, nil
		}
		return ValidateResult{}, err
	}
	if err := m.Validate(); err != nil {
		return ValidateResult{Valid: false, Errors: []string{err.Error()}}, nil
	}
	return ValidateResult{Valid: true}, nil
}

func messages(err error) []string {
	if errs := definition.Errors(err); errs != nil {
		out := make([]string, len(errs))
		for i, e := range errs {
			out[i] = e.Error()
		}
		return out
	}
	return []string{err.Error()}
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, _, err := s.resolve(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var start *int
	if st, ok := m.Start(); ok {
		start = &st
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(m.Table(), start, nil)), nil
}

package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-form-export/internal/config"
	"github.com/a3tai/mcp-form-export/internal/descriptions"
	"github.com/a3tai/mcp-form-export/internal/med"
	"github.com/a3tai/mcp-form-export/internal/service"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *service.Service
	mcpServer *server.MCPServer
	logger    *zap.Logger

	// stdio streams, replaced in tests
	stdin  io.Reader
	stdout io.Writer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, svc *service.Service, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if svc == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &Server{
		config:    cfg,
		service:   svc,
		mcpServer: mcpServer,
		logger:    logger,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
	}
	s.registerTools()
	return s, nil
}

func formArguments() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("path",
			mcp.Description("Form file, relative to the form directory"),
		),
		mcp.WithString("markup",
			mcp.Description("Inline form markup, used when path is empty"),
		),
		mcp.WithObject("values",
			mcp.Description("Field values by control name; a list for checkbox groups"),
		),
		mcp.WithString("root_id",
			mcp.Description("Id of the form element, instead of the configured root class"),
		),
	}
}

func medArguments() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("name", mcp.Description("Suspect name")),
		mcp.WithString("mail", mcp.Description("Suspect email")),
		mcp.WithString("objects", mcp.Description("Seized personal belongings")),
		mcp.WithString("agents", mcp.Description("Closing agents")),
		mcp.WithArray("facts",
			mcp.Description("Selected facts"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("facts_text", mcp.Description("Free text facts, used when the list is empty")),
		mcp.WithString("id", mcp.Description("Unique identifier of the individual")),
		mcp.WithString("med_link", mcp.Description("Link to the M.E.D record")),
		mcp.WithString("matricule", mcp.Description("Agent registration number")),
		mcp.WithString("poste", mcp.Description("Station")),
		mcp.WithBoolean("copy", mcp.Description("Copy the summary to the clipboard")),
	}
}

func tool(name string, opts ...mcp.ToolOption) mcp.Tool {
	return mcp.NewTool(name, append([]mcp.ToolOption{
		mcp.WithDescription(descriptions.GetToolDescription(name)),
	}, opts...)...)
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(tool(descriptions.FormPreview, formArguments()...), s.handleFormPreview)

	exportArgs := append(formArguments(),
		mcp.WithString("name", mcp.Description("Overrides the form's name field in the file name")),
		mcp.WithString("id", mcp.Description("Overrides the form's identifier field in the file name")),
	)
	s.mcpServer.AddTool(tool(descriptions.FormExportPDF, exportArgs...), s.handleFormExportPDF)

	s.mcpServer.AddTool(tool(descriptions.MEDBuild, medArguments()...), s.handleMEDBuild)
	s.mcpServer.AddTool(tool(descriptions.MEDRightsNotice, medArguments()...), s.handleMEDRightsNotice)
	s.mcpServer.AddTool(tool(descriptions.MEDLast), s.handleMEDLast)

	s.mcpServer.AddTool(tool(descriptions.PsySummary,
		mcp.WithArray("selected",
			mcp.Description("Disorder names to summarise"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithBoolean("copy", mcp.Description("Copy the plain text summary to the clipboard")),
	), s.handlePsySummary)

	s.mcpServer.AddTool(tool(descriptions.PDFInspectExport,
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Exported PDF, relative to the export directory"),
		),
	), s.handlePDFInspectExport)

	s.mcpServer.AddTool(tool(descriptions.FormServerInfo), s.handleFormServerInfo)
}

// Argument helpers

func formRequest(request mcp.CallToolRequest) (service.FormRequest, error) {
	req := service.FormRequest{
		Path:   request.GetString("path", ""),
		Markup: request.GetString("markup", ""),
		RootID: request.GetString("root_id", ""),
	}
	values, err := formValues(request.GetArguments()["values"])
	if err != nil {
		return req, err
	}
	req.Values = values
	return req, nil
}

func formValues(raw any) (url.Values, error) {
	if raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New("values must be an object")
	}
	values := url.Values{}
	for name, v := range m {
		switch v := v.(type) {
		case string:
			values.Add(name, v)
		case bool:
			if v {
				values.Add(name, "on")
			} else {
				values[name] = []string{}
			}
		case float64:
			values.Add(name, strconv.FormatFloat(v, 'f', -1, 64))
		case []any:
			values[name] = []string{}
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("values.%s must hold strings", name)
				}
				values.Add(name, s)
			}
		default:
			return nil, fmt.Errorf("unsupported value for %s", name)
		}
	}
	return values, nil
}

func medRequest(request mcp.CallToolRequest) service.MEDRequest {
	return service.MEDRequest{
		Input: med.Input{
			Name:       request.GetString("name", ""),
			Mail:       request.GetString("mail", ""),
			Objects:    request.GetString("objects", ""),
			Agents:     request.GetString("agents", ""),
			Facts:      request.GetStringSlice("facts", nil),
			FactsText:  request.GetString("facts_text", ""),
			ProvidedID: request.GetString("id", ""),
			MEDLink:    request.GetString("med_link", ""),
			Matricule:  request.GetString("matricule", ""),
			Poste:      request.GetString("poste", ""),
		},
		Copy: request.GetBool("copy", false),
	}
}

// Handler functions

func (s *Server) handleFormPreview(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := formRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := s.service.Preview(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleFormExportPDF(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := formRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.service.Export(ctx, service.ExportRequest{
		FormRequest: req,
		Name:        request.GetString("name", ""),
		ID:          request.GetString("id", ""),
	})
	if err != nil {
		s.logger.Warn("Export failed", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatExportResult(res)), nil
}

func (s *Server) handleMEDBuild(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.service.BuildMED(medRequest(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(res.Text + formatCopy(res.Copy)), nil
}

func (s *Server) handleMEDRightsNotice(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.service.RightsNotice(medRequest(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(res.Text + "\n\n" + res.Summary.Text + formatCopy(res.Copy)), nil
}

func (s *Server) handleMEDLast(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	meta, err := s.service.LastMED()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMeta(meta)), nil
}

func (s *Server) handlePsySummary(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.service.PsySummary(request.GetStringSlice("selected", nil), request.GetBool("copy", false))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(res.Text + formatCopy(res.Copy)), nil
}

func (s *Server) handlePDFInspectExport(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.service.Inspect(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !res.Valid {
		return mcp.NewToolResultText(fmt.Sprintf("PDF validation failed for %s: %s", res.Path, res.Message)), nil
	}
	text := fmt.Sprintf("PDF file %s is valid and readable\n", res.Path)
	text += fmt.Sprintf("Pages: %d\n", res.Pages)
	text += fmt.Sprintf("Size: %d bytes\n", res.Size)
	text += fmt.Sprintf("Content Type: %s\n", res.ContentType)
	text += fmt.Sprintf("Image Count: %d\n", res.ImageCount)
	if res.Content != "" {
		text += "\nContent:\n" + res.Content
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleFormServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(formatInfo(s.service.Info())), nil
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode serves the protocol on stdin/stdout until ctx is done or
// stdin closes
func (s *Server) runStdioMode(ctx context.Context) error {
	s.logger.Debug("Starting form export MCP server in stdio mode",
		zap.String("forms", s.config.FormDirectory),
		zap.String("exports", s.config.OutputDirectory))

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))
	if err := stdio.Listen(ctx, s.stdin, s.stdout); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves the protocol over SSE on the configured address
// until ctx is done
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))
	srv := &http.Server{
		Addr:              addr,
		Handler:           sse,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("Form export MCP server listening", zap.String("address", addr))

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	// SSE streams stay open until their sessions end
	if err := sse.Shutdown(shutdownCtx); err != nil {
		s.logger.Debug("SSE shutdown", zap.Error(err))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve http: %w", err)
	}
	return nil
}

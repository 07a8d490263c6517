package vertexclient

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"cloud.google.com/go/vertexai/genai"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
)

type Adapter struct {
	client *genai.Client
	model  string
	log    *slog.Logger
}

func NewAdapter(ctx context.Context, log *slog.Logger, projectID, region, model string) (*Adapter, error) {
	client, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		client: client,
		model:  model,
		log:    log,
	}, nil
}

func (a *Adapter) Close() error {
	err := a.client.Close()
	if err != nil && a.log != nil {
		a.log.Error("vertex adapter close failed", "error", err)
	}
	return err
}

func (a *Adapter) Generate(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error) {
	out := dto.VertexGenerateResponse{}
	if req.Prompt == "" {
		return out, fmt.Errorf("vertex generate request has no prompt")
	}

	model := a.client.GenerativeModel(a.model)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}
	if req.Temperature != nil {
		model.SetTemperature(*req.Temperature)
	}
	if req.MaxOutputTokens != nil {
		model.SetMaxOutputTokens(*req.MaxOutputTokens)
	}
	if req.Function != nil {
		model.Tools = []*genai.Tool{{FunctionDeclarations: []*genai.FunctionDeclaration{toDeclaration(req.Function)}}}
		model.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode:                 genai.FunctionCallingAny,
				AllowedFunctionNames: []string{req.Function.Name},
			},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return out, err
	}

	out.Text, out.Args = parseResponse(resp)
	return out, nil
}

func parseResponse(resp *genai.GenerateContentResponse) (string, map[string]any) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", nil
	}

	var text string
	var args map[string]any
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			switch p := part.(type) {
			case genai.Text:
				text += string(p)
			case genai.FunctionCall:
				if args == nil {
					args = p.Args
				}
			case *genai.FunctionCall:
				if args == nil {
					args = p.Args
				}
			}
		}
	}

	return text, args
}

func toDeclaration(fn *dto.VertexFunction) *genai.FunctionDeclaration {
	schema := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(fn.Params)),
	}

	names := make([]string, 0, len(fn.Params))
	for name := range fn.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		schema.Properties[name] = &genai.Schema{Type: genai.TypeString, Enum: fn.Params[name]}
		schema.Required = append(schema.Required, name)
	}

	return &genai.FunctionDeclaration{
		Name:        fn.Name,
		Description: fn.Description,
		Parameters:  schema,
	}
}

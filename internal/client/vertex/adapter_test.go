package vertexclient

import (
	"testing"

	"cloud.google.com/go/vertexai/genai"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
)

func TestToDeclaration(t *testing.T) {
	decl := toDeclaration(&dto.VertexFunction{
		Name:        "record_category",
		Description: "records the category",
		Params:      map[string][]string{"category": {"food", "other"}, "reason": nil},
	})

	if decl.Name != "record_category" {
		t.Fatalf("unexpected name %q", decl.Name)
	}
	if decl.Parameters.Type != genai.TypeObject {
		t.Fatalf("expected object schema, got %v", decl.Parameters.Type)
	}
	cat := decl.Parameters.Properties["category"]
	if cat == nil || len(cat.Enum) != 2 {
		t.Fatalf("expected category enum, got %+v", cat)
	}
	if len(decl.Parameters.Required) != 2 || decl.Parameters.Required[0] != "category" {
		t.Fatalf("expected sorted required params, got %v", decl.Parameters.Required)
	}
}

func TestParseResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{
				genai.Text("picked "),
				genai.FunctionCall{Name: "record_category", Args: map[string]any{"category": "food"}},
				genai.Text("food"),
			}}},
		},
	}

	text, args := parseResponse(resp)
	if text != "picked food" {
		t.Fatalf("unexpected text %q", text)
	}
	if args["category"] != "food" {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestParseResponse_Empty(t *testing.T) {
	text, args := parseResponse(nil)
	if text != "" || args != nil {
		t.Fatalf("expected empty result, got %q %v", text, args)
	}
}

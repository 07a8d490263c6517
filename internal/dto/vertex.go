package dto

type VertexGenerateRequest struct {
	System          string
	Prompt          string
	Function        *VertexFunction // when set the model is forced to answer through it
	Temperature     *float32
	MaxOutputTokens *int32
}

type VertexGenerateResponse struct {
	Text string
	Args map[string]any // arguments of the forced function call, if the model made one
}

type VertexFunction struct {
	Name        string
	Description string
	// string parameters keyed by name; a non-empty enum restricts the allowed values
	Params map[string][]string
}

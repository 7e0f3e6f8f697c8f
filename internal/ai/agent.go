package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"mandi-billing/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

type AgentService interface {
	InterpretEntry(ctx context.Context, naturalLanguage string, partyDirectory string) (*core.AssistantResponse, error)
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

// InterpretEntry turns a natural-language note ("sold 40kg tomato to
// Venkatesh for 1200, cash") into a structured transaction proposal, or a
// clarification request when the note is ambiguous.
func (a *Agent) InterpretEntry(ctx context.Context, naturalLanguage string, partyDirectory string) (*core.AssistantResponse, error) {
	prompt := fmt.Sprintf(`You are a bookkeeper for a vegetable wholesale business.
Your goal is to interpret a billing event described in natural language and propose one transaction.
Rules:
1. kind is exactly one of Sale (to a customer), Purchase (from a supplier), Payment.
2. party_id MUST come from the party directory below.
3. amount must be an exact positive decimal string (e.g. "1200.00").
4. date is YYYY-MM-DD; use today's date if unspecified.
5. If the party or amount cannot be determined, return a clarification request instead.
6. Provide a confidence score (0.0-1.0) and explain your reasoning.

Party directory:
%s

Event: %s`, partyDirectory, naturalLanguage)

	// Dynamically generate the JSON schema from the Go struct
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "transaction_proposal",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A proposed billing transaction or a clarification request"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var response core.AssistantResponse
	if err := json.Unmarshal([]byte(content), &response); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	if response.IsClarificationRequest {
		if response.Clarification == nil {
			return nil, fmt.Errorf("clarification flagged but no message returned")
		}
		return &response, nil
	}

	if response.Proposal == nil {
		return nil, fmt.Errorf("no proposal and no clarification returned")
	}
	response.Proposal.Transaction.Normalize()
	if err := response.Proposal.Transaction.Validate(); err != nil {
		return nil, fmt.Errorf("proposal validation failed: %w", err)
	}

	return &response, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v core.AssistantResponse
	return reflector.Reflect(v)
}

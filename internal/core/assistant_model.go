package core

// EntryProposal is the assistant-generated transaction, pending operator
// confirmation before it is appended to the log.
type EntryProposal struct {
	Transaction TransactionInput `json:"transaction" jsonschema_description:"The proposed billing transaction"`
	Confidence  float64          `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0"`
	Reasoning   string           `json:"reasoning" jsonschema_description:"Explanation for the proposed transaction"`
}

// ClarificationRequest is returned when the operator's input is ambiguous or
// missing critical information.
type ClarificationRequest struct {
	Message string `json:"message" jsonschema_description:"A message asking the operator for missing details (e.g. the party or the amount)."`
}

// AssistantResponse wraps the assistant output to branch between a proposal
// and a clarification request. Exactly one of the two is set.
type AssistantResponse struct {
	IsClarificationRequest bool                  `json:"is_clarification_request" jsonschema_description:"Set to true ONLY if you lack enough information to create a confident proposal."`
	Clarification          *ClarificationRequest `json:"clarification,omitempty" jsonschema_description:"Required if is_clarification_request is true."`
	Proposal               *EntryProposal        `json:"proposal,omitempty" jsonschema_description:"Required if is_clarification_request is false."`
}

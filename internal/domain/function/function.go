package function

// EventType is the platform event that delivers a function invocation.
const EventType = "function_executed"

// Callback ids served by this app.
const (
	CallbackFilters = "filters"
	CallbackSearch  = "search"
)

// Output keys of the served functions.
const (
	OutputFilters      = "filters"
	OutputSearchResult = "search_result"
)

// Definition identifies the invoked function.
type Definition struct {
	ID         string `json:"id"`
	CallbackID string `json:"callback_id"`
	Title      string `json:"title"`
}

// Execution is one function invocation delivered by the platform.
type Execution struct {
	Type                string         `json:"type"`
	Function            Definition     `json:"function"`
	Inputs              map[string]any `json:"inputs"`
	FunctionExecutionID string         `json:"function_execution_id"`
	WorkflowExecutionID string         `json:"workflow_execution_id"`
	EventTS             string         `json:"event_ts"`
	BotAccessToken      string         `json:"bot_access_token,omitempty"`
}

// CallbackID returns the callback id of the invoked function.
func (e *Execution) CallbackID() string { return e.Function.CallbackID }

// Outputs is the result object reported on successful completion.
type Outputs map[string]any

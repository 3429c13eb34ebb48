package details

// EventType is the platform event that asks for entity details.
const EventType = "entity_details_requested"

// EntityType is the platform entity type used in presentation payloads.
const EntityType = "slack#/entities/item"

// TitleMaxLength is the edit limit advertised for the title attribute.
const TitleMaxLength = 50

// Link is the unfurled link that triggered the request.
type Link struct {
	URL    string `json:"url"`
	Domain string `json:"domain"`
}

// ExternalRef identifies the referenced entity in the app's own terms.
type ExternalRef struct {
	ID   string  `json:"id"`
	Type *string `json:"type,omitempty"`
}

// Event is the inbound "entity details requested" notification.
type Event struct {
	Type        string      `json:"type"`
	User        string      `json:"user"`
	ExternalRef ExternalRef `json:"external_ref"`
	TriggerID   string      `json:"trigger_id"`
	Link        Link        `json:"link"`
}

// Placeholder is the static content presented for every entity.
type Placeholder struct {
	Title       string
	Description string
}

// DefaultPlaceholder returns the stock placeholder content.
func DefaultPlaceholder() Placeholder {
	return Placeholder{Title: "hello world", Description: "This is a description"}
}

// Payload is the body of the presentDetails call.
type Payload struct {
	TriggerID string   `json:"trigger_id"`
	Metadata  Metadata `json:"metadata"`
}

// Metadata describes the entity being presented.
type Metadata struct {
	EntityType    string        `json:"entity_type"`
	URL           string        `json:"url"`
	ExternalRef   ExternalRef   `json:"external_ref"`
	EntityPayload EntityPayload `json:"entity_payload"`
}

// EntityPayload carries the rendered attributes and custom fields.
type EntityPayload struct {
	Attributes   Attributes    `json:"attributes"`
	CustomFields []CustomField `json:"custom_fields"`
}

// Attributes holds the standard entity attributes.
type Attributes struct {
	Title Title `json:"title"`
}

// Title is the editable title attribute.
type Title struct {
	Text string    `json:"text"`
	Edit TitleEdit `json:"edit"`
}

// TitleEdit advertises title editing.
type TitleEdit struct {
	Enabled bool          `json:"enabled"`
	Text    TitleEditText `json:"text"`
}

// TitleEditText constrains the edited title.
type TitleEditText struct {
	MaxLength int `json:"max_length"`
}

// CustomField is an app-defined field shown with the entity.
type CustomField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Build assembles the presentation payload for an event.
// Content comes from the placeholder only; the referenced entity is not looked up.
func Build(ev *Event, p Placeholder) Payload {
	return Payload{
		TriggerID: ev.TriggerID,
		Metadata: Metadata{
			EntityType:  EntityType,
			URL:         ev.Link.URL,
			ExternalRef: ExternalRef{ID: ev.ExternalRef.ID},
			EntityPayload: EntityPayload{
				Attributes: Attributes{
					Title: Title{
						Text: p.Title,
						Edit: TitleEdit{Enabled: true, Text: TitleEditText{MaxLength: TitleMaxLength}},
					},
				},
				CustomFields: []CustomField{
					{Key: "description", Label: "Description", Type: "string", Value: p.Description},
				},
			},
		},
	}
}

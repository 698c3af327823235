package models

// EventType names an occurrence in the client application that can fire triggers.
type EventType string

const (
	EventPageOpened           EventType = "page_opened"
	EventButtonClicked        EventType = "button_clicked"
	EventManualTriggerInPopup EventType = "manual_trigger_in_popup"
)

func (e EventType) Valid() bool {
	switch e {
	case EventPageOpened, EventButtonClicked, EventManualTriggerInPopup:
		return true
	}
	return false
}

// TriggerSource identifies the automation platform a trigger was registered from.
type TriggerSource string

const (
	SourceN8N    TriggerSource = "n8n"
	SourceZapier TriggerSource = "zapier"
)

func (s TriggerSource) Valid() bool {
	return s == SourceN8N || s == SourceZapier
}

// EventContext is the payload the client sends alongside an event. A non-empty
// TriggerID pins the event to one specific trigger instead of event matching.
type EventContext struct {
	URL         string `json:"url,omitempty"`
	TriggerID   string `json:"trigger_id,omitempty"`
	HTMLContent string `json:"html_content,omitempty"`
}

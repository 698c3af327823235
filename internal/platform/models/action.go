package models

import (
	"encoding/json"
	"fmt"
)

// Action is a UI directive a webhook returns for the client to execute.
// The Type discriminator selects which params variant applies; Params stays
// raw until DecodeParams resolves it.
type Action struct {
	Type   ActionType      `json:"type"`
	Params json.RawMessage `json:"params"`
}

type ActionType string

const (
	ActionShowAlert    ActionType = "show_alert"
	ActionShowConsole  ActionType = "show_console"
	ActionInjectScript ActionType = "inject_script"
	ActionInsertButton ActionType = "insert_button"
)

type ShowAlertParams struct {
	Message string `json:"message"`
}

type ShowConsoleParams struct {
	Message string `json:"message"`
}

type InjectScriptParams struct {
	Script string `json:"script"`
}

type ButtonParams struct {
	ID                            string `json:"id"`
	Label                         string `json:"label"`
	Variant                       string `json:"variant"` // primary, secondary, success, danger, warning
	Size                          string `json:"size"`    // small, medium, large
	Position                      string `json:"position"`
	AnchorCSSSelector             string `json:"anchorCssSelector,omitempty"`
	PositionToAnchor              string `json:"positionToAnchor,omitempty"`
	NthChildIndex                 int    `json:"nthChildIndex,omitempty"`
	ApplyOnAllCSSSelectorMatches  bool   `json:"applyOnAllCssSelectorMatches,omitempty"`
	CustomHTML                    string `json:"customHtml,omitempty"`
	CustomCSS                     string `json:"customCss,omitempty"`
	AnchorCustomCSS               string `json:"anchorCustomCss,omitempty"`
}

type InsertButtonParams struct {
	Button       ButtonParams `json:"button"`
	ButtonAction string       `json:"buttonAction"` // launch_trigger
	TriggerID    string       `json:"triggerId,omitempty"`
}

// DecodeParams resolves Params into the variant matching Type. Unknown types
// and malformed params are errors; the callback path relies on this to reject
// bad payloads before anything reaches the push bridge.
func (a Action) DecodeParams() (interface{}, error) {
	switch a.Type {
	case ActionShowAlert:
		var p ShowAlertParams
		return decodeParams(a.Params, &p)
	case ActionShowConsole:
		var p ShowConsoleParams
		return decodeParams(a.Params, &p)
	case ActionInjectScript:
		var p InjectScriptParams
		return decodeParams(a.Params, &p)
	case ActionInsertButton:
		var p InsertButtonParams
		return decodeParams(a.Params, &p)
	}
	return nil, fmt.Errorf("unknown action type %q", a.Type)
}

func (a Action) Validate() error {
	_, err := a.DecodeParams()
	return err
}

func decodeParams(raw json.RawMessage, dst interface{}) (interface{}, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("action params missing")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, fmt.Errorf("invalid action params: %w", err)
	}
	return dst, nil
}

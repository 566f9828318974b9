package main

import (
	"encoding/json"
	"fmt"
)

// renderJSON renders a broker API result as indented JSON, the textual
// form every read tool hands back to the MCP client. Values JSON cannot
// represent fall back to Go's value syntax.
func renderJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}

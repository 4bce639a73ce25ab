package command

import (
	"fmt"

	"go-reliefdesk/types"
)

const promptTemplate = `You are a helpful AI assistant for a disaster relief dashboard.
- When asked to update a single resource, respond ONLY with:
[ACTION] UPDATE_RESOURCE(resourceName: "resource name", newQuantity: number)
- When asked to update all resources to the same quantity, respond ONLY with:
[ACTION] UPDATE_ALL_RESOURCES(newQuantity: number)
Otherwise, answer normally.

Active Disaster: %s
Resources: %s
Volunteers: %d

User: %s`

// BuildPrompt wraps the user's text with the dashboard context and the action format.
func BuildPrompt(active *types.Disaster, volunteers int, userText string) string {
	name := "None"
	resources := "None"
	if active != nil {
		if n := active.DisplayName(); n != "" {
			name = n
		}
		resources = types.FormatResources(active.Resources)
	}
	return fmt.Sprintf(promptTemplate, name, resources, volunteers, userText)
}

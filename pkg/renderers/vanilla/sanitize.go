package vanilla

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	promptPolicyOnce sync.Once
	promptPolicy     *bluemonday.Policy

	echoPolicyOnce sync.Once
	echoPolicy     *bluemonday.Policy
)

// sanitizePrompt keeps the light inline formatting question authors may use
// in prompts and drops everything else.
func sanitizePrompt(raw string) string {
	promptPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("b", "strong", "i", "em", "u", "br", "small")
		policy.AllowAttrs("class").OnElements("span")
		policy.AllowElements("span")
		promptPolicy = policy
	})
	return strings.TrimSpace(promptPolicy.Sanitize(raw))
}

// sanitizeEcho strips all markup from participant text before it is shown
// back inside a textarea. The result is unescaped again because the template
// engine escapes on output.
func sanitizeEcho(raw string) string {
	echoPolicyOnce.Do(func() {
		echoPolicy = bluemonday.StrictPolicy()
	})
	return html.UnescapeString(echoPolicy.Sanitize(raw))
}

package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formwalk/pkg/flow"
	"github.com/goliatone/go-formwalk/pkg/walker"
)

// User-facing messages for the errors a participant can trigger.
const (
	MessageEmptyResponse = "Por favor cuéntanos cómo estuvo tu día."
	MessageNoAnswer      = "Selecciona o escribe una respuesta para continuar."
	MessageInvalidAnswer = "La respuesta no es válida para esta pregunta."
	MessageWrongStage    = "Este paso ya no está disponible."
	MessageUnexpected    = "No pudimos guardar tu respuesta. Inténtalo de nuevo."
)

// Message maps a flow or walker error to the text shown to the participant.
// Nil maps to "".
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, flow.ErrEmptyResponse):
		return MessageEmptyResponse
	case errors.Is(err, walker.ErrNoAnswer):
		return MessageNoAnswer
	case errors.Is(err, walker.ErrInvalidAnswer), errors.Is(err, walker.ErrExtraNotAllowed):
		return MessageInvalidAnswer
	case errors.Is(err, flow.ErrWrongStage), errors.Is(err, walker.ErrCompleted):
		return MessageWrongStage
	default:
		return MessageUnexpected
	}
}

// MergeFormErrors concatenates message lists, trimming blanks and dropping
// duplicates while keeping order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)

	out := make([]string, 0, len(combined))
	seen := make(map[string]struct{}, len(combined))
	for _, message := range combined {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

package question

// Default returns the built-in daily check-in questions. A fresh copy is
// returned on every call.
func Default() []Question {
	return []Question{
		{
			ID:      "mood",
			Prompt:  "¿Cómo te sientes hoy?",
			Type:    TypeEmoji,
			Choices: []string{"😊", "😔", "😠", "😯", "😟"},
		},
		{
			ID:     "sleep",
			Prompt: "¿Cómo dormiste hoy?",
			Type:   TypeScale,
			Min:    1,
			Max:    3,
			Labels: map[int]string{
				1: "Mal",
				2: "Regular",
				3: "Bien",
			},
			AllowExtra: true,
		},
		{
			ID:     "notes",
			Prompt: "¿Qué fue lo más relevante de tu día?",
			Type:   TypeText,
		},
	}
}

package flow

// Copy shown around the questions.
const (
	Title            = "App Emociones & Bienestar"
	GreetingPrompt   = "¡Hola! Qué gusto tenerte aquí hoy. Cuéntame, ¿cómo estuvo tu día?"
	GreetingHint     = "Describe tu día..."
	QuestionsIntro   = "Ahora completa las siguientes preguntas:"
	ExtraPrompt      = "Información adicional (opcional)"
	ExtraPlaceholder = "Cuéntanos más..."
	ThanksTitle      = "¡Gracias por completar el formulario!"
	ThanksBody       = "Tu información ha sido registrada. ¡Que tengas un excelente día!"

	LabelContinue = "Guardar y Continuar"
	LabelNext     = "Siguiente"
	LabelFinish   = "Finalizar"
)

// SubmitLabel returns the button label for the current position.
func (f *Flow) SubmitLabel() string {
	switch f.stage {
	case StageGreeting:
		return LabelContinue
	case StageQuestions:
		if f.walker != nil && f.walker.IsLast() {
			return LabelFinish
		}
		return LabelNext
	default:
		return ""
	}
}

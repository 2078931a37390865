package telegram

// Bot replies that have no equivalent on the other front-ends.
const (
	CommandStart  = "/start"
	CommandSkip   = "/skip"
	CommandCancel = "/cancel"

	MessageStartHint   = "Escribe /start para comenzar tu registro de hoy."
	MessageSkipHint    = "Escribe /skip para omitir."
	MessageAlreadyDone = "Ya completaste tu registro. Escribe /start para comenzar otro."
	MessageCancelled   = "Registro cancelado. Escribe /start cuando quieras retomarlo."
)

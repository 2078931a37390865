package flow

// Observer receives flow lifecycle events. Implementations must not block.
type Observer interface {
	Started(channel string)
	Stepped(channel, questionID string)
	Finished(channel string)
}

type nopObserver struct{}

func (nopObserver) Started(string) {}

func (nopObserver) Stepped(string, string) {}

func (nopObserver) Finished(string) {}

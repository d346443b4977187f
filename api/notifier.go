package api

// Notifier shows short confirmations and failures to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

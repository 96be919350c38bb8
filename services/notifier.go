package services

// Notifier tells a device that its published survey may have changed.
// Fire-and-forget: implementations never block the caller on delivery and
// never return errors.
type Notifier interface {
	SurveyChanged(deviceID uint)
}

type noopNotifier struct{}

func (noopNotifier) SurveyChanged(uint) {}

func NewNoopNotifier() Notifier { return noopNotifier{} }

type multiNotifier []Notifier

func (m multiNotifier) SurveyChanged(deviceID uint) {
	for _, n := range m {
		n.SurveyChanged(deviceID)
	}
}

// CombineNotifiers fans one notification out to every backend (websocket
// hub, SNS, ...).
func CombineNotifiers(notifiers ...Notifier) Notifier {
	return multiNotifier(notifiers)
}

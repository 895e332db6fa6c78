package navigation

import "fmt"

// SignalKind discriminates the closed set of navigation signals. Views and
// actions never mutate the view stack directly; they return a Signal and the
// Coordinator applies it.
type SignalKind int

const (
	SignalInvalid SignalKind = iota
	SignalStay
	SignalToParent
	SignalToParentWithResult
	SignalPushView
	SignalReload
	SignalPopView
	SignalExitApplication
)

func (k SignalKind) String() string {
	switch k {
	case SignalStay:
		return "Stay"
	case SignalToParent:
		return "ToParent"
	case SignalToParentWithResult:
		return "ToParentWithResult"
	case SignalPushView:
		return "PushView"
	case SignalReload:
		return "Reload"
	case SignalPopView:
		return "PopView"
	case SignalExitApplication:
		return "ExitApplication"
	default:
		return "Invalid"
	}
}

// Signal is a tagged union. The zero value is invalid; always build signals
// through the constructors below so per-variant invariants hold.
type Signal struct {
	kind SignalKind

	// Context is merged into the receiving view on pop/reload transitions.
	context map[string]any

	// Stay only: extra selector actions the view wants appended.
	extraActions []string

	// ToParentWithResult only.
	result map[string]any

	// PushView only: exactly one of viewKey/construct is set.
	viewKey   string
	construct Constructor
}

// Kind returns the variant tag.
func (s Signal) Kind() SignalKind { return s.kind }

// Context returns the context payload, which may be nil.
func (s Signal) Context() map[string]any { return s.context }

// ExtraActions returns extra selector actions requested by a Stay signal.
func (s Signal) ExtraActions() []string { return s.extraActions }

// Result returns the payload of a ToParentWithResult signal.
func (s Signal) Result() map[string]any { return s.result }

// ViewKey returns the registry key of a PushView signal, if it targets one.
func (s Signal) ViewKey() string { return s.viewKey }

// Constructor returns the direct constructor of a PushView signal, if set.
func (s Signal) Constructor() Constructor { return s.construct }

// Stay keeps the current view on screen and redraws it.
func Stay() Signal { return Signal{kind: SignalStay} }

// StayWithActions keeps the current view and asks the selector to run the
// given extra actions.
func StayWithActions(actions ...string) Signal {
	return Signal{kind: SignalStay, extraActions: actions}
}

// ToParent pops one frame without delivering a result.
func ToParent() Signal { return Signal{kind: SignalToParent} }

// ToParentWithResult pops one frame and hands result to the parent's child
// result hook.
func ToParentWithResult(result map[string]any) Signal {
	return Signal{kind: SignalToParentWithResult, result: result}
}

// Reload redraws the current view, bypassing any cached content.
func Reload() Signal { return Signal{kind: SignalReload} }

// PopView pops one frame because the current view's subject is gone.
func PopView() Signal { return Signal{kind: SignalPopView} }

// Exit terminates the navigation session.
func Exit() Signal { return Signal{kind: SignalExitApplication} }

// NewPushView builds a PushView signal. Exactly one of key/construct must be
// set; violating that is a programming error reported at construction time,
// never deferred to dispatch.
func NewPushView(key string, construct Constructor, context map[string]any) (Signal, error) {
	if key == "" && construct == nil {
		return Signal{}, fmt.Errorf("PushView requires a view key or a constructor")
	}
	if key != "" && construct != nil {
		return Signal{}, fmt.Errorf("PushView accepts a view key or a constructor, not both")
	}
	return Signal{kind: SignalPushView, viewKey: key, construct: construct, context: context}, nil
}

// PushByKey builds a PushView signal targeting a registered view key.
func PushByKey(key string, context map[string]any) Signal {
	s, err := NewPushView(key, nil, context)
	if err != nil {
		panic(err)
	}
	return s
}

// PushTo builds a PushView signal targeting a direct constructor.
func PushTo(construct Constructor, context map[string]any) Signal {
	s, err := NewPushView("", construct, context)
	if err != nil {
		panic(err)
	}
	return s
}

package eventbus

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/atlas/pkg/serrors"
)

type Subscriber struct {
	Handler interface{}
}

type EventBus interface {
	Publish(args ...interface{})
	Subscribe(handler interface{})
	Unsubscribe(handler interface{})
	Clear()
	SubscribersCount() int
}

type EventBusWithError interface {
	EventBus
	PublishE(args ...any) error
}

var (
	ErrNoSubscribers        = serrors.NewError("EVENTBUS_NO_SUBSCRIBERS", "no matching subscribers", "")
	ErrInvalidHandlerReturn = serrors.NewError("EVENTBUS_INVALID_HANDLER_RETURN", "invalid handler return signature", "")
)

type publisherImpl struct {
	log         *logrus.Logger
	Subscribers []Subscriber
}

func NewEventPublisher(log *logrus.Logger) EventBus {
	return &publisherImpl{log: log}
}

// MatchSignature reports whether handler is a func whose parameters can
// accept args positionally. Interface parameters match implementing
// arguments; nil arguments match pointer and interface parameters.
func MatchSignature(handler interface{}, args []interface{}) bool {
	t := reflect.TypeOf(handler)
	if t.Kind() != reflect.Func {
		return false
	}
	if t.NumIn() != len(args) {
		return false
	}

	for i, arg := range args {
		paramType := t.In(i)
		if arg == nil {
			if paramType.Kind() != reflect.Interface && paramType.Kind() != reflect.Ptr {
				return false
			}
			continue
		}
		argType := reflect.TypeOf(arg)
		if paramType.Kind() == reflect.Interface {
			if !argType.Implements(paramType) {
				return false
			}
			continue
		}
		if !argType.AssignableTo(paramType) {
			return false
		}
	}

	return true
}

// dispatch calls every matching subscriber, recovering panics per
// handler. onReturn, when non-nil, receives each handler's return values.
func (p *publisherImpl) dispatch(args []interface{}, onReturn func(handler reflect.Value, out []reflect.Value)) (handled bool, panics []error) {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		in[i] = reflect.ValueOf(arg)
	}

	for _, subscriber := range p.Subscribers {
		if !MatchSignature(subscriber.Handler, args) {
			continue
		}
		v := reflect.ValueOf(subscriber.Handler)
		func() {
			defer func() {
				if r := recover(); r != nil {
					panics = append(panics, fmt.Errorf("eventbus: handler %s panicked: %v", v.Type().String(), r))
					return
				}
				handled = true
			}()
			out := v.Call(in)
			if onReturn != nil {
				onReturn(v, out)
			}
		}()
	}
	return handled, panics
}

func (p *publisherImpl) Publish(args ...interface{}) {
	handled, panics := p.dispatch(args, nil)
	if p.log == nil {
		return
	}
	for _, err := range panics {
		p.log.WithError(err).Errorf("eventbus: handler panicked with args %v", args)
	}
	if !handled && len(panics) == 0 {
		p.log.Warnf("eventbus.Publish: no matching subscribers for event with args: %v", args)
	}
}

func (p *publisherImpl) PublishE(args ...any) error {
	var errs []error
	handled, panics := p.dispatch(args, func(handler reflect.Value, out []reflect.Value) {
		if len(out) == 0 {
			return
		}
		if len(out) != 1 {
			errs = append(errs, fmt.Errorf("%w: handler %s returned %d values", ErrInvalidHandlerReturn, handler.Type().String(), len(out)))
			return
		}
		ret := out[0]
		if ret.Type() != reflect.TypeOf((*error)(nil)).Elem() {
			errs = append(errs, fmt.Errorf("%w: handler %s return type is %s", ErrInvalidHandlerReturn, handler.Type().String(), ret.Type().String()))
			return
		}
		if !ret.IsNil() {
			errs = append(errs, ret.Interface().(error))
		}
	})

	errs = append(errs, panics...)
	if !handled && len(panics) == 0 {
		return ErrNoSubscribers
	}
	return errors.Join(errs...)
}

func (p *publisherImpl) Subscribe(handler interface{}) {
	t := reflect.TypeOf(handler)
	if t.Kind() != reflect.Func {
		panic("handler must be a function")
	}
	p.Subscribers = append(
		p.Subscribers,
		Subscriber{Handler: handler},
	)
}

func (p *publisherImpl) Unsubscribe(handler interface{}) {
	target := reflect.ValueOf(handler)
	for i, subscriber := range p.Subscribers {
		// Func values are not comparable with ==; compare identity via Pointer.
		if reflect.ValueOf(subscriber.Handler).Pointer() == target.Pointer() {
			p.Subscribers = append(p.Subscribers[:i], p.Subscribers[i+1:]...)
			return
		}
	}
}

func (p *publisherImpl) Clear() {
	p.Subscribers = []Subscriber{}
}

func (p *publisherImpl) SubscribersCount() int {
	return len(p.Subscribers)
}

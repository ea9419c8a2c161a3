package di_test

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/sghaida/odic/di"
)

// DB is a fake database handle that counts how often it was closed.
type DB struct {
	DSN    string
	closed atomic.Int32
}

func (d *DB) Close() error {
	d.closed.Add(1)
	return nil
}

func newDB() *DB { return &DB{DSN: "postgres://local"} }

// Logger is a tiny logger.
type Logger struct {
	Level string
}

func newLogger() *Logger { return &Logger{Level: "info"} }

// BasketGetter is the interface services depend on.
type BasketGetter interface {
	GetBasket(userID string) (string, error)
}

// BasketService implements BasketGetter.
type BasketService struct {
	DB     *DB
	Logger *Logger
}

func (b *BasketService) GetBasket(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("empty user")
	}
	return "basket:" + userID, nil
}

func newBasketService(db *DB, l *Logger) *BasketService {
	return &BasketService{DB: db, Logger: l}
}

// Checkout depends on the BasketGetter interface.
type Checkout struct {
	Baskets BasketGetter
}

func newCheckout(b BasketGetter) *Checkout { return &Checkout{Baskets: b} }

// Handler is an unregistered struct built from inject tags.
type Handler struct {
	Checkout *Checkout `inject:""`
	Logger   *Logger   `inject:""`
	skipped  *DB
}

// Notifier has named implementations.
type Notifier interface {
	Channel() string
}

type channel struct{ name string }

func (c *channel) Channel() string { return c.name }

func newChannel(registeredName string) *channel { return &channel{name: registeredName} }

// Channel is an enumeration used as dictionary key.
type Channel int

const (
	Email Channel = iota + 1
	SMS
)

func (c *Channel) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "email":
		*c = Email
	case "sms":
		*c = SMS
	default:
		return errors.New("unknown channel")
	}
	return nil
}

// disposer implements di.Disposable and can fail.
type disposer struct {
	calls atomic.Int32
	err   error
}

func (d *disposer) Dispose() error {
	d.calls.Add(1)
	return d.err
}

// cycle fixtures

type cycleA struct{ B *cycleB }

type cycleB struct{ A *cycleA }

func newCycleA(b *cycleB) *cycleA { return &cycleA{B: b} }

func newCycleB(a *cycleA) *cycleB { return &cycleB{A: a} }

// lazyA breaks the A -> B edge with a lazy value.
type lazyA struct{ B *di.Lazy[*lazyB] }

type lazyB struct{ A *lazyA }

func newLazyA(b *di.Lazy[*lazyB]) *lazyA { return &lazyA{B: b} }

func newLazyB(a *lazyA) *lazyB { return &lazyB{A: a} }

// resolverHolder keeps the resolver it was constructed with.
type resolverHolder struct {
	R di.Resolver
}

func newResolverHolder(r di.Resolver) *resolverHolder { return &resolverHolder{R: r} }

type holderDep struct{ H *resolverHolder }

func newHolderDep(h *resolverHolder) *holderDep { return &holderDep{H: h} }

func newContainer(opts ...di.Option) *di.Container {
	return di.NewContainer(opts...)
}

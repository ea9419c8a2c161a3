package pipeline

import (
	"encoding"
	"reflect"

	"github.com/sghaida/odic/di/resolution"
)

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// dictionaryStage answers map[K]V requests, K being a string kind or a type
// whose pointer implements encoding.TextUnmarshaler, with every named
// registration of V keyed by its name.
//
// A map type that is itself registered is left to the inner stages.
// Unnamed registrations of V have no key and are skipped. With a parent,
// the parent's dictionary supplies the names this container lacks; those
// entries are resolved and cached by the parent.
type dictionaryStage struct {
	inner    Stage
	provider resolution.Provider
	parent   Stage
}

func (s *dictionaryStage) Resolve(req resolution.Request) (resolution.Result, error) {
	t := req.ServiceType
	if t == nil || t.Kind() != reflect.Map || !isDictionaryKey(t.Key()) {
		return s.inner.Resolve(req)
	}
	if _, ok := s.inner.Registration(req); ok {
		return s.inner.Resolve(req)
	}

	valueType := t.Elem()
	m := reflect.MakeMap(t)
	for _, reg := range s.provider.GetAll(valueType) {
		name := reg.Name()
		if name == "" {
			continue
		}
		key, err := dictionaryKey(t.Key(), name)
		if err != nil {
			return resolution.Failure(req.Path), err
		}

		res, err := s.inner.Resolve(resolution.Request{ServiceType: valueType, Name: name, Path: req.Path})
		if err != nil {
			return resolution.Failure(req.Path), err
		}
		if !res.IsSuccess {
			return resolution.Failure(req.Path), nil
		}
		m.SetMapIndex(key, valueOf(valueType, res.ResolvedObject))
	}

	if s.parent != nil {
		res, err := s.parent.Resolve(req)
		if err != nil {
			return resolution.Failure(req.Path), err
		}
		if !res.IsSuccess {
			return resolution.Failure(req.Path), nil
		}
		inherited := reflect.ValueOf(res.ResolvedObject)
		if inherited.IsValid() && inherited.Type() == t {
			iter := inherited.MapRange()
			for iter.Next() {
				if !m.MapIndex(iter.Key()).IsValid() {
					m.SetMapIndex(iter.Key(), iter.Value())
				}
			}
		}
	}
	return resolution.Success(req.Path, m.Interface()), nil
}

func (s *dictionaryStage) Registration(req resolution.Request) (resolution.Registration, bool) {
	return s.inner.Registration(req)
}

func isDictionaryKey(k reflect.Type) bool {
	return k.Kind() == reflect.String || reflect.PointerTo(k).Implements(textUnmarshalerType)
}

// dictionaryKey converts a registration name into the key type. Enumeration
// style keys (TextUnmarshaler) reject names that match no constant.
func dictionaryKey(k reflect.Type, name string) (reflect.Value, error) {
	if reflect.PointerTo(k).Implements(textUnmarshalerType) {
		ptr := reflect.New(k)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(name)); err != nil {
			return reflect.Value{}, resolution.InvalidKeyError{KeyType: k, Name: name, Err: err}
		}
		return ptr.Elem(), nil
	}
	return reflect.ValueOf(name).Convert(k), nil
}

func valueOf(t reflect.Type, obj any) reflect.Value {
	if obj == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(obj)
}

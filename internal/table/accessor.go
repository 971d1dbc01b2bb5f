package table

import "reflect"

// Accessor is the second value-resolution slot of a Column. It holds either
// a field name or an extraction function, discriminated when the descriptor
// is built rather than inspected at render time. The zero Accessor holds
// nothing and never resolves.
type Accessor[T any] struct {
	field string
	fn    func(T) any
}

// Field returns an Accessor that looks up the named field on each row.
func Field[T any](name string) Accessor[T] {
	return Accessor[T]{field: name}
}

// Func returns an Accessor that derives the cell value from the row.
func Func[T any](fn func(T) any) Accessor[T] {
	return Accessor[T]{fn: fn}
}

// fieldValue looks up name on an arbitrary row: exported struct fields
// (through pointers) and string-keyed maps. A missing field is nil, not an
// error; columns pointing at nothing render blank.
func fieldValue(row any, name string) any {
	v := reflect.ValueOf(row)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		f := v.FieldByName(name)
		if !f.IsValid() || !f.CanInterface() {
			return nil
		}
		return f.Interface()
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil
		}
		mv := v.MapIndex(reflect.ValueOf(name))
		if !mv.IsValid() {
			return nil
		}
		return mv.Interface()
	}
	return nil
}

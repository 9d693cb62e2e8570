package ptr

// Of возвращает указатель на копию значения
func Of[T any](v T) *T {
	return &v
}

// Deref возвращает значение по указателю или zero value для nil
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// NonEmpty возвращает nil для пустой строки
func NonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

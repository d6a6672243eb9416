package subdec

func valueOrDefault[T any](p *T, def T) T {
	if p != nil {
		return *p
	}
	return def
}

func ptr[T any](v T) *T {
	return &v
}

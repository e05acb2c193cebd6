package material

// fixedSampler returns the same value for every draw and counts draws
type fixedSampler struct {
	value float64
	draws int
}

func (f *fixedSampler) Get1D() float64 {
	f.draws++
	return f.value
}

package renderer

// Unwind collects cleanup functions and runs them in reverse order, so
// resources are released opposite to how they were created.
type Unwind []func()

func (u *Unwind) Add(cleanup func()) {
	*u = append(*u, cleanup)
}

// Unwind runs every cleanup, last added first, and empties the list.
func (u *Unwind) Unwind() {
	for i := len(*u) - 1; i >= 0; i-- {
		(*u)[i]()
	}
	*u = (*u)[:0]
}

func (u Unwind) Len() int {
	return len(u)
}
